package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"notes_manager/internal/common"
	"notes_manager/internal/common/security"
	"notes_manager/internal/domain/model"
	"notes_manager/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo    repository.UserRepository
	revocations security.RevocationStore
}

func NewAuthService(userRepo repository.UserRepository, revocations security.RevocationStore) *AuthService {
	return &AuthService{userRepo: userRepo, revocations: revocations}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UserInfoResponse struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Description string `json:"description"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return nil, common.Errorf("missing required registration fields: %w", common.ErrValidation)
	}
	if err := security.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	// Pre-check so the caller gets a clean duplicate error; the unique
	// constraint on the normalized email still backstops concurrent registers.
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		HashedPassword: hashedPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Description:    "",
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Logged internally only; the external error never distinguishes
			// an unknown email from a wrong password.
			log.Printf("login failed: no user for email %s", req.Email)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		log.Printf("login failed: wrong password for user %s", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *model.User) (*AuthResponse, error) {
	token, err := security.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{
		Token:     token,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *AuthService) UserInfo(ctx context.Context, userID string) (*UserInfoResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserInfoResponse{
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Description: user.Description,
	}, nil
}

// UpdateProfile mutates name and description only. Email and password are
// immutable through this flow.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) error {
	if req.FirstName == "" || req.LastName == "" {
		return common.Errorf("first and last name are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Description = req.Description

	return s.userRepo.UpdateProfile(ctx, user)
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *security.TokenClaims) error {
	if claims.TokenID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if err := s.revocations.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
