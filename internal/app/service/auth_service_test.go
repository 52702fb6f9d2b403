package service

import (
	"context"
	"testing"
	"time"

	"notes_manager/internal/common"
	"notes_manager/internal/common/security"
	"notes_manager/internal/domain/repository"
	"notes_manager/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *repository.MemoryUserRepository) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()
	userRepo := repository.NewMemoryUserRepository()
	return NewAuthService(userRepo, security.NewMemoryRevocationStore()), userRepo
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		Email:     "alice@example.com",
		Password:  "passw0rd1",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func tokenSubject(t *testing.T, tokenString string) string {
	t.Helper()
	token, err := jwtauth.VerifyToken(security.TokenAuth, tokenString)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	tc, err := security.ParseClaims(claims)
	require.NoError(t, err)
	return tc.Subject
}

func TestRegister_SessionSubjectResolvesToCreatedUser(t *testing.T) {
	svc, userRepo := newAuthService(t)

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "Alice", resp.FirstName)
	assert.Equal(t, "Smith", resp.LastName)

	user, err := userRepo.FindByID(context.Background(), tokenSubject(t, resp.Token))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.Description)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Email = "ALICE@Example.COM"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	req := registerRequest()
	req.Password = "short1"
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, common.ErrWeakPassword)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newAuthService(t)

	req := registerRequest()
	req.FirstName = ""
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRegister_PasswordNeverStoredPlaintext(t *testing.T) {
	svc, userRepo := newAuthService(t)

	req := registerRequest()
	resp, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	user, err := userRepo.FindByID(context.Background(), tokenSubject(t, resp.Token))
	require.NoError(t, err)
	assert.NotEqual(t, req.Password, user.HashedPassword)
	assert.True(t, security.CheckPasswordHash(req.Password, user.HashedPassword))
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Alice@Example.com", Password: "passw0rd1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.Email)
}

func TestLogin_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, errWrongPassword := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "not-the-one1"})
	_, errUnknownEmail := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "passw0rd1"})

	require.Error(t, errWrongPassword)
	require.Error(t, errUnknownEmail)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	assert.ErrorIs(t, errWrongPassword, common.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, common.ErrInvalidCredentials)
}

func TestUserInfo_UnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.UserInfo(context.Background(), "missing-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateProfile_MutatesOnlyProfileFields(t *testing.T) {
	svc, userRepo := newAuthService(t)

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	userID := tokenSubject(t, resp.Token)

	err = svc.UpdateProfile(context.Background(), userID, UpdateProfileRequest{
		FirstName:   "Alicia",
		LastName:    "Jones",
		Description: "gardener",
	})
	require.NoError(t, err)

	user, err := userRepo.FindByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", user.FirstName)
	assert.Equal(t, "Jones", user.LastName)
	assert.Equal(t, "gardener", user.Description)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, security.CheckPasswordHash("passw0rd1", user.HashedPassword))
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	security.InitJWT()
	store := security.NewMemoryRevocationStore()
	svc := NewAuthService(repository.NewMemoryUserRepository(), store)

	claims := &security.TokenClaims{
		Subject:   "user-1",
		TokenID:   "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, svc.Logout(ctx, claims))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
