package model

import (
	"time"
)

const MaxTitleLength = 200

// Note is owned by exactly one user. The owner and creation timestamp are set
// once at creation and never change.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      string    `json:"-"`
	UserEmail   string    `json:"userEmail,omitempty"` // Populated only where owner context is part of the response
	IsPublic    bool      `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
