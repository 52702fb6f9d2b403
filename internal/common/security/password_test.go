package security

import (
	"testing"

	"notes_manager/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifiesOnlyOriginal(t *testing.T) {
	hash, err := HashPassword("correct horse 1")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse 1", hash))
	assert.False(t, CheckPasswordHash("wrong horse 1", hash))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "passw0rd", nil},
		{"too short", "pass1", common.ErrWeakPassword},
		{"no digit", "passwords", common.ErrWeakPassword},
		{"no letter", "12345678", common.ErrWeakPassword},
		{"empty", "", common.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
