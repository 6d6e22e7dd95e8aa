package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecificErrorsMatchTheirKind(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrUserNotFound, ErrNotFound},
		{ErrMembershipNotFound, ErrNotFound},
		{ErrUserAlreadyExists, ErrConflict},
		{ErrCannotDeleteSelf, ErrInvalidInput},
		{ErrInvalidQRPayload, ErrInvalidInput},
		{ErrTokenRevoked, ErrUnauthorized},
		{ErrAdminRequired, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			wrapped := fmt.Errorf("op: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.kind))
			assert.True(t, errors.Is(wrapped, tt.err))
		})
	}

	assert.False(t, errors.Is(ErrUserNotFound, ErrForbidden))
}

func TestValidChannel(t *testing.T) {
	assert.True(t, ValidChannel(ChannelQR))
	assert.True(t, ValidChannel(ChannelManual))
	assert.True(t, ValidChannel(ChannelSelfCheckin))
	assert.False(t, ValidChannel("door"))
	assert.False(t, ValidChannel(""))
}

func TestIdentityIsAdmin(t *testing.T) {
	assert.True(t, Identity{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Identity{Role: RoleUser}.IsAdmin())
	assert.False(t, Identity{}.IsAdmin())
}
