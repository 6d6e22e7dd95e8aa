package validator

import (
	"errors"
	"testing"

	"princip-gym/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

type activateRequest struct {
	Months int    `json:"months" validate:"required_without=Days,excluded_with=Days,omitempty,min=1,max=36"`
	Days   int    `json:"days" validate:"omitempty,min=1,max=1095"`
	Type   string `json:"type" validate:"omitempty,oneof=Basic Premium VIP"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      activateRequest
		wantErr string
	}{
		{name: "months only", in: activateRequest{Months: 3}},
		{name: "days only", in: activateRequest{Days: 30}},
		{name: "neither", in: activateRequest{}, wantErr: "months is required when days is not set"},
		{name: "both", in: activateRequest{Months: 1, Days: 30}, wantErr: "months cannot be combined with days"},
		{name: "months too large", in: activateRequest{Months: 40}, wantErr: "months must be at most 36"},
		{name: "bad tier", in: activateRequest{Months: 1, Type: "Gold"}, wantErr: "type must be one of: Basic Premium VIP"},
		{name: "bad email", in: activateRequest{Days: 1, Email: "nope"}, wantErr: "email must be a valid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
