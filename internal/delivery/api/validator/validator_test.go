package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
}

func TestRequestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		input   sampleRequest
		wantErr string
	}{
		{
			name:  "valid",
			input: sampleRequest{Email: "alice@example.com", Username: "alice"},
		},
		{
			name:    "missing email",
			input:   sampleRequest{Username: "alice"},
			wantErr: "email is required",
		},
		{
			name:    "bad email",
			input:   sampleRequest{Email: "nope", Username: "alice"},
			wantErr: "email must be a valid email address",
		},
		{
			name:    "short username",
			input:   sampleRequest{Email: "alice@example.com", Username: "al"},
			wantErr: "username must be at least 3 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequestValidator_JoinsMultipleErrors(t *testing.T) {
	err := New().Validate(&sampleRequest{})

	require.Error(t, err)
	assert.Equal(t, "email is required; username is required", err.Error())
}
