package validator

import (
	"testing"

	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentialsRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank,max=72"`
	Ignored  string `json:"-"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   credentialsRequest
		want    []domainerrors.FieldError
		wantErr bool
	}{
		{
			name:  "valid",
			input: credentialsRequest{Username: "alice", Password: "secret"},
		},
		{
			name:    "both missing",
			input:   credentialsRequest{},
			wantErr: true,
			want: []domainerrors.FieldError{
				{Field: "username", Message: "Username is required."},
				{Field: "password", Message: "Password is required."},
			},
		},
		{
			name:    "blank username",
			input:   credentialsRequest{Username: "   ", Password: "secret"},
			wantErr: true,
			want: []domainerrors.FieldError{
				{Field: "username", Message: "Username is required."},
			},
		},
		{
			name:    "password too long",
			input:   credentialsRequest{Username: "alice", Password: string(make([]byte, 73))},
			wantErr: true,
			want: []domainerrors.FieldError{
				{Field: "password", Message: "Password must be at most 72 bytes."},
			},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var validationErr *domainerrors.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.want, validationErr.Fields)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := New().Validate("not a struct")
	require.Error(t, err)

	var validationErr *domainerrors.ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Username", Label("username"))
	assert.Equal(t, "", Label(""))
}
