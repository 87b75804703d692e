package validation

import (
	"errors"
	"strings"
	"testing"

	"nightlife/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass12!@", false},
		{"Exactly Min Length", "Abcdefghij1!", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 125) + "1!", false},
		{"Too Short", "Small1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"No Upper", "securepass12!", true},
		{"No Lower", "SECUREPASS12!", true},
		{"No Digit", "SecurePass!!", true},
		{"No Special", "SecurePass123", true},
		{"Unicode Characters", "ÅngstromPass12!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type registerDTO struct {
	Pseudonym string `json:"pseudonym" validate:"required,pseudonym"`
	Email     string `json:"email" validate:"required,email"`
	Rating    *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

func TestStruct(t *testing.T) {
	five := 5
	require.NoError(t, Struct(registerDTO{Pseudonym: "night_owl", Email: "a@b.co", Rating: &five}))

	six := 6
	err := Struct(registerDTO{Pseudonym: "x", Email: "nope", Rating: &six})
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)

	fields, ok := appErr.Context["fields"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "pseudonym", fields["pseudonym"])
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "max", fields["rating"])
}
