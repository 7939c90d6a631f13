package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/tokenbroker/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(errors.New("token: cannot be blank."))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "token: cannot be blank.")
	})
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid", "payroll", false},
		{"empty is skipped", "", false},
		{"spaces only", "   ", true},
		{"tabs and newlines", "\t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, NotBlank)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("payroll", NoWhitespace))
	assert.Error(t, validation.Validate(" payroll", NoWhitespace))
	assert.Error(t, validation.Validate("payroll\n", NoWhitespace))
}

func TestCookiePath(t *testing.T) {
	assert.NoError(t, validation.Validate("/", CookiePath))
	assert.NoError(t, validation.Validate("/app", CookiePath))
	assert.NoError(t, validation.Validate("", CookiePath))
	assert.Error(t, validation.Validate("app", CookiePath))
}
