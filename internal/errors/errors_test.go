package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyError struct {
	Component string
}

func (e keyError) Error() string { return "bad component " + e.Component }

func TestWrap(t *testing.T) {
	t.Run("Success_PreservesChain", func(t *testing.T) {
		wrapped := Wrap(ErrUnavailable, "token issuance is disabled")
		require.Error(t, wrapped)
		assert.Equal(t, "token issuance is disabled: unavailable", wrapped.Error())
		assert.True(t, Is(wrapped, ErrUnavailable))
	})

	t.Run("Success_NilStaysNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("Success_DoubleWrap", func(t *testing.T) {
		inner := Wrap(ErrNotFound, "tenant not found")
		outer := Wrap(inner, "unknown tenant")
		assert.True(t, Is(outer, ErrNotFound))
		assert.False(t, Is(outer, ErrConflict))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(keyError{Component: "Modulus"}, "failed to decode key")

	var target keyError
	require.True(t, As(err, &target))
	assert.Equal(t, "Modulus", target.Component)
}

func TestNew(t *testing.T) {
	err := New("signing key missing")
	assert.EqualError(t, err, "signing key missing")
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestCategoriesAreDistinct(t *testing.T) {
	categories := []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrUnavailable}
	for i, a := range categories {
		for j, b := range categories {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
