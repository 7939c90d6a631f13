package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/tokenbroker/internal/errors"
)

func TestTenant_ApplyCookieDefaults(t *testing.T) {
	defaults := CookieDefaults{Name: "sso_token", Domain: "example.com", Path: "/"}

	t.Run("Success_FillsEmptyFields", func(t *testing.T) {
		tenant := &Tenant{}
		tenant.ApplyCookieDefaults(defaults)
		assert.Equal(t, "sso_token", tenant.CookieName)
		assert.Equal(t, "example.com", tenant.CookieDomain)
		assert.Equal(t, "/", tenant.CookiePath)
	})

	t.Run("Success_KeepsOverrides", func(t *testing.T) {
		tenant := &Tenant{CookieName: "sid", CookieDomain: "app.example.com", CookiePath: "/app"}
		tenant.ApplyCookieDefaults(defaults)
		assert.Equal(t, "sid", tenant.CookieName)
		assert.Equal(t, "app.example.com", tenant.CookieDomain)
		assert.Equal(t, "/app", tenant.CookiePath)
	})
}

func TestCompileRoleRegexes(t *testing.T) {
	t.Run("Success_KeepsOrder", func(t *testing.T) {
		tenant := &Tenant{RoleRegexes: []string{"^Finance-.*", "Admins$"}}
		compiled, err := tenant.CompileRoleRegexes()
		require.NoError(t, err)
		require.Len(t, compiled, 2)
		assert.Equal(t, "^Finance-.*", compiled[0].String())
		assert.Equal(t, "Admins$", compiled[1].String())
	})

	t.Run("Success_Empty", func(t *testing.T) {
		compiled, err := CompileRoleRegexes(nil)
		require.NoError(t, err)
		assert.Empty(t, compiled)
	})

	t.Run("Error_InvalidPattern", func(t *testing.T) {
		_, err := CompileRoleRegexes([]string{"ok", "(unclosed"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRoleRegex)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "(unclosed")
	})
}
