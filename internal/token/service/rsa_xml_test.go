package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

func TestRSAKeyXML(t *testing.T) {
	key := testRSAKey()

	t.Run("Success_PublicKeyRoundTrip", func(t *testing.T) {
		data, err := MarshalRSAPublicKeyXML(&key.PublicKey)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "<RSAKeyValue>"))
		assert.Contains(t, string(data), "<Exponent>AQAB</Exponent>")
		assert.NotContains(t, string(data), "<D>")

		parsed, err := ParseRSAPublicKey(data)
		require.NoError(t, err)
		assert.True(t, key.PublicKey.Equal(parsed))
	})

	t.Run("Success_PrivateKeyRoundTrip", func(t *testing.T) {
		data, err := MarshalRSAPrivateKeyXML(key)
		require.NoError(t, err)
		for _, element := range []string{"Modulus", "Exponent", "P", "Q", "DP", "DQ", "InverseQ", "D"} {
			assert.Contains(t, string(data), "<"+element+">")
		}

		parsed, err := ParseRSAPrivateKey(data)
		require.NoError(t, err)
		assert.True(t, key.Equal(parsed))
	})

	t.Run("Success_WhitespaceInsideComponents", func(t *testing.T) {
		data, err := MarshalRSAPublicKeyXML(&key.PublicKey)
		require.NoError(t, err)
		wrapped := strings.Replace(string(data), "<Modulus>", "<Modulus>\n    ", 1)

		parsed, err := ParseRSAPublicKey([]byte(wrapped))
		require.NoError(t, err)
		assert.True(t, key.PublicKey.Equal(parsed))
	})

	t.Run("Error_WrongRootElement", func(t *testing.T) {
		_, err := ParseRSAPublicKey([]byte("<RSAKey><Modulus>AQAB</Modulus></RSAKey>"))
		assert.ErrorIs(t, err, tokenDomain.ErrConfiguration)
	})

	t.Run("Error_NotXML", func(t *testing.T) {
		_, err := ParseRSAPublicKey([]byte("definitely not a key"))
		assert.ErrorIs(t, err, tokenDomain.ErrConfiguration)
	})

	t.Run("Error_MissingExponent", func(t *testing.T) {
		_, err := ParseRSAPublicKey([]byte("<RSAKeyValue><Modulus>AQAB</Modulus></RSAKeyValue>"))
		assert.ErrorIs(t, err, tokenDomain.ErrKeyFormat)
		assert.Contains(t, err.Error(), "Exponent is missing")
	})

	t.Run("Error_BadBase64", func(t *testing.T) {
		_, err := ParseRSAPublicKey(
			[]byte("<RSAKeyValue><Modulus>!!!</Modulus><Exponent>AQAB</Exponent></RSAKeyValue>"),
		)
		assert.ErrorIs(t, err, tokenDomain.ErrKeyFormat)
		assert.Contains(t, err.Error(), "Modulus is not valid base64")
	})

	t.Run("Error_PrivateComponentMissing", func(t *testing.T) {
		data, err := MarshalRSAPublicKeyXML(&key.PublicKey)
		require.NoError(t, err)

		_, err = ParseRSAPrivateKey(data)
		assert.ErrorIs(t, err, tokenDomain.ErrKeyFormat)
		assert.Contains(t, err.Error(), "P is missing")
	})

	t.Run("Error_InconsistentPrivateKey", func(t *testing.T) {
		data, err := MarshalRSAPrivateKeyXML(key)
		require.NoError(t, err)

		otherData, err := MarshalRSAPrivateKeyXML(otherRSAKey())
		require.NoError(t, err)
		mixed := swapElement(t, string(data), string(otherData), "D")

		_, err = ParseRSAPrivateKey([]byte(mixed))
		assert.ErrorIs(t, err, tokenDomain.ErrConfiguration)
	})
}

// swapElement replaces the content of element in doc with its content in other.
func swapElement(t *testing.T, doc, other, element string) string {
	t.Helper()
	open, closing := "<"+element+">", "</"+element+">"
	extract := func(s string) string {
		start := strings.Index(s, open)
		require.GreaterOrEqual(t, start, 0)
		end := strings.Index(s[start:], closing)
		require.GreaterOrEqual(t, end, 0)
		return s[start : start+end+len(closing)]
	}
	return strings.Replace(doc, extract(doc), extract(other), 1)
}
