package service

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyService_GenerateAPIKey(t *testing.T) {
	service := NewAPIKeyService()

	t.Run("Success_Shape", func(t *testing.T) {
		plainKey, keyHash, err := service.GenerateAPIKey()
		require.NoError(t, err)

		assert.Len(t, plainKey, 32)
		_, err = hex.DecodeString(plainKey)
		assert.NoError(t, err, "api key should be hex")

		expected := sha256.Sum256([]byte(plainKey))
		assert.Equal(t, hex.EncodeToString(expected[:]), keyHash)
	})

	t.Run("Success_Unique", func(t *testing.T) {
		key1, hash1, err := service.GenerateAPIKey()
		require.NoError(t, err)
		key2, hash2, err := service.GenerateAPIKey()
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestAPIKeyService_HashAPIKey(t *testing.T) {
	service := NewAPIKeyService()

	t.Run("Success_Deterministic", func(t *testing.T) {
		assert.Equal(t, service.HashAPIKey("abc"), service.HashAPIKey("abc"))
	})

	t.Run("Success_KnownVector", func(t *testing.T) {
		assert.Equal(t,
			"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
			service.HashAPIKey("abc"),
		)
	})

	t.Run("Success_CaseSensitive", func(t *testing.T) {
		assert.NotEqual(t, service.HashAPIKey("ABC"), service.HashAPIKey("abc"))
	})
}
