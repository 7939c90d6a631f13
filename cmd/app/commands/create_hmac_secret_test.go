package commands

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenService "github.com/allisson/tokenbroker/internal/token/service"
)

var hmacSecretLine = regexp.MustCompile(`TOKEN_HMAC_SECRET_KEY="([^"]+)"`)

func localKeeperURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestRunCreateHMACSecret(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("plain", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunCreateHMACSecret(ctx, nil, &out, ""))

		match := hmacSecretLine.FindStringSubmatch(out.String())
		require.Len(t, match, 2)
		assert.NotContains(t, out.String(), "KMS_KEY_URI")

		signing, err := tokenService.NewKeyManager(logger).Initialize(ctx, tokenService.KeyConfig{
			HMACSecret: match[1],
		})
		require.NoError(t, err)
		assert.NotNil(t, signing)
	})

	t.Run("unique", func(t *testing.T) {
		var first, second bytes.Buffer
		require.NoError(t, RunCreateHMACSecret(ctx, nil, &first, ""))
		require.NoError(t, RunCreateHMACSecret(ctx, nil, &second, ""))
		assert.NotEqual(t, first.String(), second.String())
	})

	t.Run("kms-wrapped", func(t *testing.T) {
		uri := localKeeperURI(t)
		keeper, err := tokenService.OpenKMSKeeper(ctx, uri)
		require.NoError(t, err)
		defer func() { _ = keeper.Close() }()

		var out bytes.Buffer
		require.NoError(t, RunCreateHMACSecret(ctx, keeper, &out, uri))
		assert.Contains(t, out.String(), `KMS_KEY_URI="`+uri+`"`)

		match := hmacSecretLine.FindStringSubmatch(out.String())
		require.Len(t, match, 2)

		signing, err := tokenService.NewKeyManager(logger).Initialize(ctx, tokenService.KeyConfig{
			HMACSecret: match[1],
			KMSKeyURI:  uri,
		})
		require.NoError(t, err)
		assert.NotNil(t, signing)
	})
}
