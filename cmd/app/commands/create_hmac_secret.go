package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	tokenService "github.com/allisson/tokenbroker/internal/token/service"
)

// hmacSecretBytes is the amount of random data behind a generated secret.
const hmacSecretBytes = 48

// RunCreateHMACSecret generates a random HS256 secret and prints it as an
// environment variable. When keeper is not nil the secret is wrapped by the KMS
// and must be used together with the same KMS_KEY_URI.
func RunCreateHMACSecret(
	ctx context.Context,
	keeper tokenService.KMSKeeper,
	writer io.Writer,
	kmsKeyURI string,
) error {
	raw := make([]byte, hmacSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate HMAC secret: %w", err)
	}
	secret := []byte(base64.StdEncoding.EncodeToString(raw))

	_, _ = fmt.Fprintln(writer, "# Token signing configuration (HMAC)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "TOKEN_USE_RSA=\"false\"")

	if keeper == nil {
		_, _ = fmt.Fprintf(writer, "TOKEN_HMAC_SECRET_KEY=\"%s\"\n", secret)
		return nil
	}

	wrapped, err := tokenService.WrapMaterial(ctx, keeper, secret)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "TOKEN_HMAC_SECRET_KEY=\"%s\"\n", wrapped)
	return nil
}
