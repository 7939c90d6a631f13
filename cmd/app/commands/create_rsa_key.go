package commands

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tokenService "github.com/allisson/tokenbroker/internal/token/service"
)

// RunCreateRSAKey generates an RSA key pair and writes it as <RSAKeyValue> XML
// documents named public.xml and private.xml in outputDir. When keeper is not nil
// both files hold base64 KMS ciphertext instead of plain XML.
func RunCreateRSAKey(
	ctx context.Context,
	keeper tokenService.KMSKeeper,
	logger *slog.Logger,
	writer io.Writer,
	outputDir string,
	bits int,
	kmsKeyURI string,
) error {
	if bits < tokenService.MinRSAKeyBits {
		return fmt.Errorf("key size must be at least %d bits", tokenService.MinRSAKeyBits)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return fmt.Errorf("failed to generate RSA key: %w", err)
	}

	publicXML, err := tokenService.MarshalRSAPublicKeyXML(&privateKey.PublicKey)
	if err != nil {
		return err
	}
	privateXML, err := tokenService.MarshalRSAPrivateKeyXML(privateKey)
	if err != nil {
		return err
	}

	if keeper != nil {
		if publicXML, err = tokenService.WrapMaterial(ctx, keeper, publicXML); err != nil {
			return err
		}
		if privateXML, err = tokenService.WrapMaterial(ctx, keeper, privateXML); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	publicPath := filepath.Join(outputDir, "public.xml")
	privatePath := filepath.Join(outputDir, "private.xml")

	if err := os.WriteFile(publicPath, publicXML, 0o644); err != nil { //nolint:gosec // public key
		return fmt.Errorf("failed to write public key: %w", err)
	}
	if err := os.WriteFile(privatePath, privateXML, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	logger.Info("rsa key pair created",
		slog.Int("bits", bits),
		slog.String("public_key", publicPath),
		slog.String("private_key", privatePath),
		slog.Bool("kms_wrapped", keeper != nil),
	)

	_, _ = fmt.Fprintln(writer, "# Token signing configuration (RSA)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "TOKEN_USE_RSA=\"true\"")
	_, _ = fmt.Fprintf(writer, "TOKEN_RSA_PUBLIC_KEY_XML=\"%s\"\n", publicPath)
	_, _ = fmt.Fprintf(writer, "TOKEN_RSA_PRIVATE_KEY_XML=\"%s\"\n", privatePath)
	if keeper != nil {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Validating services only need public.xml.")
	return nil
}
