package service

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"gocloud.dev/secrets"

	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"

	// Register KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

const (
	// MinHMACSecretLength is the minimum HS256 secret size in bytes.
	MinHMACSecretLength = 32
	// MinRSAKeyBits is the smallest RSA modulus accepted for RS256.
	MinRSAKeyBits = 2048
)

// KeyConfig selects and locates the signing material.
type KeyConfig struct {
	UseRSA     bool
	HMACSecret string
	// RSAPublicKeyPath and RSAPrivateKeyPath point at XML <RSAKeyValue> or PEM files.
	RSAPublicKeyPath  string
	RSAPrivateKeyPath string
	// KMSKeyURI, when set, means the HMAC secret and key files hold base64
	// ciphertext to be decrypted by this gocloud.dev secrets keeper.
	KMSKeyURI string
}

// KMSKeeper is the subset of *secrets.Keeper used to unwrap key material.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// OpenKMSKeeper opens a gocloud.dev secrets keeper.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKMSKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

type keyManager struct {
	logger   *slog.Logger
	readFile func(name string) ([]byte, error)
}

// NewKeyManager creates a KeyManager reading key files from disk.
func NewKeyManager(logger *slog.Logger) KeyManager {
	return &keyManager{
		logger:   logger,
		readFile: os.ReadFile,
	}
}

// Initialize builds the signing context described by cfg.
func (k *keyManager) Initialize(ctx context.Context, cfg KeyConfig) (*tokenDomain.SigningContext, error) {
	var keeper KMSKeeper
	if cfg.KMSKeyURI != "" {
		var err error
		keeper, err = OpenKMSKeeper(ctx, cfg.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", tokenDomain.ErrConfiguration, err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				k.logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()
	}

	if cfg.UseRSA {
		return k.initializeRSA(ctx, cfg, keeper)
	}
	return k.initializeHMAC(ctx, cfg, keeper)
}

func (k *keyManager) initializeHMAC(
	ctx context.Context,
	cfg KeyConfig,
	keeper KMSKeeper,
) (*tokenDomain.SigningContext, error) {
	if cfg.HMACSecret == "" {
		return nil, fmt.Errorf("%w: HMAC secret is required", tokenDomain.ErrConfiguration)
	}

	secret, err := unwrapMaterial(ctx, keeper, []byte(cfg.HMACSecret))
	if err != nil {
		return nil, err
	}
	if len(secret) < MinHMACSecretLength {
		return nil, fmt.Errorf(
			"%w: HMAC secret must be at least %d bytes",
			tokenDomain.ErrConfiguration,
			MinHMACSecretLength,
		)
	}

	k.logger.Info("token signing initialized", slog.String("mode", string(tokenDomain.ModeHMAC)))
	return tokenDomain.NewHMACSigningContext(secret), nil
}

func (k *keyManager) initializeRSA(
	ctx context.Context,
	cfg KeyConfig,
	keeper KMSKeeper,
) (*tokenDomain.SigningContext, error) {
	if cfg.RSAPublicKeyPath == "" {
		return nil, fmt.Errorf("%w: RSA public key path is required", tokenDomain.ErrConfiguration)
	}

	publicPEMOrXML, err := k.loadMaterial(ctx, keeper, cfg.RSAPublicKeyPath)
	if err != nil {
		return nil, err
	}
	publicKey, err := ParseRSAPublicKey(publicPEMOrXML)
	if err != nil {
		return nil, err
	}
	if bits := publicKey.N.BitLen(); bits < MinRSAKeyBits {
		return nil, fmt.Errorf(
			"%w: RSA key is %d bits, at least %d bits are required",
			tokenDomain.ErrConfiguration,
			bits,
			MinRSAKeyBits,
		)
	}

	if cfg.RSAPrivateKeyPath == "" {
		k.logger.Warn("no RSA private key configured, token issuance is disabled")
		return tokenDomain.NewRSASigningContext(publicKey, nil), nil
	}

	privatePEMOrXML, err := k.loadMaterial(ctx, keeper, cfg.RSAPrivateKeyPath)
	if err != nil {
		return nil, err
	}
	privateKey, err := ParseRSAPrivateKey(privatePEMOrXML)
	if err != nil {
		return nil, err
	}

	if privateKey.N.Cmp(publicKey.N) != 0 || privateKey.E != publicKey.E {
		return nil, fmt.Errorf("%w: RSA private key does not match the public key", tokenDomain.ErrConfiguration)
	}

	k.logger.Info("token signing initialized", slog.String("mode", string(tokenDomain.ModeRSA)))
	return tokenDomain.NewRSASigningContext(publicKey, privateKey), nil
}

func (k *keyManager) loadMaterial(ctx context.Context, keeper KMSKeeper, path string) ([]byte, error) {
	data, err := k.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read key file %q: %v", tokenDomain.ErrConfiguration, path, err)
	}
	return unwrapMaterial(ctx, keeper, data)
}

// unwrapMaterial decrypts base64 ciphertext with keeper, or returns data as is
// when no keeper is configured.
func unwrapMaterial(ctx context.Context, keeper KMSKeeper, data []byte) ([]byte, error) {
	if keeper == nil {
		return data, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: wrapped key material is not valid base64", tokenDomain.ErrConfiguration)
	}
	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unwrap key material: %v", tokenDomain.ErrConfiguration, err)
	}
	return plaintext, nil
}

// WrapMaterial encrypts plaintext with keeper and returns it base64 encoded,
// the form unwrapMaterial reads back.
func WrapMaterial(ctx context.Context, keeper KMSKeeper, plaintext []byte) ([]byte, error) {
	ciphertext, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap key material: %w", err)
	}
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func isPEM(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("-----BEGIN"))
}

// ParseRSAPublicKey parses an XML <RSAKeyValue> document or a PEM public key.
func ParseRSAPublicKey(data []byte) (*rsa.PublicKey, error) {
	if isPEM(data) {
		publicKey, err := jwt.ParseRSAPublicKeyFromPEM(data)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid PEM public key: %v", tokenDomain.ErrKeyFormat, err)
		}
		return publicKey, nil
	}

	doc, err := unmarshalRSAKeyValue(data)
	if err != nil {
		return nil, err
	}
	return doc.publicKey()
}

// ParseRSAPrivateKey parses an XML <RSAKeyValue> document with private
// components or a PEM private key.
func ParseRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	if isPEM(data) {
		privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(data)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid PEM private key: %v", tokenDomain.ErrKeyFormat, err)
		}
		return privateKey, nil
	}

	doc, err := unmarshalRSAKeyValue(data)
	if err != nil {
		return nil, err
	}
	return doc.privateKey()
}
