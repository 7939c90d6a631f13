// Package domain defines the token engine model: the signing context, the claim
// set carried by issued tokens and the decoded view returned by introspection.
package domain

import (
	"crypto/rsa"
)

// Mode is the signing algorithm family of a SigningContext.
type Mode string

// Signing modes.
const (
	ModeHMAC Mode = "HMAC"
	ModeRSA  Mode = "RSA"
)

// Algorithm names used in the JWS header.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmRS256 = "RS256"
)

// SigningContext holds the key material used to sign and verify tokens.
// It is built once at startup and never mutated.
//
// In HMAC mode the shared secret is both keys. In RSA mode the signing key is
// present only when a private key was configured.
type SigningContext struct {
	mode            Mode
	verificationKey any
	signingKey      any
}

// NewHMACSigningContext creates an HMAC context. The secret is copied.
func NewHMACSigningContext(secret []byte) *SigningContext {
	key := append([]byte(nil), secret...)
	return &SigningContext{
		mode:            ModeHMAC,
		verificationKey: key,
		signingKey:      key,
	}
}

// NewRSASigningContext creates an RSA context. privateKey may be nil for a
// verify-only process.
func NewRSASigningContext(publicKey *rsa.PublicKey, privateKey *rsa.PrivateKey) *SigningContext {
	sc := &SigningContext{
		mode:            ModeRSA,
		verificationKey: publicKey,
	}
	if privateKey != nil {
		sc.signingKey = privateKey
	}
	return sc
}

// Mode returns the signing mode.
func (s *SigningContext) Mode() Mode {
	return s.mode
}

// Algorithm returns the JWS algorithm matching the mode.
func (s *SigningContext) Algorithm() string {
	if s.mode == ModeRSA {
		return AlgorithmRS256
	}
	return AlgorithmHS256
}

// VerificationKey returns []byte for HMAC or *rsa.PublicKey for RSA.
func (s *SigningContext) VerificationKey() any {
	return s.verificationKey
}

// SigningKey returns []byte for HMAC, *rsa.PrivateKey for RSA, or nil when
// issuance is disabled.
func (s *SigningContext) SigningKey() any {
	return s.signingKey
}

// CanIssue reports whether the context holds a signing key.
func (s *SigningContext) CanIssue() bool {
	return s.signingKey != nil
}
