// Package service provides tenant API key generation and hashing.
package service

// APIKeyService issues tenant API keys and derives their lookup hashes.
type APIKeyService interface {
	// GenerateAPIKey creates a new random API key as 32 lowercase hex characters,
	// the same shape existing subscribers already store.
	// Returns the plain key, shown once to the operator, and its lookup hash.
	GenerateAPIKey() (plainKey string, keyHash string, err error)

	// HashAPIKey returns the hex-encoded SHA-256 of a plain API key. The hash is
	// what repositories index and compare.
	HashAPIKey(plainKey string) string
}
