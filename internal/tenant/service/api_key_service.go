package service

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	apperrors "github.com/allisson/tokenbroker/internal/errors"
)

// apiKeyService implements APIKeyService using random UUIDs and SHA-256.
type apiKeyService struct{}

// GenerateAPIKey creates a random v4 UUID rendered without dashes.
func (a *apiKeyService) GenerateAPIKey() (string, string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate api key")
	}

	plainKey := hex.EncodeToString(id[:])
	return plainKey, a.HashAPIKey(plainKey), nil
}

// HashAPIKey hashes a plain API key using SHA-256.
func (a *apiKeyService) HashAPIKey(plainKey string) string {
	hash := sha256.Sum256([]byte(plainKey))
	return hex.EncodeToString(hash[:])
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService() APIKeyService {
	return &apiKeyService{}
}
