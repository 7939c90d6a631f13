package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimSet_Map(t *testing.T) {
	base := ClaimSet{
		Subject:   "CORP\\alice",
		Issuer:    "https://sso.example.com",
		Audience:  "https://payroll.example.com",
		IssuedAt:  1700000000,
		NotBefore: 1700000000,
		ExpiresAt: 1700086400,
		TokenID:   "0123456789abcdef0123456789abcdef",
	}

	t.Run("Success_RequiredClaims", func(t *testing.T) {
		claims := base.Map()
		assert.Equal(t, "CORP\\alice", claims[ClaimSubject])
		assert.Equal(t, "CORP\\alice", claims[ClaimUniqueName])
		assert.Equal(t, int64(1700086400), claims[ClaimExpiresAt])
		assert.NotContains(t, claims, ClaimSID)
		assert.NotContains(t, claims, ClaimRole)
		assert.NotContains(t, claims, ClaimGroupSID)
	})

	t.Run("Success_SingleValuedAsString", func(t *testing.T) {
		cs := base
		cs.SecurityID = "S-1-5-21-1"
		cs.Roles = []string{"Finance-RW"}
		cs.GroupIDs = []string{"S-1-5-21-500"}

		claims := cs.Map()
		assert.Equal(t, "S-1-5-21-1", claims[ClaimSID])
		assert.Equal(t, "Finance-RW", claims[ClaimRole])
		assert.Equal(t, "S-1-5-21-500", claims[ClaimGroupSID])
	})

	t.Run("Success_MultiValuedAsArray", func(t *testing.T) {
		cs := base
		cs.Roles = []string{"Finance-RW", "Finance-RO"}

		claims := cs.Map()
		assert.Equal(t, []string{"Finance-RW", "Finance-RO"}, claims[ClaimRole])
	})
}
