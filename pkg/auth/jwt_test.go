package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/savannah/config"
)

func testVerifier() *Verifier {
	return NewVerifier(config.OIDCConfig{ClientSecret: "test-secret", Realm: "savannah"})
}

func TestIssueAndVerify(t *testing.T) {
	v := testVerifier()

	raw, err := v.Issue("user-1", "alice", []string{"admin", "customer"}, time.Hour)
	require.NoError(t, err)

	id, err := v.Verify(raw)
	require.NoError(t, err)

	assert.Equal(t, "user-1", id.Subject)
	assert.Equal(t, "alice", id.Username)
	assert.True(t, id.HasRole("admin"))
	assert.True(t, id.HasRole("customer"))
	assert.False(t, id.HasRole("operator"))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := testVerifier()

	raw, err := v.Issue("user-1", "alice", nil, -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	other := NewVerifier(config.OIDCConfig{ClientSecret: "other-secret", Realm: "savannah"})
	raw, err := other.Issue("user-1", "alice", nil, time.Hour)
	require.NoError(t, err)

	_, err = testVerifier().Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := testVerifier().Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
