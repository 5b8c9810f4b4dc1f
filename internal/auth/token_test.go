package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret")
	id := uuid.New()

	token, err := issuer.Issue(id, "alice")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, "alice", claims.Name)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret")
	token, err := issuer.Issue(uuid.New(), "alice")
	require.NoError(t, err)

	other := NewIssuer("different-secret")
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret")
	_, err := issuer.Verify("not-a-jwt")
	assert.Error(t, err)
}
