package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	p := Principal{
		ID:          "6f1e9b9a-6a67-4a3a-9c2e-2b8e1f6b1a11",
		Email:       "jordan@acme.test",
		Name:        "Jordan",
		Type:        TypeUser,
		Role:        "Editor",
		WorkspaceID: "e3b6d5a0-9c1f-4f5e-8d7a-1234567890ab",
	}

	token, expiresAt, err := issuer.Issue(p)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, p, claims.Principal)
}

func TestIssuerExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now

	issuer := NewIssuer("test-secret", time.Hour).WithClock(func() time.Time { return *clock })

	token, _, err := issuer.Issue(Principal{ID: "u1", Type: TypeUser})
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.NoError(t, err)

	later := now.Add(time.Hour + time.Second)
	clock = &later

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuerTempTokenTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now

	// Session TTL is long; the temp token must still die after 5 minutes
	issuer := NewIssuer("test-secret", 24*time.Hour).WithClock(func() time.Time { return *clock })

	token, expiresAt, err := issuer.IssueTemp(Principal{ID: "u1", Type: TypeTemp})
	require.NoError(t, err)
	assert.Equal(t, now.Add(TempTokenTTL), expiresAt)

	justBefore := now.Add(TempTokenTTL - time.Second)
	clock = &justBefore
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	justAfter := now.Add(TempTokenTTL + time.Second)
	clock = &justAfter
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuerRejectsWrongSecret(t *testing.T) {
	token, _, err := NewIssuer("secret-a", time.Hour).Issue(Principal{ID: "u1", Type: TypeUser})
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuerRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.Verify("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
