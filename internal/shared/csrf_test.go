package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(id string) *Session {
	return &Session{ID: id, values: map[string]string{}}
}

func TestEnsureTokenIsStableForSession(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := testSession("sess-1")

	token, err := m.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, err := m.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := testSession("sess-1")

	token, err := m.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	assert.NoError(t, m.VerifyToken(context.Background(), sess, token))
}

func TestVerifyTokenRejectsMissing(t *testing.T) {
	m := NewCSRFManager("secret")

	// No token issued for the session yet.
	sess := testSession("sess-1")
	assert.ErrorIs(t, m.VerifyToken(context.Background(), sess, "anything"), ErrCSRFTokenMissing)
	assert.ErrorIs(t, m.VerifyToken(context.Background(), nil, "anything"), ErrCSRFTokenMissing)

	// Token issued but absent from the request.
	token, err := m.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.ErrorIs(t, m.VerifyToken(context.Background(), sess, ""), ErrCSRFTokenMismatch)
}

func TestVerifyTokenRejectsOtherSession(t *testing.T) {
	m := NewCSRFManager("secret")
	sessA := testSession("sess-a")
	sessB := testSession("sess-b")

	tokenA, err := m.EnsureToken(context.Background(), sessA)
	require.NoError(t, err)
	_, err = m.EnsureToken(context.Background(), sessB)
	require.NoError(t, err)

	assert.ErrorIs(t, m.VerifyToken(context.Background(), sessB, tokenA), ErrCSRFTokenMismatch)
}
