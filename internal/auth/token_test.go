package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)

	tok, err := tm.Generate("a@b.com")
	require.NoError(t, err)

	claims, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestGenerate_TokensAreUnique(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)

	first, err := tm.Generate("a@b.com")
	require.NoError(t, err)
	second, err := tm.Generate("a@b.com")
	require.NoError(t, err)

	// The jti nonce keeps same-subject same-second tokens distinct.
	assert.NotEqual(t, first, second)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", -1*time.Second)

	tok, err := tm.Generate("a@b.com")
	require.NoError(t, err)

	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right-secret", time.Hour).Generate("a@b.com")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_TamperedSignature(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)

	tok, err := tm.Generate("a@b.com")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	// Flip one character of the signature segment.
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.Parse(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_TamperedClaims(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)

	tok, err := tm.Generate("a@b.com")
	require.NoError(t, err)

	other, err := tm.Generate("evil@b.com")
	require.NoError(t, err)

	// Graft the other token's payload onto the original signature.
	orig := strings.Split(tok, ".")
	spliced := strings.Split(other, ".")
	forged := orig[0] + "." + spliced[1] + "." + orig[2]

	_, err = tm.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_MalformedString(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "not.a.jwt", "a.b"} {
		_, err := tm.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
