package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokenCfg = TokenConfig{Secret: "secret", Issuer: "acadrepo", TTL: 8 * time.Hour}

func TestMintAndParseToken(t *testing.T) {
	now := time.Now()
	token, expires, err := MintToken(testTokenCfg, now, "editor")
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(8*time.Hour), expires, time.Second)

	claims, err := ParseToken(testTokenCfg, token)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Subject)
	assert.Equal(t, "acadrepo", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, _, err := MintToken(testTokenCfg, time.Now(), "editor")
	require.NoError(t, err)

	expired, _, err := MintToken(testTokenCfg, time.Now().Add(-9*time.Hour), "editor")
	require.NoError(t, err)

	otherIssuer, _, err := MintToken(TokenConfig{Secret: "secret", Issuer: "other", TTL: time.Hour}, time.Now(), "editor")
	require.NoError(t, err)

	otherSecret, _, err := MintToken(TokenConfig{Secret: "nope", Issuer: "acadrepo", TTL: time.Hour}, time.Now(), "editor")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"tampered":     valid + "x",
		"expired":      expired,
		"other issuer": otherIssuer,
		"other secret": otherSecret,
		"garbage":      "not.a.token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(testTokenCfg, tok)
			assert.Error(t, err)
		})
	}
}

func TestMintToken_Validation(t *testing.T) {
	_, _, err := MintToken(TokenConfig{Issuer: "x", TTL: time.Hour}, time.Now(), "u")
	assert.Error(t, err)

	_, _, err = MintToken(TokenConfig{Secret: "s", TTL: 0}, time.Now(), "u")
	assert.Error(t, err)

	_, _, err = MintToken(testTokenCfg, time.Now(), "")
	assert.Error(t, err)
}

var fastArgon = ArgonParams{Memory: 1024, Time: 1, Parallelism: 1}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("tda-8maq9", fastArgon)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.NotContains(t, hash, "tda-8maq9")

	ok, err := VerifyPassword("tda-8maq9", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("same", fastArgon)
	require.NoError(t, err)
	b, err := HashPassword("same", fastArgon)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("", fastArgon)
	assert.Error(t, err)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	for _, bad := range []string{
		"",
		"5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$a2V5",
	} {
		_, err := VerifyPassword("pw", bad)
		assert.ErrorIs(t, err, ErrInvalidHash, bad)
	}
}
