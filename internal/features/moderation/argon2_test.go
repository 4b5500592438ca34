package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyRoundtrip(t *testing.T) {
	hash, err := HashArgon2id("секретный пароль")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$")

	require.True(t, VerifyArgon2id("секретный пароль", hash))
	require.False(t, VerifyArgon2id("неправильный", hash))
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	require.False(t, VerifyArgon2id("пароль", ""))
	require.False(t, VerifyArgon2id("пароль", "не хеш вообще"))
	require.False(t, VerifyArgon2id("пароль", "$argon2id$v=19$мусор"))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashArgon2id("пароль")
	require.NoError(t, err)
	h2, err := HashArgon2id("пароль")
	require.NoError(t, err)

	// Одинаковый пароль, разные соли — разные хеши, оба проверяются
	require.NotEqual(t, h1, h2)
	require.True(t, VerifyArgon2id("пароль", h1))
	require.True(t, VerifyArgon2id("пароль", h2))
}

func TestGenerateSecureTokenIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := generateSecureToken()
		require.NotEmpty(t, tok)
		require.False(t, seen[tok])
		seen[tok] = true
	}
}
