package bot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommandPrefixes(t *testing.T) {
	p := NewCommandParser()

	for _, text := range []string{"!баланс", ".баланс", "/баланс"} {
		cmd, args, ok := p.ParseCommand(text)
		require.True(t, ok, "text=%q", text)
		require.Equal(t, "баланс", cmd)
		require.Empty(t, args)
	}
}

func TestParseCommandWithArgs(t *testing.T) {
	p := NewCommandParser()

	cmd, args, ok := p.ParseCommand("!комплимент @vasya ты отлично держишься")
	require.True(t, ok)
	require.Equal(t, "комплимент", cmd)
	require.Equal(t, []string{"@vasya", "ты", "отлично", "держишься"}, args)
}

func TestParseCommandLowercasesCommand(t *testing.T) {
	p := NewCommandParser()

	cmd, _, ok := p.ParseCommand("!ЛАЙК 15")
	require.True(t, ok)
	require.Equal(t, "лайк", cmd)
}

func TestParseCommandIgnoresPlainText(t *testing.T) {
	p := NewCommandParser()

	_, _, ok := p.ParseCommand("просто сообщение в чате")
	require.False(t, ok)
}

func TestParseCommandIgnoresBarePrefix(t *testing.T) {
	p := NewCommandParser()

	_, _, ok := p.ParseCommand("!")
	require.False(t, ok)

	_, _, ok = p.ParseCommand("!   ")
	require.False(t, ok)
}

func TestParseCommandTrimsWhitespace(t *testing.T) {
	p := NewCommandParser()

	cmd, args, ok := p.ParseCommand("   !лайк   15  ")
	require.True(t, ok)
	require.Equal(t, "лайк", cmd)
	require.Equal(t, []string{"15"}, args)
}
