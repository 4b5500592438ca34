package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPluralizeTokens(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{1, "токен"},
		{2, "токена"},
		{4, "токена"},
		{5, "токенов"},
		{11, "токенов"},
		{12, "токенов"},
		{14, "токенов"},
		{21, "токен"},
		{22, "токена"},
		{100, "токенов"},
		{111, "токенов"},
		{-3, "токена"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, PluralizeTokens(tc.n), "n=%d", tc.n)
	}
}

func TestFormatTokens(t *testing.T) {
	require.Equal(t, "150 токенов", FormatTokens(150))
	require.Equal(t, "1 токен", FormatTokens(1))
	require.Equal(t, "0 токенов", FormatTokens(0))
}

func TestPluralizeCompliments(t *testing.T) {
	require.Equal(t, "комплимент", PluralizeCompliments(1))
	require.Equal(t, "комплимента", PluralizeCompliments(3))
	require.Equal(t, "комплиментов", PluralizeCompliments(11))
	require.Equal(t, "комплимент", PluralizeCompliments(21))
}

func TestPluralizeLikes(t *testing.T) {
	require.Equal(t, "лайк", PluralizeLikes(1))
	require.Equal(t, "лайка", PluralizeLikes(2))
	require.Equal(t, "лайков", PluralizeLikes(5))
	require.Equal(t, "лайков", PluralizeLikes(12))
}

func TestFormatNumber(t *testing.T) {
	require.Equal(t, "150", FormatNumber(150))
	require.Equal(t, "2 350", FormatNumber(2350))
	require.Equal(t, "1 000 000", FormatNumber(1000000))
	require.Equal(t, "-2 350", FormatNumber(-2350))
}

func TestFormatDateTime(t *testing.T) {
	// 12:00 UTC = 15:00 по Москве
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "01.06.2025 15:00", FormatDateTime(ts))
}
