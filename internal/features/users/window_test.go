package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRollWindowKeepsOpenWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Внутри суток окно и счётчик не трогаются
	gotStart, gotCount := RollWindow(start, 3, start.Add(23*time.Hour+59*time.Minute))
	require.Equal(t, start, gotStart)
	require.Equal(t, 3, gotCount)
}

func TestRollWindowResetsAtBoundary(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Ровно через 24 часа окно считается истёкшим
	now := start.Add(Day)
	gotStart, gotCount := RollWindow(start, 5, now)
	require.Equal(t, now, gotStart)
	require.Equal(t, 0, gotCount)
}

func TestRollWindowResetsAfterExpiry(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	now := start.Add(48 * time.Hour)
	gotStart, gotCount := RollWindow(start, 5, now)
	require.Equal(t, now, gotStart)
	require.Equal(t, 0, gotCount)
}

func TestRollWindowZeroStart(t *testing.T) {
	// Нулевое время старта (новый пользователь) — окно сразу истёкшее
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gotStart, gotCount := RollWindow(time.Time{}, 0, now)
	require.Equal(t, now, gotStart)
	require.Equal(t, 0, gotCount)
}
