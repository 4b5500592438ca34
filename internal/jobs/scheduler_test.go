package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDigestPeriodCoversYesterday(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, msk)

	since, until := digestPeriod(today)

	require.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, msk), since)
	require.Equal(t, today, until)
	require.Equal(t, 24*time.Hour, until.Sub(since))
}

func TestDigestPeriodAcrossMonthBoundary(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	firstOfMarch := time.Date(2026, 3, 1, 0, 0, 0, 0, msk)

	since, until := digestPeriod(firstOfMarch)

	require.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, msk), since)
	require.Equal(t, firstOfMarch, until)
}
