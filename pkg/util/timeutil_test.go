package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMinutesUntil(t *testing.T) {
	now := time.Date(2024, 6, 1, 18, 0, 30, 0, time.UTC)

	minutes, ok := MinutesUntil(now, now.Add(90*time.Minute+59*time.Second))
	require.True(t, ok)
	require.Equal(t, 90, minutes)

	_, ok = MinutesUntil(now, now.Add(-time.Minute))
	require.False(t, ok)

	_, ok = MinutesUntil(now, now)
	require.False(t, ok)

	_, ok = MinutesUntil(now, time.Time{})
	require.False(t, ok)
}

func TestNowUTC(t *testing.T) {
	require.Equal(t, time.UTC, NowUTC().Location())
}
