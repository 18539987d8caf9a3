package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// MinutesUntil returns the whole minutes from now until target, floored.
// The second value is false when target is not after now.
func MinutesUntil(now, target time.Time) (int, bool) {
	if target.IsZero() || !target.After(now) {
		return 0, false
	}
	return int(target.Sub(now) / time.Minute), true
}
