package activity

import "strings"

// TimeUnit is the unit the user picked for the available time.
type TimeUnit string

const (
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
)

// ParseTimeUnit normalises a unit string; unknown values fall back to minutes.
func ParseTimeUnit(raw string) (TimeUnit, bool) {
	switch TimeUnit(strings.ToLower(strings.TrimSpace(raw))) {
	case UnitHours:
		return UnitHours, true
	case UnitMinutes, "":
		return UnitMinutes, true
	default:
		return UnitMinutes, false
	}
}

// ToMinutes converts a time budget to minutes.
func ToMinutes(value int, unit TimeUnit) int {
	if unit == UnitHours {
		return value * 60
	}
	return value
}

// Fits is the visibility predicate shared by filtering, selection checks and
// the custom-activity merge.
func Fits(a Activity, availableMinutes int, daylightNeeded bool) bool {
	return a.DurationMinutes <= availableMinutes && (!daylightNeeded || a.DaylightNeeded)
}

// FilterFitting returns the activities satisfying Fits, preserving order.
func FilterFitting(items []Activity, availableMinutes int, daylightNeeded bool) []Activity {
	out := make([]Activity, 0, len(items))
	for _, item := range items {
		if Fits(item, availableMinutes, daylightNeeded) {
			out = append(out, item)
		}
	}
	return out
}

// SameName is the case-insensitive dedup key for merged lists.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
