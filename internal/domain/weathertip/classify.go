package weathertip

import (
	"strings"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

// outdoorKeywords approximates "needs daylight" for generated suggestions,
// which carry no structured flag. Matching is by plain substring: "gardening"
// matches "garden" but "hiking" does not match "hike", and "brunch" matches "run".
var outdoorKeywords = []string{"hike", "walk", "garden", "sketch", "outside", "park", "run"}

// ClassifyDaylight guesses whether a generated suggestion needs daylight.
func ClassifyDaylight(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range outdoorKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsOutdoor reports whether weather tips may attach to the activity. Custom
// activities are classified by their explicit flag only.
func IsOutdoor(item activity.Activity) bool {
	if item.DaylightNeeded {
		return true
	}
	if item.IsCustom {
		return false
	}
	return ClassifyDaylight(item.Name)
}
