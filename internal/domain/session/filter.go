package session

import "github.com/yanqian/pocket-activities/internal/domain/activity"

// AvailableMinutes is the time budget converted to minutes.
func (s *State) AvailableMinutes() int {
	return activity.ToMinutes(s.Preferences.Time, s.Preferences.Unit)
}

// VisibleSuggestions filters the suggestion list by the current preferences.
func (s *State) VisibleSuggestions() []activity.Activity {
	return activity.FilterFitting(s.Suggestions, s.AvailableMinutes(), s.Preferences.DaylightNeeded)
}

// VisibleCustomActivities filters the owner's custom activities by the
// current preferences.
func (s *State) VisibleCustomActivities(customs []activity.Activity) []activity.Activity {
	return activity.FilterFitting(customs, s.AvailableMinutes(), s.Preferences.DaylightNeeded)
}

// SelectSuggestion selects a suggestion by id and clears any custom selection.
func (s *State) SelectSuggestion(id string) bool {
	for _, item := range s.Suggestions {
		if item.ID == id {
			selected := item
			s.SelectedSuggestion = &selected
			s.SelectedCustomID = ""
			return true
		}
	}
	return false
}

// SelectCustom selects a custom activity by id and clears any suggestion selection.
func (s *State) SelectCustom(id string, customs []activity.Activity) bool {
	for _, item := range customs {
		if item.ID == id {
			s.SelectedSuggestion = nil
			s.SelectedCustomID = id
			return true
		}
	}
	return false
}

// Selected resolves the current selection. A custom selection whose activity
// no longer exists resolves to nothing.
func (s *State) Selected(customs []activity.Activity) (activity.Activity, bool) {
	if s.SelectedSuggestion != nil {
		return *s.SelectedSuggestion, true
	}
	if s.SelectedCustomID == "" {
		return activity.Activity{}, false
	}
	for _, item := range customs {
		if item.ID == s.SelectedCustomID {
			return item, true
		}
	}
	return activity.Activity{}, false
}

// FitsCriteria re-checks a selection against the current preferences.
func (s *State) FitsCriteria(selected activity.Activity) bool {
	return activity.Fits(selected, s.AvailableMinutes(), s.Preferences.DaylightNeeded)
}

// ClearCustom drops the selection if it points at the given custom activity.
func (s *State) ClearCustom(id string) bool {
	if s.SelectedCustomID != "" && s.SelectedCustomID == id {
		s.SelectedCustomID = ""
		return true
	}
	return false
}

// Reset clears suggestions, selection and the searched flag together.
func (s *State) Reset() {
	s.Suggestions = nil
	s.SelectedSuggestion = nil
	s.SelectedCustomID = ""
	s.HasSearched = false
	s.Searching = false
}

// BeginSearch moves the state into searching with an empty list.
func (s *State) BeginSearch() {
	s.Reset()
	s.HasSearched = true
	s.Searching = true
}

// FinishSearch commits a generation result.
func (s *State) FinishSearch(items []activity.Activity) {
	s.Suggestions = items
	s.Searching = false
}
