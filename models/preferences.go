package models

import (
	"gorm.io/datatypes"
)

type Preference string

const (
	// PreferenceSeamlessEdit lets members edit documents without entering an edit mode.
	PreferenceSeamlessEdit   Preference = "seamlessEdit"
	PreferencePublicBranding Preference = "publicBranding"
	PreferenceCommenting     Preference = "commenting"
)

var knownPreferences = map[Preference]bool{
	PreferenceSeamlessEdit:   true,
	PreferencePublicBranding: true,
	PreferenceCommenting:     true,
}

func (p Preference) Valid() bool {
	return knownPreferences[p]
}

// SetPreference stores value under p and returns the resulting preferences.
// The map is always replaced by a fresh copy, never mutated in place, so a
// pending write carries the new value even when the previous map is shared.
func (t *Team) SetPreference(p Preference, value bool) datatypes.JSONMap {
	prefs := make(datatypes.JSONMap, len(t.Preferences)+1)
	for k, v := range t.Preferences {
		prefs[k] = v
	}
	prefs[string(p)] = value
	t.Preferences = prefs
	return prefs
}

// GetPreference returns the stored value for p. ok is false when p was never
// set, which is distinct from an explicit false.
func (t *Team) GetPreference(p Preference) (value bool, ok bool) {
	if t.Preferences == nil {
		return false, false
	}
	v, ok := t.Preferences[string(p)].(bool)
	return v, ok
}

func validatePreferences(prefs datatypes.JSONMap) error {
	for k, v := range prefs {
		if !Preference(k).Valid() {
			return invalid("preferences", "unknown preference %q", k)
		}
		if _, ok := v.(bool); !ok {
			return invalid("preferences", "preference %q must be a boolean", k)
		}
	}
	return nil
}
