package entity

import (
	"sort"
	"time"
)

// Change types reported by Diff
const (
	ChangeNew    = "new"
	ChangeResult = "result"
	ChangeDate   = "date"
	ChangePlace  = "place"
)

// MatchKey identifies a fixture across page versions. A pool plays each
// ordered pairing once, so the key survives a rescheduled date.
func MatchKey(m Match) string {
	return m.FirstTeam.String() + " vs " + m.SecondTeam.String()
}

// Snapshot is a team's fixtures as seen at a point in time
type Snapshot struct {
	Matches   map[string]Match `json:"matches"`    // keyed by MatchKey
	UpdatedAt string           `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Matches: make(map[string]Match),
	}
}

// CreateSnapshot creates a snapshot from a list of matches
func CreateSnapshot(matches []Match, updatedAt time.Time) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	for _, m := range matches {
		snap.Matches[MatchKey(m)] = m
	}
	return snap
}

// MatchChange is one difference between two versions of a fixture
type MatchChange struct {
	Key        string `json:"key"`
	ChangeType string `json:"change_type"`
	OldValue   string `json:"old_value"`
	NewValue   string `json:"new_value"`
	Match      Match  `json:"match"`
}

// Diff compares current matches against a previous snapshot. A nil
// snapshot reports every match as new. Changes are ordered by key, then
// by change type.
func Diff(previous *Snapshot, current []Match) []MatchChange {
	if previous == nil {
		previous = NewSnapshot()
	}

	changes := make([]MatchChange, 0)
	for _, m := range current {
		key := MatchKey(m)
		old, exists := previous.Matches[key]
		if !exists {
			changes = append(changes, MatchChange{Key: key, ChangeType: ChangeNew, NewValue: describe(m), Match: m})
			continue
		}
		changes = append(changes, DetectChanges(old, m)...)
	}

	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Key != changes[j].Key {
			return changes[i].Key < changes[j].Key
		}
		return changes[i].ChangeType < changes[j].ChangeType
	})
	return changes
}

// DetectChanges compares two versions of the same fixture
func DetectChanges(previous, current Match) []MatchChange {
	var changes []MatchChange
	key := MatchKey(current)

	add := func(changeType, oldValue, newValue string) {
		changes = append(changes, MatchChange{
			Key:        key,
			ChangeType: changeType,
			OldValue:   oldValue,
			NewValue:   newValue,
			Match:      current,
		})
	}

	if current.Played() && (!previous.Played() || previous.MatchScore != current.MatchScore) {
		old := ""
		if previous.Played() {
			old = previous.MatchScore.String()
		}
		add(ChangeResult, old, current.MatchScore.String())
	}

	if previous.Date != current.Date || previous.Hour != current.Hour {
		add(ChangeDate, previous.Date+" "+previous.Hour, current.Date+" "+current.Hour)
	}

	if !current.Played() && previous.Place != current.Place {
		add(ChangePlace, previous.Place, current.Place)
	}

	return changes
}

func describe(m Match) string {
	if m.Played() {
		return m.MatchScore.String()
	}
	return m.Date + " " + m.Hour
}
