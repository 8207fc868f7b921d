package entity

import (
	"testing"
	"time"
)

func fixture(first, second, date, place string, score Score) Match {
	return Match{
		FirstTeam:  Assigned(first),
		SecondTeam: Assigned(second),
		Date:       date,
		Hour:       "20:00",
		Place:      place,
		MatchScore: score,
		SetsScore:  []Score{},
	}
}

func TestMatchKey(t *testing.T) {
	home := fixture("AS ORSAY", "VC MONTREUIL", "01/10/22", "Gymnase Blondin", Score{})
	away := fixture("VC MONTREUIL", "AS ORSAY", "01/03/23", "Salle Omnisport", Score{})
	moved := fixture("AS ORSAY", "VC MONTREUIL", "08/10/22", "Gymnase Blondin", Score{})

	if MatchKey(home) == MatchKey(away) {
		t.Error("Home and away fixtures should have different keys")
	}
	if MatchKey(home) != MatchKey(moved) {
		t.Error("Rescheduling should keep the key")
	}
}

func TestDiff(t *testing.T) {
	upcoming := fixture("AS ORSAY", "VC MONTREUIL", "01/10/22", "Gymnase Blondin", Score{})
	other := fixture("ASNIERES VB", "AS ORSAY", "15/10/22", "Salle Omnisport", Score{})

	previous := CreateSnapshot([]Match{upcoming, other}, time.Date(2022, 9, 30, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		previous  *Snapshot
		current   []Match
		wantTypes []string
	}{
		{
			name:      "No previous snapshot",
			previous:  nil,
			current:   []Match{upcoming, other},
			wantTypes: []string{ChangeNew, ChangeNew},
		},
		{
			name:      "Nothing changed",
			previous:  previous,
			current:   []Match{upcoming, other},
			wantTypes: []string{},
		},
		{
			name:     "Result published",
			previous: previous,
			current: []Match{
				fixture("AS ORSAY", "VC MONTREUIL", "01/10/22", "", Score{Lhs: 3, Rhs: 1}),
				other,
			},
			wantTypes: []string{ChangeResult},
		},
		{
			name:     "Rescheduled to another venue",
			previous: previous,
			current: []Match{
				upcoming,
				fixture("ASNIERES VB", "AS ORSAY", "22/10/22", "Gymnase Jean Moulin", Score{}),
			},
			wantTypes: []string{ChangeDate, ChangePlace},
		},
		{
			name:     "New fixture",
			previous: previous,
			current: []Match{
				upcoming,
				other,
				fixture("VC MONTREUIL", "AS ORSAY", "01/03/23", "Salle Omnisport", Score{}),
			},
			wantTypes: []string{ChangeNew},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := Diff(tt.previous, tt.current)

			if len(changes) != len(tt.wantTypes) {
				t.Fatalf("Diff() returned %d changes, want %d: %+v", len(changes), len(tt.wantTypes), changes)
			}
			for i, want := range tt.wantTypes {
				if changes[i].ChangeType != want {
					t.Errorf("changes[%d].ChangeType = %q, want %q", i, changes[i].ChangeType, want)
				}
			}
		})
	}
}

func TestDetectChanges_ScoreCorrected(t *testing.T) {
	before := fixture("AS ORSAY", "VC MONTREUIL", "01/10/22", "", Score{Lhs: 3, Rhs: 1})
	after := fixture("AS ORSAY", "VC MONTREUIL", "01/10/22", "", Score{Lhs: 3, Rhs: 2})

	changes := DetectChanges(before, after)
	if len(changes) != 1 {
		t.Fatalf("DetectChanges() returned %d changes, want 1", len(changes))
	}
	if changes[0].OldValue != "3-1" || changes[0].NewValue != "3-2" {
		t.Errorf("change = %s -> %s, want 3-1 -> 3-2", changes[0].OldValue, changes[0].NewValue)
	}
}

func TestCreateSnapshot(t *testing.T) {
	m := fixture("AS ORSAY", "VC MONTREUIL", "01/10/22", "Gymnase Blondin", Score{})
	snap := CreateSnapshot([]Match{m}, time.Date(2022, 9, 30, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600)))

	if snap.UpdatedAt != "2022-09-30T12:00:00Z" {
		t.Errorf("UpdatedAt = %q, want 2022-09-30T12:00:00Z", snap.UpdatedAt)
	}
	if _, ok := snap.Matches[MatchKey(m)]; !ok {
		t.Error("Snapshot should hold the match under its key")
	}
}
