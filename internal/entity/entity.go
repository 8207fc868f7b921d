package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Competition is a tier of play with its own listing page
type Competition struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Region is a geographic subdivision listed on a competition page
type Region struct {
	Name string `json:"name"`
	URL  string `json:"url"` // Results page of the region's pools
}

// Department is a subdivision of a region. A region without sub-departments
// is represented by a single Department carrying the region's own name.
type Department struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Score holds the sets won by each side. The zero value means "not computed".
type Score struct {
	Lhs uint8 `json:"lhs"`
	Rhs uint8 `json:"rhs"`
}

// IsZero reports whether the score is 0/0
func (s Score) IsZero() bool {
	return s.Lhs == 0 && s.Rhs == 0
}

func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.Lhs, s.Rhs)
}

// TeamSlot is one side of a fixture: either an assigned team or a slot
// the federation has not filled yet.
type TeamSlot struct {
	name     string
	assigned bool
}

// Assigned returns a slot held by the named team
func Assigned(name string) TeamSlot {
	return TeamSlot{name: name, assigned: true}
}

// Unassigned returns a slot with no team yet
func Unassigned() TeamSlot {
	return TeamSlot{}
}

// Name returns the team name and whether the slot is assigned
func (t TeamSlot) Name() (string, bool) {
	return t.name, t.assigned
}

// IsAssigned reports whether a team holds the slot
func (t TeamSlot) IsAssigned() bool {
	return t.assigned
}

// Is reports whether the slot is assigned to exactly the given team name
func (t TeamSlot) Is(team string) bool {
	return t.assigned && t.name == team
}

func (t TeamSlot) String() string {
	if !t.assigned {
		return "(unassigned)"
	}
	return t.name
}

// MarshalJSON encodes an assigned slot as its name and an unassigned one as null
func (t TeamSlot) MarshalJSON() ([]byte, error) {
	if !t.assigned {
		return []byte("null"), nil
	}
	return json.Marshal(t.name)
}

// UnmarshalJSON is the inverse of MarshalJSON
func (t *TeamSlot) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Unassigned()
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decoding team slot: %w", err)
	}
	*t = Assigned(name)
	return nil
}

// Match is one fixture of a pool. A played match carries MatchScore and an
// empty Place; a fixture still to be played carries Place and a zero score.
type Match struct {
	FirstTeam  TeamSlot `json:"first_team"`
	SecondTeam TeamSlot `json:"second_team"`
	Date       string   `json:"date"`
	Hour       string   `json:"hour"`
	Place      string   `json:"place"`
	MatchScore Score    `json:"match_score"`
	SetsScore  []Score  `json:"sets_score"`
}

// Played reports whether the match was decoded as already played
func (m Match) Played() bool {
	return m.Place == ""
}

// Involves reports whether the named team plays in the match
func (m Match) Involves(team string) bool {
	return m.FirstTeam.Is(team) || m.SecondTeam.Is(team)
}

// MarshalJSON keeps sets_score an array even when no set detail is known
func (m Match) MarshalJSON() ([]byte, error) {
	type plain Match
	if m.SetsScore == nil {
		m.SetsScore = []Score{}
	}
	return json.Marshal(plain(m))
}

// Rank is one line of a pool's ranking table
type Rank struct {
	Position int    `json:"rank"`
	Team     string `json:"team"`
}
