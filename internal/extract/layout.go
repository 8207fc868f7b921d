package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

// Selectors of the competition listing pages. The header row holds one cell
// per region; the body row holds, under each header cell, a list of links.
const (
	regionNameSelector = "thead tr td"
	regionPoolSelector = "tbody tr td ul li a"
	regionListSelector = "table tbody tr td ul"
	listLinkSelector   = "li a"
)

// Positions of a pool's results page ("calendrier")
const (
	// Third table: team ranking, one header row then one team per row
	DefaultRankingTable = 2
	// Fourth table: the fixtures, one match per row
	DefaultMatchTable = 3
	// Team name the federation prints for a slot not assigned yet
	DefaultUnassignedTeam = "xxxxx"
)

// MatchColumns gives the cell index of each field in a fixtures row
type MatchColumns struct {
	Date       int
	Hour       int
	FirstTeam  int
	SecondTeam int
	// ScoreLhs holds sets won by the first team once played, and is free text
	// (usually empty) before.
	ScoreLhs int
	ScoreRhs int
	// Place shares its cell with ScoreRhs: the venue until the match is played
	Place int
	// Sets holds the per-set detail ("25:20, 23:25, ..."); negative disables it
	Sets int
}

// DefaultMatchColumns matches the 2022-2025 layout. Cell 0 carries the
// match code and cell 4 is a spacer; neither is decoded.
func DefaultMatchColumns() MatchColumns {
	return MatchColumns{
		Date:       1,
		Hour:       2,
		FirstTeam:  3,
		SecondTeam: 5,
		ScoreLhs:   6,
		ScoreRhs:   7,
		Place:      7,
		Sets:       8,
	}
}

// minCells is the number of cells a fixtures row must have. Sets is
// optional and not counted.
func (c MatchColumns) minCells() int {
	return max(c.Date, c.Hour, c.FirstTeam, c.SecondTeam, c.ScoreLhs, c.ScoreRhs, c.Place) + 1
}

// Layout holds every structural position the decoders depend on
type Layout struct {
	RankingTable   int
	MatchTable     int
	Columns        MatchColumns
	UnassignedTeam string
}

// DefaultLayout returns the layout of the current season's pages
func DefaultLayout() Layout {
	return Layout{
		RankingTable:   DefaultRankingTable,
		MatchTable:     DefaultMatchTable,
		Columns:        DefaultMatchColumns(),
		UnassignedTeam: DefaultUnassignedTeam,
	}
}

// Validate rejects negative table or column positions
func (l Layout) Validate() error {
	var errs []error

	if l.RankingTable < 0 {
		errs = append(errs, fmt.Errorf("ranking table index %d is negative", l.RankingTable))
	}
	if l.MatchTable < 0 {
		errs = append(errs, fmt.Errorf("match table index %d is negative", l.MatchTable))
	}

	c := l.Columns
	for name, idx := range map[string]int{
		"date":        c.Date,
		"hour":        c.Hour,
		"first team":  c.FirstTeam,
		"second team": c.SecondTeam,
		"score lhs":   c.ScoreLhs,
		"score rhs":   c.ScoreRhs,
		"place":       c.Place,
	} {
		if idx < 0 {
			errs = append(errs, fmt.Errorf("%s column %d is negative", name, idx))
		}
	}

	if strings.TrimSpace(l.UnassignedTeam) == "" {
		errs = append(errs, errors.New("unassigned team placeholder is empty"))
	}

	return errors.Join(errs...)
}

// slot maps a team cell to a TeamSlot, recognising the placeholder
func (l Layout) slot(cell string) entity.TeamSlot {
	if strings.TrimSpace(cell) == l.UnassignedTeam {
		return entity.Unassigned()
	}
	return entity.Assigned(cell)
}
