package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate SortOrder = "date"
	// SortByTeam orders by opponent name
	SortByTeam SortOrder = "team"
)

// sortMatches sorts matches based on the specified sort order. An empty
// order keeps page order.
func sortMatches(matches []entity.Match, sortOrder SortOrder, team string) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(matches, func(i, j int) bool {
			return compareByDate(matches[i], matches[j])
		})
	case SortByTeam:
		sort.SliceStable(matches, func(i, j int) bool {
			oi := strings.ToLower(opponent(matches[i], team))
			oj := strings.ToLower(opponent(matches[j], team))
			if oi != oj {
				return oi < oj
			}
			// If opponents are equal, sort by date
			return compareByDate(matches[i], matches[j])
		})
	}
}

// opponent returns the name of the side team is not on
func opponent(m entity.Match, team string) string {
	if m.FirstTeam.Is(team) {
		return m.SecondTeam.String()
	}
	return m.FirstTeam.String()
}

// compareByDate compares two matches by their date and hour
// Returns true if match i should come before match j
func compareByDate(i, j entity.Match) bool {
	dateI := i.When()
	dateJ := j.When()

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	return false
}
