package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ffvb-results/internal/document"
	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

// setPattern matches one set of the detail cell, e.g. "25:20" or "15-13"
var setPattern = regexp.MustCompile(`(\d{1,3})\s*[:\-/]\s*(\d{1,3})`)

// tableRows returns the cell contents of every row of the index-th table
func tableRows(store *document.Store, index int) ([][]string, error) {
	tables, err := store.Find("table")
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= tables.Length() {
		return nil, fmt.Errorf("%w: expected table %d but the page has %d tables",
			ErrStructuralMismatch, index, tables.Length())
	}

	var (
		rows    [][]string
		cellErr error
	)

	tables.Eq(index).Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := make([]string, 0, 10)
		row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			var content string
			content, cellErr = document.Content(cell)
			cells = append(cells, content)
			return cellErr == nil
		})
		rows = append(rows, cells)
		return cellErr == nil
	})
	if cellErr != nil {
		return nil, cellErr
	}

	return rows, nil
}

// DecodeMatches walks the fixtures table of layout and returns the matches
// in which team plays. Rows with at most one cell are headers or spacers
// and are skipped. Fixtures with an unassigned side are never returned.
func DecodeMatches(store *document.Store, layout Layout, team string) ([]entity.Match, error) {
	rows, err := tableRows(store, layout.MatchTable)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}

	matches := make([]entity.Match, 0)
	for i, cells := range rows {
		if len(cells) <= 1 {
			continue
		}

		m, err := layout.decodeMatch(cells)
		if err != nil {
			return nil, fmt.Errorf("fixtures row %d: %w", i, err)
		}

		if !m.Involves(team) {
			continue
		}
		if !m.FirstTeam.IsAssigned() || !m.SecondTeam.IsAssigned() {
			continue
		}

		matches = append(matches, m)
	}

	return matches, nil
}

// decodeMatch decodes one fixtures row.
//
// Whether the match was played is decided by the lhs score cell alone: if
// it holds a number the match is played and the rhs cell must hold one too;
// otherwise the rhs cell is the venue. A venue whose name is purely numeric
// is therefore read as a score.
func (l Layout) decodeMatch(cells []string) (entity.Match, error) {
	c := l.Columns
	if len(cells) < c.minCells() {
		return entity.Match{}, fmt.Errorf("%w: row has %d cells, want at least %d",
			ErrStructuralMismatch, len(cells), c.minCells())
	}

	m := entity.Match{
		Date:       cells[c.Date],
		Hour:       cells[c.Hour],
		FirstTeam:  l.slot(cells[c.FirstTeam]),
		SecondTeam: l.slot(cells[c.SecondTeam]),
		SetsScore:  []entity.Score{},
	}

	lhs, err := parseSetCount(cells[c.ScoreLhs])
	if err != nil {
		m.Place = cells[c.Place]
		return m, nil
	}

	rhs, err := parseSetCount(cells[c.ScoreRhs])
	if err != nil {
		return entity.Match{}, fmt.Errorf("%w: score %q is numeric but %q is not",
			ErrStructuralMismatch, cells[c.ScoreLhs], cells[c.ScoreRhs])
	}

	m.MatchScore = entity.Score{Lhs: lhs, Rhs: rhs}
	if c.Sets >= 0 && c.Sets < len(cells) {
		m.SetsScore = parseSetDetail(cells[c.Sets])
	}

	return m, nil
}

func parseSetCount(cell string) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(cell), 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(n), nil
}

// parseSetDetail reads every "points:points" pair of the detail cell, in
// order. Pairs that do not fit a Score are skipped.
func parseSetDetail(cell string) []entity.Score {
	sets := make([]entity.Score, 0, 5)
	for _, pair := range setPattern.FindAllStringSubmatch(cell, -1) {
		lhs, errL := parseSetCount(pair[1])
		rhs, errR := parseSetCount(pair[2])
		if errL != nil || errR != nil {
			continue
		}
		sets = append(sets, entity.Score{Lhs: lhs, Rhs: rhs})
	}
	return sets
}
