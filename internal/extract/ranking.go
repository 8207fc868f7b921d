package extract

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"

	"github.com/pfrederiksen/ffvb-results/internal/document"
	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

// rankPattern takes the leading number of a rank cell ("1", "12.", "<b>3</b>")
var rankPattern = regexp.MustCompile(`^\s*(?:<[^>]*>\s*)*(\d+)`)

// DecodeRanking returns a lazy sequence over the ranking table of layout.
// The first row is the header. Each following row yields the leading
// number of its first cell and the team name of its second cell. The
// sequence stops after the first error it yields.
func DecodeRanking(store *document.Store, layout Layout) iter.Seq2[entity.Rank, error] {
	return func(yield func(entity.Rank, error) bool) {
		rows, err := tableRows(store, layout.RankingTable)
		if err != nil {
			yield(entity.Rank{}, fmt.Errorf("ranking: %w", err))
			return
		}
		if len(rows) == 0 {
			return
		}

		for i, cells := range rows[1:] {
			row := i + 1

			if len(cells) < 2 {
				yield(entity.Rank{}, fmt.Errorf("%w: ranking row %d has %d cells, want at least 2",
					ErrStructuralMismatch, row, len(cells)))
				return
			}

			match := rankPattern.FindStringSubmatch(cells[0])
			if match == nil {
				yield(entity.Rank{}, fmt.Errorf("%w: ranking row %d has no rank in %q",
					ErrStructuralMismatch, row, cells[0]))
				return
			}

			position, err := strconv.Atoi(match[1])
			if err != nil {
				yield(entity.Rank{}, fmt.Errorf("%w: ranking row %d: %v", ErrStructuralMismatch, row, err))
				return
			}

			if !yield(entity.Rank{Position: position, Team: cells[1]}, nil) {
				return
			}
		}
	}
}
