package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	// FormatICS is only produced by the matches command
	FormatICS OutputFormat = "ics"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatText, FormatJSON, FormatICS:
		return format, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", s)
	}
}

// link is the shape shared by competitions, regions and departments
type link struct {
	Name string
	URL  string
}

func toLinks[T entity.Competition | entity.Region | entity.Department](items []T) []link {
	links := make([]link, 0, len(items))
	for _, item := range items {
		links = append(links, link(item))
	}
	return links
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// writeLinks outputs a named list. JSON encodes v as is; text prints each
// name with its URL underneath.
func writeLinks(w io.Writer, format OutputFormat, label string, v any, links []link) error {
	if format == FormatJSON {
		return writeJSON(w, v)
	}

	if len(links) == 0 {
		fmt.Fprintf(w, "No %s found.\n", label)
		return nil
	}

	for _, l := range links {
		fmt.Fprintf(w, "%s\n  %s\n", l.Name, l.URL)
	}
	fmt.Fprintf(w, "\nTotal: %d %s\n", len(links), label)
	return nil
}

// writeMatches outputs matches; verbose text adds the set detail
func writeMatches(w io.Writer, format OutputFormat, matches []entity.Match, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, matches)
	}

	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	played := 0
	for _, m := range matches {
		when := strings.TrimSpace(m.Date + " " + m.Hour)
		if m.Played() {
			played++
			fmt.Fprintf(w, "%-15s %s %s %s\n", when, m.FirstTeam, m.MatchScore, m.SecondTeam)
			if verbose && len(m.SetsScore) > 0 {
				sets := make([]string, 0, len(m.SetsScore))
				for _, s := range m.SetsScore {
					sets = append(sets, s.String())
				}
				fmt.Fprintf(w, "%-15s Sets: %s\n", "", strings.Join(sets, ", "))
			}
		} else {
			fmt.Fprintf(w, "%-15s %s - %s @ %s\n", when, m.FirstTeam, m.SecondTeam, m.Place)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d matches (%d played)\n", len(matches), played)
	return nil
}

// writeRanking outputs a pool's ranking
func writeRanking(w io.Writer, format OutputFormat, ranks []entity.Rank) error {
	if format == FormatJSON {
		return writeJSON(w, ranks)
	}

	if len(ranks) == 0 {
		fmt.Fprintln(w, "No ranking found.")
		return nil
	}

	for _, r := range ranks {
		fmt.Fprintf(w, "%3d. %s\n", r.Position, r.Team)
	}
	return nil
}

// WatchResult is the outcome of one watch run
type WatchResult struct {
	CheckedAt   time.Time            `json:"checked_at"`
	URL         string               `json:"url"`
	Team        string               `json:"team"`
	FirstRun    bool                 `json:"first_run"`
	Changes     []entity.MatchChange `json:"changes"`
	ChangeCount int                  `json:"change_count"`
}

// writeWatch outputs the changes found by a watch run
func writeWatch(w io.Writer, format OutputFormat, result *WatchResult) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if result.ChangeCount == 0 {
		fmt.Fprintln(w, "No changes found.")
		return nil
	}

	for _, c := range result.Changes {
		prefix := strings.ToUpper(c.ChangeType)
		if c.OldValue == "" {
			fmt.Fprintf(w, "%s: %s (%s)\n", prefix, c.Key, c.NewValue)
		} else {
			fmt.Fprintf(w, "%s: %s (%s -> %s)\n", prefix, c.Key, c.OldValue, c.NewValue)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d changes\n", result.ChangeCount)
	return nil
}
