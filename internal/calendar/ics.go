// Package calendar renders a team's fixtures as an iCalendar (RFC 5545) feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

const (
	prodID = "-//FFVB Results//ffvb-results//FR"
	// MatchDuration is the length given to every timed match event
	MatchDuration = 2 * time.Hour
	// maxLineOctets is the RFC 5545 content line limit, CRLF excluded
	maxLineOctets = 75
)

// uidNamespace scopes match UIDs so that re-exports keep the same UID
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.ffvb.org"))

// Generator builds calendars. DTSTAMP values come from its clock.
type Generator struct {
	clock clock.Clock
}

// New creates a Generator reading the current time from c
func New(c clock.Clock) *Generator {
	return &Generator{clock: c}
}

// Generate returns a VCALENDAR named name with one VEVENT per match.
// Matches whose date cannot be parsed are left out. A match with no hour
// becomes an all-day event.
func (g *Generator) Generate(name string, matches []entity.Match) string {
	var ics strings.Builder
	stamp := g.clock.Now()

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(name))
	}

	for _, m := range matches {
		writeEvent(&ics, m, stamp)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, m entity.Match, stamp time.Time) {
	start := m.When()
	if start.IsZero() {
		return
	}

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, "UID:"+MatchUID(m))
	writeLine(ics, "DTSTAMP:"+formatICSTime(stamp))

	if strings.TrimSpace(m.Hour) == "" {
		writeLine(ics, "DTSTART;VALUE=DATE:"+formatICSDate(start))
		writeLine(ics, "DTEND;VALUE=DATE:"+formatICSDate(start.AddDate(0, 0, 1)))
	} else {
		// Floating time: the federation prints local hours without a zone
		writeLine(ics, "DTSTART:"+formatLocalTime(start))
		writeLine(ics, "DTEND:"+formatLocalTime(start.Add(MatchDuration)))
	}

	writeLine(ics, "SUMMARY:"+escapeICS(summary(m)))
	if m.Played() {
		writeLine(ics, "DESCRIPTION:"+escapeICS(description(m)))
	} else {
		writeLine(ics, "LOCATION:"+escapeICS(m.Place))
	}
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

// MatchUID returns a stable identifier for a fixture, derived from its
// date, hour and teams
func MatchUID(m entity.Match) string {
	key := strings.Join([]string{m.Date, m.Hour, m.FirstTeam.String(), m.SecondTeam.String()}, "|")
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@ffvb-results"
}

func summary(m entity.Match) string {
	if m.Played() {
		return fmt.Sprintf("%s %d-%d %s", m.FirstTeam, m.MatchScore.Lhs, m.MatchScore.Rhs, m.SecondTeam)
	}
	return fmt.Sprintf("%s - %s", m.FirstTeam, m.SecondTeam)
}

func description(m entity.Match) string {
	if len(m.SetsScore) == 0 {
		return "Score: " + m.MatchScore.String()
	}
	sets := make([]string, 0, len(m.SetsScore))
	for _, s := range m.SetsScore {
		sets = append(sets, s.String())
	}
	return fmt.Sprintf("Score: %s\nSets: %s", m.MatchScore, strings.Join(sets, ", "))
}

// writeLine writes one content line, folded at 75 octets without
// splitting a UTF-8 sequence
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatLocalTime(t time.Time) string {
	return t.Format("20060102T150405")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
