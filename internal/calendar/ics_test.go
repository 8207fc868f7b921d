package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

func fixedClock(t time.Time) *clock.Mock {
	mock := clock.NewMock()
	mock.Add(t.Sub(mock.Now()))
	return mock
}

var (
	played = entity.Match{
		FirstTeam:  entity.Assigned("C S M CLAMART 2"),
		SecondTeam: entity.Assigned("VOLLEY CLUB MONTREUIL"),
		Date:       "15/10/22",
		Hour:       "20:00",
		MatchScore: entity.Score{Lhs: 1, Rhs: 3},
		SetsScore:  []entity.Score{{Lhs: 25, Rhs: 20}, {Lhs: 22, Rhs: 25}, {Lhs: 20, Rhs: 25}, {Lhs: 23, Rhs: 25}},
	}
	upcoming = entity.Match{
		FirstTeam:  entity.Assigned("C S M CLAMART 2"),
		SecondTeam: entity.Assigned("AS ORSAY"),
		Date:       "05/11/22",
		Hour:       "20h30",
		Place:      "Gymnase Paul Langevin, Clamart",
		SetsScore:  []entity.Score{},
	}
)

func TestGenerate(t *testing.T) {
	gen := New(fixedClock(time.Date(2022, 11, 1, 8, 0, 0, 0, time.UTC)))

	ics := gen.Generate("C S M CLAMART 2", []entity.Match{played, upcoming})

	requiredFields := []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0\r\n",
		"PRODID:-//FFVB Results//ffvb-results//FR\r\n",
		"X-WR-CALNAME:C S M CLAMART 2\r\n",
		"DTSTAMP:20221101T080000Z\r\n",
		"DTSTART:20221015T200000\r\n",
		"DTEND:20221015T220000\r\n",
		"SUMMARY:C S M CLAMART 2 1-3 VOLLEY CLUB MONTREUIL\r\n",
		"DESCRIPTION:Score: 1-3\\nSets: 25-20\\, 22-25\\, 20-25\\, 23-25\r\n",
		"DTSTART:20221105T203000\r\n",
		"SUMMARY:C S M CLAMART 2 - AS ORSAY\r\n",
		"LOCATION:Gymnase Paul Langevin\\, Clamart\r\n",
		"END:VCALENDAR\r\n",
	}
	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing %q", field)
		}
	}

	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("Expected 2 BEGIN:VEVENT, got %d", got)
	}
	if strings.Count(ics, "LOCATION:") != 1 {
		t.Error("Only the upcoming match should carry a LOCATION")
	}
}

func TestGenerate_SkipsUndatedMatches(t *testing.T) {
	gen := New(fixedClock(time.Date(2022, 11, 1, 8, 0, 0, 0, time.UTC)))

	undated := upcoming
	undated.Date = "à définir"

	ics := gen.Generate("", []entity.Match{undated})

	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("Match without a parseable date should be skipped")
	}
	if strings.Contains(ics, "X-WR-CALNAME:") {
		t.Error("Should not include X-WR-CALNAME when name is empty")
	}
	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("Empty calendar should still be a VCALENDAR")
	}
}

func TestGenerate_AllDay(t *testing.T) {
	gen := New(fixedClock(time.Date(2022, 11, 1, 8, 0, 0, 0, time.UTC)))

	noHour := upcoming
	noHour.Hour = ""

	ics := gen.Generate("", []entity.Match{noHour})

	if !strings.Contains(ics, "DTSTART;VALUE=DATE:20221105\r\n") {
		t.Error("Match without hour should start as an all-day event")
	}
	if !strings.Contains(ics, "DTEND;VALUE=DATE:20221106\r\n") {
		t.Error("All-day event should end the next day")
	}
}

func TestGenerate_StampFollowsClock(t *testing.T) {
	mock := fixedClock(time.Date(2022, 11, 1, 8, 0, 0, 0, time.UTC))
	gen := New(mock)

	first := gen.Generate("", []entity.Match{played})
	mock.Add(90 * time.Minute)
	second := gen.Generate("", []entity.Match{played})

	if !strings.Contains(first, "DTSTAMP:20221101T080000Z") {
		t.Error("First export should be stamped at 08:00")
	}
	if !strings.Contains(second, "DTSTAMP:20221101T093000Z") {
		t.Error("Second export should be stamped at 09:30")
	}
}

func TestMatchUID(t *testing.T) {
	if MatchUID(played) != MatchUID(played) {
		t.Error("MatchUID should be deterministic")
	}
	if MatchUID(played) == MatchUID(upcoming) {
		t.Error("Different fixtures should have different UIDs")
	}

	rescored := played
	rescored.MatchScore = entity.Score{Lhs: 3, Rhs: 0}
	if MatchUID(played) != MatchUID(rescored) {
		t.Error("UID should not depend on the score")
	}

	if !strings.HasSuffix(MatchUID(played), "@ffvb-results") {
		t.Errorf("MatchUID() = %q, want @ffvb-results suffix", MatchUID(played))
	}
}

func TestWriteLineFolding(t *testing.T) {
	var b strings.Builder
	long := "SUMMARY:" + strings.Repeat("é", 60)
	writeLine(&b, long)

	lines := strings.Split(strings.TrimSuffix(b.String(), "\r\n"), "\r\n")
	if len(lines) < 2 {
		t.Fatalf("Expected folded line, got %q", b.String())
	}

	var unfolded strings.Builder
	for i, line := range lines {
		if len(line) > maxLineOctets {
			t.Errorf("line %d has %d octets, want at most %d", i, len(line), maxLineOctets)
		}
		if i > 0 {
			if !strings.HasPrefix(line, " ") {
				t.Errorf("continuation line %d should start with a space", i)
			}
			line = line[1:]
		}
		unfolded.WriteString(line)
	}
	if unfolded.String() != long {
		t.Error("Unfolding should restore the original line")
	}
}

func TestGenerate_NoBareCarriageReturn(t *testing.T) {
	gen := New(fixedClock(time.Date(2022, 11, 1, 8, 0, 0, 0, time.UTC)))

	crlfPlace := upcoming
	crlfPlace.Place = "Gymnase Paul Langevin\r\nClamart"

	ics := gen.Generate("", []entity.Match{crlfPlace})

	if strings.Contains(strings.ReplaceAll(ics, "\r\n", ""), "\r") {
		t.Error("ICS should not contain a carriage return outside line endings")
	}
	if !strings.Contains(ics, "LOCATION:Gymnase Paul Langevin\\nClamart\r\n") {
		t.Errorf("LOCATION not escaped:\n%s", ics)
	}
}

func TestFormatICSTime(t *testing.T) {
	testTime := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	formatted := formatICSTime(testTime)

	expected := "20260315T143000Z"
	if formatted != expected {
		t.Errorf("formatICSTime() = %q, want %q", formatted, expected)
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Simple text", "Simple text"},
		{"Text with, comma", "Text with\\, comma"},
		{"Text with; semicolon", "Text with\\; semicolon"},
		{"Text with\\backslash", "Text with\\\\backslash"},
		{"Text with\nnewline", "Text with\\nnewline"},
		{"All, special; chars\\\n", "All\\, special\\; chars\\\\\\n"},
		{"Gymnase Blondin\r\nMontreuil", "Gymnase Blondin\\nMontreuil"},
		{"bare\rreturn", "bare\\nreturn"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeICS(tt.input)
			if got != tt.expected {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
