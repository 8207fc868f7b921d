// Package cli implements the command-line interface for ffvb-results.
//
// The cli package provides the Cobra-based CLI that walks the federation's
// hierarchy one level per command (competitions, regions, departments) and
// reports a pool's matches and ranking as text, JSON or iCalendar. The serve
// command exposes the same operations over HTTP.
package cli
