// Package extract decodes the federation's result pages into entities.
//
// The pages have no machine-readable API; the only contract is their table
// layout. Regions and departments are read by running two selector queries
// that describe the same rows and zipping the results by position. Matches
// and rankings are read by walking a table found at a fixed position and
// decoding each row cell by cell. Every position the decoders rely on is
// declared in Layout so that a change of page structure is a one-line edit.
//
// Decoders never panic on page content: every anomaly is returned as an
// error wrapping one of the package sentinels or those of the document and
// scraper packages. Three anomalies are tolerated on purpose: name and link
// sequences of different lengths are truncated to the shorter one, a
// region whose list holds a single link is reported as its own department,
// and table rows with at most one cell are skipped as headers or spacers.
package extract
