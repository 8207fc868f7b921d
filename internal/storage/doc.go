// Package storage provides JSON-based persistence for match snapshots.
//
// The storage package manages local snapshot files that track a team's
// fixtures across runs of the watch command. Each (pool page, team) pair has
// its own file, snapshot_<id>.json, where id is a name-based UUID of the
// pair. The default storage location is ~/.local/share/ffvb-results/.
package storage
