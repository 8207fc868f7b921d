package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/pfrederiksen/ffvb-results/internal/entity"
)

// DefaultDataDir is where snapshots live unless --data-dir says otherwise
const DefaultDataDir = "~/.local/share/ffvb-results"

// snapshotNamespace scopes snapshot file ids
var snapshotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ffvb-results:snapshot"))

// Storage handles persistence of match snapshots
type Storage struct {
	dataDir string
	clock   clock.Clock
}

// New creates a new Storage instance
func New(dataDir string, c clock.Clock) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
		clock:   c,
	}, nil
}

// SnapshotPath returns the path to the snapshot file of team in the pool at url
func (s *Storage) SnapshotPath(url, team string) string {
	id := uuid.NewSHA1(snapshotNamespace, []byte(url+"\n"+team))
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", id))
}

// LoadSnapshot loads a snapshot from disk. A missing file yields nil and no
// error: the team has not been watched yet.
func (s *Storage) LoadSnapshot(url, team string) (*entity.Snapshot, error) {
	path := s.SnapshotPath(url, team)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot entity.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	// Ensure Matches map is initialized
	if snapshot.Matches == nil {
		snapshot.Matches = make(map[string]entity.Match)
	}

	return &snapshot, nil
}

// SaveSnapshot writes matches as the current snapshot of team in the pool at url
func (s *Storage) SaveSnapshot(url, team string, matches []entity.Match) error {
	snapshot := entity.CreateSnapshot(matches, s.clock.Now())

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// Written beside the target then renamed into place
	path := s.SnapshotPath(url, team)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}
