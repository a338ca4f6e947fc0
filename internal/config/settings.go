package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State records what the last update check found. It lets `check --interval`
// skip the network when a recent result is on disk.
type State struct {
	LastCheck time.Time `json:"last_check,omitzero"`
	LatestTag string    `json:"latest_tag,omitempty"`
	// Source is the Source.CacheKey the check was made for.
	Source string `json:"source,omitempty"`
	// Backup is the .exe.old path left by the last successful update.
	Backup string `json:"backup,omitempty"`
}

// StatePath returns the path to the state file.
func StatePath() string {
	home, _ := os.UserHomeDir()

	return filepath.Join(home, AppDir, "state.json")
}

// LoadState reads state from disk. A missing file yields an empty state.
func LoadState() (*State, error) {
	data, err := os.ReadFile(StatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}

		return nil, err
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Save writes state to disk.
func (s *State) Save() error {
	path := StatePath()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// CheckDue reports whether interval has passed since the last check recorded
// for source. A zero interval or a check made for another source is always due.
func (s *State) CheckDue(now time.Time, interval time.Duration, source string) bool {
	if interval <= 0 || s.LastCheck.IsZero() || s.Source != source {
		return true
	}

	return now.Sub(s.LastCheck) >= interval
}

// RecordCheck stores the result of a check of source made at now.
func (s *State) RecordCheck(now time.Time, source, latestTag string) {
	s.LastCheck = now
	s.Source = source
	s.LatestTag = latestTag
}

// RecordInstall notes that tag from source is now installed, with backup left
// behind. A cached check for a different source is discarded.
func (s *State) RecordInstall(source, tag, backup string) {
	if s.Source != source {
		s.LastCheck = time.Time{}
		s.Source = source
	}
	s.LatestTag = tag
	s.Backup = backup
}
