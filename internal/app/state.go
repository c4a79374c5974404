// state.go persists session state between runs: the directory the file
// browser last selected from and the most recently selected blueprints.
//
// State is stored as JSON next to the config file
// (~/.carbon-blueprint/state.json). It is best effort: read and write
// failures are logged and never block the UI.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/treykane/carbon-blueprint/internal/config"
)

const stateFileName = "state.json"

// MaxRecentBlueprints bounds the recent-selection list.
const MaxRecentBlueprints = 10

// sessionState is the on-disk JSON representation of session state.
type sessionState struct {
	LastDir          string   `json:"last_dir,omitempty"`
	RecentBlueprints []string `json:"recent_blueprints,omitempty"`
}

// StatePath returns the session state file path.
func StatePath() (string, error) {
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(cfgPath), stateFileName), nil
}

// loadSessionState reads the state file. A missing file is an empty state.
// Recent entries that no longer exist are dropped.
func loadSessionState(path string) (sessionState, error) {
	var state sessionState
	if path == "" {
		return state, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return state, fmt.Errorf("read session state %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return sessionState{}, fmt.Errorf("parse session state %q: %w", path, err)
	}

	recent := make([]string, 0, len(state.RecentBlueprints))
	for _, p := range dedupePaths(state.RecentBlueprints) {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			recent = append(recent, p)
		}
	}
	trimRecentBlueprints(&recent)
	state.RecentBlueprints = recent
	if state.LastDir != "" {
		if info, err := os.Stat(state.LastDir); err != nil || !info.IsDir() {
			state.LastDir = ""
		}
	}
	return state, nil
}

func saveSessionState(path string, state sessionState) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}

// saveState writes the model's session state, logging failures.
func (m *Model) saveState() {
	if err := saveSessionState(m.statePath, m.session); err != nil {
		appLog.Warn("save session state", "path", m.statePath, "error", err)
	}
}

// trackSelection moves path to the front of the recent list and remembers
// its directory for the next run.
func (m *Model) trackSelection(path string) {
	recent := append([]string{path}, removePathFromList(m.session.RecentBlueprints, path)...)
	trimRecentBlueprints(&recent)
	m.session.RecentBlueprints = recent
	m.session.LastDir = filepath.Dir(path)
	m.saveState()
}

// selectRecent selects the most recent blueprint other than the current
// selection.
func (m *Model) selectRecent() {
	for _, path := range m.session.RecentBlueprints {
		if m.selected != nil && m.selected.Path == path {
			continue
		}
		if m.selectPath(path, sourceRecent) {
			return
		}
		m.session.RecentBlueprints = removePathFromList(m.session.RecentBlueprints, path)
		m.saveState()
		return
	}
	m.status = "No other recent blueprint"
}

func trimRecentBlueprints(paths *[]string) {
	if len(*paths) > MaxRecentBlueprints {
		*paths = (*paths)[:MaxRecentBlueprints]
	}
}

func removePathFromList(paths []string, target string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != target {
			out = append(out, p)
		}
	}
	return out
}

func dedupePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
