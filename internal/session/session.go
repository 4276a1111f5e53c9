// Package session captures and restores a (tabs, pane trees, CWDs)
// snapshot to JSON, locking the save file against concurrent writers from
// another process.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Node mirrors the pane tree shape, but leaves carry an optional CWD
// instead of a PaneId.
type Node struct {
	Type      string  `json:"type"` // "Leaf" or "Split"
	Cwd       *string `json:"cwd,omitempty"`
	Direction string  `json:"direction,omitempty"` // "horizontal" or "vertical"
	Ratio     float64 `json:"ratio,omitempty"`
	First     *Node   `json:"first,omitempty"`
	Second    *Node   `json:"second,omitempty"`
}

// TabState is one persisted tab.
type TabState struct {
	Title    string `json:"title"`
	PaneTree *Node  `json:"pane_tree"`
}

// State is the full persisted session.
type State struct {
	Tabs      []TabState `json:"tabs"`
	ActiveTab int        `json:"active_tab"`
}

// ErrEmptySession is returned when loading a session whose tabs list is
// empty; the caller should start a fresh session instead.
var ErrEmptySession = fmt.Errorf("session: tabs list is empty")

// Validate rejects a session with no tabs.
func (s State) Validate() error {
	if len(s.Tabs) == 0 {
		return ErrEmptySession
	}
	return nil
}

// Dir returns the directory session files are stored under.
func Dir(home string) string {
	return filepath.Join(home, ".veloterm", "sessions")
}

// NewID generates a fresh session file identifier.
func NewID() string {
	return uuid.NewString()
}

// Save writes state as JSON to <dir>/<id>.json, holding an advisory file
// lock for the duration of the write so two processes cannot corrupt the
// same session file.
func Save(dir, id string, state State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: create directory: %w", err)
	}

	path := filepath.Join(dir, id+".json")
	lock := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("session: acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("session: %s is locked by another process", path)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("session: write %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a session file. A malformed JSON body or an
// empty tabs list is returned as an error; the caller should start a fresh
// session in either case.
func Load(dir, id string) (State, error) {
	path := filepath.Join(dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("session: read %s: %w", path, err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("session: malformed session json: %w", err)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// RestoredLeaf is returned per leaf on restore: the leaf's pre-order index
// paired with the CWD to spawn its shell in, if any.
type RestoredLeaf struct {
	PaneIndex int
	Cwd       *string
}

// Restore walks a session tree, producing the ordered list of leaves (in
// the order a caller should assign fresh PaneIds and spawn PTYs), and
// validating each CWD still exists on disk. A stale CWD is demoted to nil
// (spawn falls back to the default home directory) rather than failing the
// whole restore.
func Restore(n *Node, statFn func(string) bool) []RestoredLeaf {
	var out []RestoredLeaf
	collectLeaves(n, statFn, &out)
	return out
}

func collectLeaves(n *Node, statFn func(string) bool, out *[]RestoredLeaf) {
	if n == nil {
		return
	}
	if n.Type == "Leaf" {
		cwd := n.Cwd
		if cwd != nil && !statFn(*cwd) {
			cwd = nil
		}
		*out = append(*out, RestoredLeaf{PaneIndex: len(*out), Cwd: cwd})
		return
	}
	collectLeaves(n.First, statFn, out)
	collectLeaves(n.Second, statFn, out)
}
