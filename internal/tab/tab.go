// Package tab implements the ordered tab manager: each tab owns an
// independent pane tree, with new/close/select/move operations and tab-bar
// hit-testing geometry.
package tab

import (
	"fmt"
	"sync/atomic"

	"github.com/veloterm/veloterm/internal/pane"
)

// Id is a process-wide monotonically assigned tab identifier.
type Id uint32

var nextID atomic.Uint32

// NewID returns the next process-wide TabId.
func NewID() Id {
	return Id(nextID.Add(1))
}

// ResetIDsForTest resets the allocator.
func ResetIDsForTest() {
	nextID.Store(0)
}

// Tab owns one pane tree.
type Tab struct {
	ID              Id
	Title           string
	Tree            *pane.Tree
	HasNotification bool
}

// Manager is an ordered sequence of tabs with one active index. It always
// holds at least one tab.
type Manager struct {
	Tabs        []*Tab
	ActiveIndex int
}

// ErrLastTab is returned by Close when only one tab remains.
var ErrLastTab = fmt.Errorf("tab: cannot close the last remaining tab")

// NewManager returns a manager containing a single tab wrapping the given
// pane tree.
func NewManager(title string, tree *pane.Tree) *Manager {
	t := &Tab{ID: NewID(), Title: title, Tree: tree}
	return &Manager{Tabs: []*Tab{t}, ActiveIndex: 0}
}

// Active returns the currently active tab.
func (m *Manager) Active() *Tab {
	return m.Tabs[m.ActiveIndex]
}

// New inserts a tab after the active tab and activates it.
func (m *Manager) New(title string, tree *pane.Tree) *Tab {
	t := &Tab{ID: NewID(), Title: title, Tree: tree}
	insertAt := m.ActiveIndex + 1
	m.Tabs = append(m.Tabs, nil)
	copy(m.Tabs[insertAt+1:], m.Tabs[insertAt:])
	m.Tabs[insertAt] = t
	m.ActiveIndex = insertAt
	return t
}

// Close removes the tab at index i, returning the PaneIds it owned for
// resource cleanup. Refuses to close the last tab. Adjusts the active
// index: moves up by one if the closed tab was before the active tab,
// clamps if the active or a later tab was removed from the end.
func (m *Manager) Close(i int) ([]pane.Id, error) {
	if len(m.Tabs) <= 1 {
		return nil, ErrLastTab
	}
	if i < 0 || i >= len(m.Tabs) {
		return nil, fmt.Errorf("tab: index %d out of range", i)
	}

	owned := m.Tabs[i].Tree.Leaves()
	m.Tabs = append(m.Tabs[:i], m.Tabs[i+1:]...)

	switch {
	case i < m.ActiveIndex:
		m.ActiveIndex--
	case m.ActiveIndex >= len(m.Tabs):
		m.ActiveIndex = len(m.Tabs) - 1
	}
	return owned, nil
}

// Select activates the tab at index i.
func (m *Manager) Select(i int) error {
	if i < 0 || i >= len(m.Tabs) {
		return fmt.Errorf("tab: index %d out of range", i)
	}
	m.ActiveIndex = i
	return nil
}

// Next activates the next tab, wrapping.
func (m *Manager) Next() {
	m.ActiveIndex = (m.ActiveIndex + 1) % len(m.Tabs)
}

// Prev activates the previous tab, wrapping.
func (m *Manager) Prev() {
	m.ActiveIndex--
	if m.ActiveIndex < 0 {
		m.ActiveIndex = len(m.Tabs) - 1
	}
}

// Move relocates the tab at index from to index to, keeping the active
// tab tracked through the shift.
func (m *Manager) Move(from, to int) error {
	if from < 0 || from >= len(m.Tabs) || to < 0 || to >= len(m.Tabs) {
		return fmt.Errorf("tab: move index out of range")
	}
	activeTab := m.Tabs[m.ActiveIndex]

	t := m.Tabs[from]
	m.Tabs = append(m.Tabs[:from], m.Tabs[from+1:]...)
	m.Tabs = append(m.Tabs[:to], append([]*Tab{t}, m.Tabs[to:]...)...)

	for idx, tb := range m.Tabs {
		if tb == activeTab {
			m.ActiveIndex = idx
			break
		}
	}
	return nil
}
