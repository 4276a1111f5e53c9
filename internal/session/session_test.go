package session

import (
	"os"
	"path/filepath"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestValidateRejectsEmptyTabs(t *testing.T) {
	s := State{}
	if err := s.Validate(); err != ErrEmptySession {
		t.Errorf("Validate() = %v, want ErrEmptySession", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	id := NewID()

	state := State{
		Tabs: []TabState{
			{
				Title: "main",
				PaneTree: &Node{
					Type:      "Split",
					Direction: "vertical",
					Ratio:     0.5,
					First:     &Node{Type: "Leaf", Cwd: strPtr("/home/user")},
					Second:    &Node{Type: "Leaf"},
				},
			},
		},
		ActiveTab: 0,
	}

	if err := Save(dir, id, state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(dir, id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Tabs) != 1 || got.Tabs[0].Title != "main" {
		t.Errorf("Load() = %+v, want round-tripped state", got)
	}
	if got.Tabs[0].PaneTree.First.Cwd == nil || *got.Tabs[0].PaneTree.First.Cwd != "/home/user" {
		t.Errorf("restored cwd = %v, want /home/user", got.Tabs[0].PaneTree.First.Cwd)
	}
}

func TestSaveRejectsEmptySession(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, NewID(), State{}); err != ErrEmptySession {
		t.Errorf("Save() error = %v, want ErrEmptySession", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	id := NewID()
	if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir, id); err == nil {
		t.Error("Load() with malformed JSON, want error")
	}
}

func TestRestoreDemotesStaleCwd(t *testing.T) {
	tree := &Node{
		Type:      "Split",
		Direction: "horizontal",
		First:     &Node{Type: "Leaf", Cwd: strPtr("/exists")},
		Second:    &Node{Type: "Leaf", Cwd: strPtr("/gone")},
	}
	exists := func(p string) bool { return p == "/exists" }

	leaves := Restore(tree, exists)
	if len(leaves) != 2 {
		t.Fatalf("len(leaves) = %d, want 2", len(leaves))
	}
	if leaves[0].Cwd == nil || *leaves[0].Cwd != "/exists" {
		t.Errorf("leaves[0].Cwd = %v, want /exists preserved", leaves[0].Cwd)
	}
	if leaves[1].Cwd != nil {
		t.Errorf("leaves[1].Cwd = %v, want nil (stale demoted)", *leaves[1].Cwd)
	}
}

func TestRestoreOrdersLeavesPreOrder(t *testing.T) {
	tree := &Node{
		Type: "Split",
		First: &Node{
			Type:   "Split",
			First:  &Node{Type: "Leaf", Cwd: strPtr("a")},
			Second: &Node{Type: "Leaf", Cwd: strPtr("b")},
		},
		Second: &Node{Type: "Leaf", Cwd: strPtr("c")},
	}
	alwaysExists := func(string) bool { return true }

	leaves := Restore(tree, alwaysExists)
	if len(leaves) != 3 {
		t.Fatalf("len(leaves) = %d, want 3", len(leaves))
	}
	want := []string{"a", "b", "c"}
	for i, l := range leaves {
		if l.Cwd == nil || *l.Cwd != want[i] {
			t.Errorf("leaves[%d].Cwd = %v, want %s", i, l.Cwd, want[i])
		}
		if l.PaneIndex != i {
			t.Errorf("leaves[%d].PaneIndex = %d, want %d", i, l.PaneIndex, i)
		}
	}
}
