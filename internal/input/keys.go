// Package input translates key-press and mouse events into PTY byte
// sequences, normalized keybinding combo strings, and a per-pane mouse
// selection state machine.
package input

import (
	"fmt"
	"sort"
	"strings"
)

// Key enumerates named keys the translator recognizes; printable runes are
// carried separately via Event.Rune.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeySpace
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

func (m Modifiers) has(bit Modifiers) bool { return m&bit != 0 }

// Has reports whether bit is set in m, for callers outside this package
// (e.g. checking Ctrl before routing a key through the vi-mode parser).
func (m Modifiers) Has(bit Modifiers) bool { return m.has(bit) }

// Event is one key-press (release events are not translated to PTY bytes;
// only used for modifier-only tracking upstream).
type Event struct {
	Key  Key
	Rune rune // set when this is a printable character, Key == KeyNone
	Mods Modifiers
}

// Translate converts a press-only key Event into the byte sequence written
// to the PTY, per the canonical CSI/SS3 mapping. Modifier-only keys and
// unrecognized named keys with no rune produce nil.
func Translate(e Event) []byte {
	if e.Mods.has(ModCtrl) && e.Rune >= 'a' && e.Rune <= 'z' {
		return []byte{byte(e.Rune-'a') + 1}
	}
	if e.Mods.has(ModCtrl) && e.Rune >= 'A' && e.Rune <= 'Z' {
		return []byte{byte(e.Rune-'A') + 1}
	}

	switch e.Key {
	case KeyEnter:
		return []byte("\r")
	case KeyBackspace:
		return []byte{0x7F}
	case KeyTab:
		return []byte("\t")
	case KeyEscape:
		return []byte{0x1B}
	case KeySpace:
		return []byte(" ")
	case KeyUp:
		return []byte("\x1b[A")
	case KeyDown:
		return []byte("\x1b[B")
	case KeyRight:
		return []byte("\x1b[C")
	case KeyLeft:
		return []byte("\x1b[D")
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyPageUp:
		return []byte("\x1b[5~")
	case KeyPageDown:
		return []byte("\x1b[6~")
	case KeyF1:
		return []byte("\x1bOP")
	case KeyF2:
		return []byte("\x1bOQ")
	case KeyF3:
		return []byte("\x1bOR")
	case KeyF4:
		return []byte("\x1bOS")
	case KeyF5:
		return []byte("\x1b[15~")
	case KeyF6:
		return []byte("\x1b[17~")
	case KeyF7:
		return []byte("\x1b[18~")
	case KeyF8:
		return []byte("\x1b[19~")
	case KeyF9:
		return []byte("\x1b[20~")
	case KeyF10:
		return []byte("\x1b[21~")
	case KeyF11:
		return []byte("\x1b[23~")
	case KeyF12:
		return []byte("\x1b[24~")
	}

	if e.Rune != 0 {
		return []byte(string(e.Rune))
	}
	return nil
}

// NormalizeCombo produces the canonical keybinding string for a modifier
// set plus a base key name: lower-cased, modifiers in ctrl/alt/shift/super
// order, '+'-joined (e.g. "ctrl+shift+o").
func NormalizeCombo(mods Modifiers, base string) string {
	var parts []string
	if mods.has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if mods.has(ModAlt) {
		parts = append(parts, "alt")
	}
	if mods.has(ModShift) {
		parts = append(parts, "shift")
	}
	if mods.has(ModSuper) {
		parts = append(parts, "super")
	}
	sort.SliceStable(parts, func(i, j int) bool { return modOrder(parts[i]) < modOrder(parts[j]) })
	parts = append(parts, strings.ToLower(base))
	return strings.Join(parts, "+")
}

func modOrder(name string) int {
	switch name {
	case "ctrl":
		return 0
	case "alt":
		return 1
	case "shift":
		return 2
	case "super":
		return 3
	}
	return 4
}

// Bindings maps normalized combo strings to action names, looked up
// against pane-command shortcuts (split, close, focus-direction, zoom).
type Bindings map[string]string

// Lookup resolves a combo to its bound action name, if any.
func (b Bindings) Lookup(mods Modifiers, base string) (string, bool) {
	action, ok := b[NormalizeCombo(mods, base)]
	return action, ok
}

// DefaultBindings returns the built-in pane-command shortcuts, matching
// the combos named in the Input Translator's pane-command layer.
func DefaultBindings() Bindings {
	return Bindings{
		"ctrl+shift+o": "split-horizontal",
		"ctrl+shift+e": "split-vertical",
		"ctrl+shift+w": "close-pane",
		"ctrl+shift+z": "zoom-toggle",
		"ctrl+shift+h": "focus-left",
		"ctrl+shift+l": "focus-right",
		"ctrl+shift+k": "focus-up",
		"ctrl+shift+j": "focus-down",
		"ctrl+shift+v": "vi-mode-toggle",
	}
}

// Describe renders an Event for diagnostics (not used for PTY output).
func Describe(e Event) string {
	if e.Rune != 0 {
		return fmt.Sprintf("rune:%q mods:%d", e.Rune, e.Mods)
	}
	return fmt.Sprintf("key:%d mods:%d", e.Key, e.Mods)
}
