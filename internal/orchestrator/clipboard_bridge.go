package orchestrator

import (
	term "github.com/veloterm/veloterm"
	"github.com/veloterm/veloterm/internal/clipboard"
)

// osc52Bridge adapts the system clipboard.Provider (vi-mode yank/put's
// backing store) into term.ClipboardProvider, so OSC 52 clipboard
// queries/stores from the shell exchange with the same clipboard vi-mode
// uses. There is no primary-selection concept on this system to give 'p'
// its own backing store, so both clipboard selectors route to the same
// Provider.
type osc52Bridge struct {
	clip clipboard.Provider
}

func (b osc52Bridge) Read(selector byte) string {
	text, ok := b.clip.GetText()
	if !ok {
		return ""
	}
	return text
}

func (b osc52Bridge) Write(selector byte, data []byte) {
	b.clip.SetText(string(data))
}

var _ term.ClipboardProvider = osc52Bridge{}

// NewPaneTerminal constructs a Terminal sized rows x cols with the
// orchestrator's clipboard wired through as its OSC 52 provider and its
// logger wired through as debug-level middleware, for use by
// pane-spawning code building a fresh PaneSession.
func (o *Orchestrator) NewPaneTerminal(rows, cols int) *term.Terminal {
	return term.New(
		term.WithSize(rows, cols),
		term.WithClipboard(osc52Bridge{clip: o.Clipboard}),
		term.WithMiddleware(term.NewLoggingMiddleware(o.Logger)),
	)
}
