// Package clipboard implements the core's clipboard collaborator
// interface over the host OS clipboard.
package clipboard

import (
	"log/slog"

	"github.com/atotto/clipboard"
)

// Provider is the trait the core consumes: set_text/get_text, with errors
// reported non-fatally to the caller.
type Provider interface {
	SetText(text string) error
	GetText() (string, bool)
}

// SystemClipboard is the default Provider, backed by the host OS clipboard
// via atotto/clipboard.
type SystemClipboard struct {
	logger *slog.Logger
}

// NewSystemClipboard returns a SystemClipboard that logs failures via
// logger (nil is safe; failures are then not logged, though SetText still
// returns them).
func NewSystemClipboard(logger *slog.Logger) *SystemClipboard {
	return &SystemClipboard{logger: logger}
}

// SetText copies text to the system clipboard. Failures are logged and
// returned; the caller decides whether to surface them to the user.
func (c *SystemClipboard) SetText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		if c.logger != nil {
			c.logger.Warn("clipboard write failed", "error", err)
		}
		return err
	}
	return nil
}

// GetText reads the system clipboard. ok is false on any read failure
// (empty clipboard, unsupported platform, missing xclip/xsel, etc.); the
// failure is logged but not returned as an error, matching the spec's
// "get_text() -> str?" optional-return shape.
func (c *SystemClipboard) GetText() (string, bool) {
	text, err := clipboard.ReadAll()
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("clipboard read failed", "error", err)
		}
		return "", false
	}
	return text, true
}

// Noop is a Provider that discards writes and never returns content, for
// headless/test environments with no OS clipboard.
type Noop struct{}

func (Noop) SetText(string) error       { return nil }
func (Noop) GetText() (string, bool)    { return "", false }
