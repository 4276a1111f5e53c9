package render

import (
	"image/color"
	"time"
)

// CursorShape mirrors the renderer's 2-bit cursor shape encoding.
type CursorShape uint8

const (
	CursorBlock CursorShape = iota
	CursorBeam
	CursorUnderline
	CursorHollowBlock
)

// blinkInterval is how often blink visibility toggles.
const blinkInterval = 500 * time.Millisecond

// CursorOverlay tracks blink phase and produces the single additional
// overlay instance for the terminal's cursor position.
type CursorOverlay struct {
	Blink      bool
	lastToggle time.Time
	visible    bool
}

// NewCursorOverlay returns a CursorOverlay starting visible.
func NewCursorOverlay(blink bool) *CursorOverlay {
	return &CursorOverlay{Blink: blink, visible: true}
}

// Tick advances blink phase at now, toggling visibility every
// blinkInterval when Blink is enabled. A steady (non-blinking) cursor is
// always visible.
func (c *CursorOverlay) Tick(now time.Time) {
	if !c.Blink {
		c.visible = true
		return
	}
	if c.lastToggle.IsZero() {
		c.lastToggle = now
		c.visible = true
		return
	}
	if now.Sub(c.lastToggle) >= blinkInterval {
		c.visible = !c.visible
		c.lastToggle = now
	}
}

// Instance returns the cursor overlay CellInstance at (col, row), or
// ok=false when blink phase currently hides it. Shape is forced to
// HollowBlock when the window is unfocused, overriding the configured
// style until focus returns.
func (c *CursorOverlay) Instance(col, row int, configured CursorShape, focused bool, fg, bg color.RGBA) (CellInstance, bool) {
	if !c.visible {
		return CellInstance{}, false
	}

	shape := configured
	if !focused {
		shape = CursorHollowBlock
	}

	const flagIsCursor uint32 = 1 << 1
	flags := flagIsCursor | (uint32(shape) << 2)

	return CellInstance{
		Col: col, Row: row,
		Fg:    fg,
		Bg:    bg,
		Flags: flags,
	}, true
}
