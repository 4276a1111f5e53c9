// Package atlas pre-rasterizes a fixed glyph set into a padded texture
// layout and exposes UV lookups for the grid renderer.
package atlas

import "math"

// PadPx is the per-side padding added to each glyph slot to accommodate
// ascenders/descenders/AA fringe; UVs refer only to the inner cell area.
const PadPx = 2

// SlotsPerRow is the fixed atlas layout width in glyph slots.
const SlotsPerRow = 16

// MinAtlasSize is the minimum atlas texture dimension in pixels.
const MinAtlasSize = 512

// ASCIIRange is the printable ASCII set rasterized by default.
func ASCIIRange() []rune {
	runes := make([]rune, 0, 0x7E-0x20+1)
	for r := rune(0x20); r <= 0x7E; r++ {
		runes = append(runes, r)
	}
	return runes
}

// ChromeGlyphs is the fixed set of UI chrome code points beyond ASCII:
// box drawing, arrows, check/x, circled numerics, ellipsis, middle dot,
// a starship-style chevron, and a teardrop asterisk.
func ChromeGlyphs() []rune {
	return []rune{
		'─', '│', '┌', '┐', '└', '┘', '├', '┤', '┬', '┴', '┼',
		'←', '→', '↑', '↓',
		'✓', '✗',
		'①', '②', '③', '④', '⑤',
		'…', '·',
		'❯',
		'∗',
	}
}

// DefaultGlyphSet is ASCII plus the chrome glyphs, the atlas's default
// pre-rasterization input.
func DefaultGlyphSet() []rune {
	set := ASCIIRange()
	return append(set, ChromeGlyphs()...)
}

// Rasterizer is the Provider-pattern collaborator interface: given a rune
// and scaled metrics, it produces a coverage bitmap (grayscale R8 or RGBA).
// A platform-specific rasterizer (CoreText, DirectWrite, etc.) satisfies
// this same interface outside core scope.
type Rasterizer interface {
	// Advance returns the horizontal advance of 'M' at the given pixel
	// size, used to derive uniform cell width.
	Advance(r rune, pixelSize float64) (float64, error)
	// Rasterize returns a coverage bitmap for r at pixelSize: width,
	// height, channels (1 = R8 grayscale, 4 = RGBA), and pixel data.
	Rasterize(r rune, pixelSize float64) (w, h, channels int, pix []byte, err error)
}

// NoopRasterizer always reports a zero-size empty glyph, used in headless
// test environments with no font backend configured.
type NoopRasterizer struct{}

func (NoopRasterizer) Advance(rune, float64) (float64, error) { return 0, nil }
func (NoopRasterizer) Rasterize(rune, float64) (int, int, int, []byte, error) {
	return 0, 0, 1, nil, nil
}

// UV is a glyph's texture-space rectangle within the atlas, referring to
// the inner cell area only (never the padded slot).
type UV struct {
	U, V, W, H float64
}

// Slot is one atlas entry: its UV plus whether it has RGBA coverage.
type Slot struct {
	UV       UV
	RGBA     bool
	HasGlyph bool
}

// Metrics describes the uniform cell layout derived from the font at a
// given scaled size.
type Metrics struct {
	CellWidthPx  int
	CellHeightPx int
	SlotWidthPx  int // CellWidthPx + 2*PadPx
	SlotHeightPx int // CellHeightPx + 2*PadPx
	AtlasWidthPx int
	AtlasHeightPx int
}

// ComputeMetrics derives cell size from the 'M' advance and
// ceil(scaledSize*lineHeightMultiplier), and the smallest power-of-two
// atlas large enough to hold glyphCount padded slots at SlotsPerRow.
func ComputeMetrics(r Rasterizer, scaledSize, lineHeightMultiplier float64, glyphCount int) (Metrics, error) {
	advance, err := r.Advance('M', scaledSize)
	if err != nil {
		return Metrics{}, err
	}

	cellW := int(math.Ceil(advance))
	cellH := int(math.Ceil(scaledSize * lineHeightMultiplier))
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}

	slotW := cellW + 2*PadPx
	slotH := cellH + 2*PadPx

	rows := (glyphCount + SlotsPerRow - 1) / SlotsPerRow
	if rows < 1 {
		rows = 1
	}

	neededW := SlotsPerRow * slotW
	neededH := rows * slotH

	return Metrics{
		CellWidthPx:   cellW,
		CellHeightPx:  cellH,
		SlotWidthPx:   slotW,
		SlotHeightPx:  slotH,
		AtlasWidthPx:  nextPow2(neededW, MinAtlasSize),
		AtlasHeightPx: nextPow2(neededH, MinAtlasSize),
	}, nil
}

func nextPow2(n, min int) int {
	v := min
	for v < n {
		v *= 2
	}
	return v
}

// Atlas maps runes (optionally with a bold variant) to their padded slot
// index and inner-cell UV rectangle.
type Atlas struct {
	metrics Metrics
	slots   map[glyphKey]Slot
	order   []glyphKey
}

type glyphKey struct {
	r    rune
	bold bool
}

// Build pre-rasterizes every rune in runes (both regular and bold variants)
// using r, laying out slots row-major at SlotsPerRow per row.
func Build(r Rasterizer, runes []rune, metrics Metrics, scaledSize float64) (*Atlas, error) {
	a := &Atlas{metrics: metrics, slots: make(map[glyphKey]Slot)}

	variants := []bool{false, true}
	index := 0
	for _, ch := range runes {
		for _, bold := range variants {
			key := glyphKey{r: ch, bold: bold}
			_, _, channels, pix, err := r.Rasterize(ch, scaledSize)
			if err != nil {
				return nil, err
			}
			hasGlyph := ch != ' ' && len(pix) > 0

			col := index % SlotsPerRow
			row := index / SlotsPerRow

			slotX := col * metrics.SlotWidthPx
			slotY := row * metrics.SlotHeightPx
			innerX := slotX + PadPx
			innerY := slotY + PadPx

			uv := UV{
				U: float64(innerX) / float64(metrics.AtlasWidthPx),
				V: float64(innerY) / float64(metrics.AtlasHeightPx),
				W: float64(metrics.CellWidthPx) / float64(metrics.AtlasWidthPx),
				H: float64(metrics.CellHeightPx) / float64(metrics.AtlasHeightPx),
			}

			a.slots[key] = Slot{UV: uv, RGBA: channels == 4, HasGlyph: hasGlyph}
			a.order = append(a.order, key)
			index++
		}
	}

	return a, nil
}

// Lookup returns the Slot for r (bold variant if requested), and whether
// it exists in the atlas.
func (a *Atlas) Lookup(r rune, bold bool) (Slot, bool) {
	s, ok := a.slots[glyphKey{r: r, bold: bold}]
	return s, ok
}

// Metrics returns the atlas's cell/slot/texture dimensions.
func (a *Atlas) Metrics() Metrics { return a.metrics }
