// Package render builds per-pane CellInstance buffers from a viewport of
// cells plus an atlas, and drives cursor blink/shape state.
package render

import (
	"image/color"

	"github.com/veloterm/veloterm/internal/atlas"
)

// CellInstance is one renderer-side draw instance, matching the Grid
// Renderer's wire layout.
type CellInstance struct {
	Col, Row   int
	AtlasUV    [4]float64 // u, v, w, h
	Fg, Bg     color.RGBA
	Flags      uint32
}

// ViewportCell is the subset of cell state the Grid Renderer needs to
// build an instance.
type ViewportCell struct {
	Char  rune
	Fg    color.RGBA
	Bg    color.RGBA
	Bold  bool
	Flags uint32 // cell.Flags, passed through and OR'd with has_glyph
}

const flagHasGlyph uint32 = 1

// BuildInstances extracts one CellInstance per viewport cell (cols*rows
// entries), looking up each glyph in the atlas (bold variant selected when
// the cell's Bold flag is set), encoding flags as has_glyph | cell.flags.
func BuildInstances(cells []ViewportCell, cols, rows int, at *atlas.Atlas) []CellInstance {
	out := make([]CellInstance, 0, cols*rows)
	for i, c := range cells {
		row := i / cols
		col := i % cols

		var uv [4]float64
		var hasGlyph uint32
		if c.Char != ' ' {
			if slot, ok := at.Lookup(c.Char, c.Bold); ok && slot.HasGlyph {
				uv = [4]float64{slot.UV.U, slot.UV.V, slot.UV.W, slot.UV.H}
				hasGlyph = flagHasGlyph
			}
		}

		out = append(out, CellInstance{
			Col: col, Row: row,
			AtlasUV: uv,
			Fg:      c.Fg,
			Bg:      c.Bg,
			Flags:   hasGlyph | c.Flags,
		})
	}
	return out
}

// InstanceWireSize is the per-instance byte size of the GPU-side instance
// buffer layout: col,row as int32 (4+4), AtlasUV as 4 float32 (16), Fg/Bg
// as packed RGBA8 (4+4), Flags as uint32 (4).
const InstanceWireSize = 36

// DirtyRowOffset returns the byte offset of row within a pane's instance
// buffer, for partial-damage writes.
func DirtyRowOffset(row, cols, instanceSize int) int {
	return row * cols * instanceSize
}

// NDCCellSize returns the normalized-device-coordinate size of one cell
// given the grid dimensions, for the renderer's cell-size uniform.
func NDCCellSize(cols, rows int) (w, h float64) {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	return 2.0 / float64(cols), 2.0 / float64(rows)
}
