// Package geometry holds the plain pixel-space types shared by pane layout,
// divider hit-testing, and the grid renderer.
package geometry

// Rect is an axis-aligned rectangle in physical pixels. Bounds are
// half-open on the right and bottom edges.
type Rect struct {
	X, Y, W, H float64
}

// ContainsPoint reports whether (x, y) falls within the rect, treating the
// right and bottom edges as exclusive.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the rect's midpoint.
func (r Rect) Center() (cx, cy float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Dimensions describes a pane's grid and pixel geometry, derived from a
// Rect by floor division against the cell size.
type Dimensions struct {
	Columns, Rows           int
	CellWidthPx, CellHeightPx int
	WindowW, WindowH        int
}

// DimensionsFromRect computes grid dimensions for a pane occupying bound,
// given a fixed cell size in pixels. Columns and Rows are always at least 1.
func DimensionsFromRect(bound Rect, cellW, cellH int) Dimensions {
	cols := 1
	rows := 1
	if cellW > 0 {
		if c := int(bound.W) / cellW; c > 1 {
			cols = c
		}
	}
	if cellH > 0 {
		if r := int(bound.H) / cellH; r > 1 {
			rows = r
		}
	}
	return Dimensions{
		Columns:      cols,
		Rows:         rows,
		CellWidthPx:  cellW,
		CellHeightPx: cellH,
		WindowW:      int(bound.W),
		WindowH:      int(bound.H),
	}
}
