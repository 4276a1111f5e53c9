package tab

import "github.com/veloterm/veloterm/internal/geometry"

const (
	BarHeightPx          = 32
	MinTabWidthPx        = 80
	MaxTabWidthPx        = 240
	NewTabButtonWidthPx  = 32
	CloseButtonWidthPx   = 20
)

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TabWidth returns the width allotted to each of count tabs within a bar
// of windowW pixels, reserving room for the new-tab button.
func TabWidth(windowW float64, count int) float64 {
	if count <= 0 {
		return MaxTabWidthPx
	}
	available := windowW - NewTabButtonWidthPx
	return clamp(available/float64(count), MinTabWidthPx, MaxTabWidthPx)
}

// HitKind identifies what a tab-bar hit-test landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitSelectTab
	HitCloseTab
	HitNewTab
)

// Hit is the result of a tab-bar hit-test.
type Hit struct {
	Kind  HitKind
	Index int
}

// HitTest locates (x, y) within the tab bar. count is the tab count,
// activeIndex and hoveredIndex (-1 if none) determine whether the
// close-button region is active for a given tab: always on the active
// tab, only when hovered for inactive tabs.
func HitTest(windowW float64, count, activeIndex, hoveredIndex int, x, y float64) Hit {
	if y < 0 || y >= BarHeightPx {
		return Hit{Kind: HitNone}
	}

	tabW := TabWidth(windowW, count)
	available := windowW - NewTabButtonWidthPx

	if x >= available {
		return Hit{Kind: HitNewTab}
	}

	idx := int(x / tabW)
	if idx < 0 || idx >= count {
		return Hit{Kind: HitNone}
	}

	tabRect := geometry.Rect{X: float64(idx) * tabW, Y: 0, W: tabW, H: BarHeightPx}
	closeActive := idx == activeIndex || idx == hoveredIndex
	if closeActive {
		closeRect := geometry.Rect{X: tabRect.X + tabRect.W - CloseButtonWidthPx, Y: 0, W: CloseButtonWidthPx, H: BarHeightPx}
		if closeRect.ContainsPoint(x, y) {
			return Hit{Kind: HitCloseTab, Index: idx}
		}
	}

	return Hit{Kind: HitSelectTab, Index: idx}
}
