package render

import (
	"image/color"
	"testing"

	"github.com/veloterm/veloterm/internal/atlas"
)

type fakeRasterizer struct{}

func (fakeRasterizer) Advance(r rune, pixelSize float64) (float64, error) { return 8, nil }
func (fakeRasterizer) Rasterize(r rune, pixelSize float64) (int, int, int, []byte, error) {
	if r == ' ' {
		return 0, 0, 1, nil, nil
	}
	return 4, 8, 1, make([]byte, 32), nil
}

func buildTestAtlas(t *testing.T) *atlas.Atlas {
	t.Helper()
	runes := []rune{' ', 'A', 'B'}
	m, err := atlas.ComputeMetrics(fakeRasterizer{}, 16, 1.2, len(runes))
	if err != nil {
		t.Fatalf("ComputeMetrics() error = %v", err)
	}
	a, err := atlas.Build(fakeRasterizer{}, runes, m, 16)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return a
}

func TestBuildInstancesCountMatchesColsTimesRows(t *testing.T) {
	at := buildTestAtlas(t)
	cells := make([]ViewportCell, 6)
	for i := range cells {
		cells[i] = ViewportCell{Char: 'A', Fg: color.RGBA{R: 255, A: 255}}
	}
	instances := BuildInstances(cells, 3, 2, at)
	if len(instances) != 6 {
		t.Errorf("len(instances) = %d, want 6", len(instances))
	}
}

func TestBuildInstancesPositionsAreUniqueWithinFrame(t *testing.T) {
	at := buildTestAtlas(t)
	cells := make([]ViewportCell, 12)
	for i := range cells {
		cells[i] = ViewportCell{Char: 'A'}
	}
	instances := BuildInstances(cells, 4, 3, at)

	seen := make(map[[2]int]bool)
	for _, inst := range instances {
		key := [2]int{inst.Col, inst.Row}
		if seen[key] {
			t.Fatalf("duplicate instance position %v", key)
		}
		seen[key] = true
		if inst.Col < 0 || inst.Col >= 4 || inst.Row < 0 || inst.Row >= 3 {
			t.Errorf("instance position %v out of bounds", key)
		}
	}
}

func TestBuildInstancesSpaceHasNoGlyphFlag(t *testing.T) {
	at := buildTestAtlas(t)
	cells := []ViewportCell{{Char: ' '}}
	instances := BuildInstances(cells, 1, 1, at)
	if instances[0].Flags&flagHasGlyph != 0 {
		t.Error("space cell should not set has_glyph flag")
	}
}

func TestBuildInstancesNonSpaceSetsGlyphFlag(t *testing.T) {
	at := buildTestAtlas(t)
	cells := []ViewportCell{{Char: 'A'}}
	instances := BuildInstances(cells, 1, 1, at)
	if instances[0].Flags&flagHasGlyph == 0 {
		t.Error("non-space cell with atlas entry should set has_glyph flag")
	}
}

func TestNDCCellSize(t *testing.T) {
	w, h := NDCCellSize(80, 24)
	if w != 2.0/80 || h != 2.0/24 {
		t.Errorf("NDCCellSize() = (%v, %v), want (%v, %v)", w, h, 2.0/80, 2.0/24)
	}
}

func TestDirtyRowOffset(t *testing.T) {
	if got := DirtyRowOffset(3, 80, 32); got != 3*80*32 {
		t.Errorf("DirtyRowOffset() = %d, want %d", got, 3*80*32)
	}
}
