// Package sfntrasterizer is the bundled CPU glyph rasterizer: it decodes
// embedded font bytes with golang.org/x/image/font/sfnt and produces
// grayscale coverage bitmaps via golang.org/x/image/vector's rasterizer.
package sfntrasterizer

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Rasterizer decodes one sfnt font (regular and an optional bold face)
// and rasterizes coverage bitmaps on demand.
type Rasterizer struct {
	regular *sfnt.Font
	bold    *sfnt.Font // nil falls back to the regular face
	buf     sfnt.Buffer
}

// New decodes regularBytes (required) and boldBytes (optional; pass nil to
// fall back to the regular face for bold glyph requests).
func New(regularBytes, boldBytes []byte) (*Rasterizer, error) {
	regular, err := sfnt.Parse(regularBytes)
	if err != nil {
		return nil, fmt.Errorf("sfntrasterizer: parse regular font: %w", err)
	}

	var bold *sfnt.Font
	if len(boldBytes) > 0 {
		bold, err = sfnt.Parse(boldBytes)
		if err != nil {
			return nil, fmt.Errorf("sfntrasterizer: parse bold font: %w", err)
		}
	}

	return &Rasterizer{regular: regular, bold: bold}, nil
}

func (r *Rasterizer) faceFont(bold bool) *sfnt.Font {
	if bold && r.bold != nil {
		return r.bold
	}
	return r.regular
}

// Advance returns the horizontal advance of r (in pixels) at pixelSize.
func (ra *Rasterizer) Advance(r rune, pixelSize float64) (float64, error) {
	f := ra.faceFont(false)
	ppem := fixed.Int26_6(pixelSize * 64)
	idx, err := f.GlyphIndex(&ra.buf, r)
	if err != nil {
		return 0, fmt.Errorf("sfntrasterizer: glyph index: %w", err)
	}
	adv, err := f.GlyphAdvance(&ra.buf, idx, ppem, font.HintingNone)
	if err != nil {
		return 0, fmt.Errorf("sfntrasterizer: glyph advance: %w", err)
	}
	return float64(adv) / 64, nil
}

// Rasterize produces a single-channel (R8) coverage bitmap for r at
// pixelSize in the regular or bold face.
func (ra *Rasterizer) Rasterize(r rune, pixelSize float64) (w, h, channels int, pix []byte, err error) {
	return ra.rasterize(r, pixelSize, false)
}

// RasterizeBold rasterizes r using the bold face, or the regular face when
// no distinct bold face was supplied; no synthetic emboldening is applied.
func (ra *Rasterizer) RasterizeBold(r rune, pixelSize float64) (w, h, channels int, pix []byte, err error) {
	return ra.rasterize(r, pixelSize, true)
}

func (ra *Rasterizer) rasterize(r rune, pixelSize float64, bold bool) (int, int, int, []byte, error) {
	f := ra.faceFont(bold)
	ppem := fixed.Int26_6(pixelSize * 64)

	idx, err := f.GlyphIndex(&ra.buf, r)
	if err != nil {
		return 0, 0, 1, nil, fmt.Errorf("sfntrasterizer: glyph index: %w", err)
	}
	if idx == 0 {
		// Glyph not present in this face; caller treats as absent (space).
		return 0, 0, 1, nil, nil
	}

	segments, err := f.LoadGlyph(&ra.buf, idx, ppem, nil)
	if err != nil {
		return 0, 0, 1, nil, fmt.Errorf("sfntrasterizer: load glyph: %w", err)
	}

	bounds, _ := f.Bounds(&ra.buf, ppem, font.HintingNone)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return 0, 0, 1, nil, nil
	}

	pix := rasterizeSegments(segments, bounds.Min, w, h)
	return w, h, 1, pix, nil
}

// rasterizeSegments scan-converts sfnt glyph segments into an alpha-only
// coverage bitmap, offsetting by the glyph's bounding-box origin.
func rasterizeSegments(segments []sfnt.Segment, origin fixed.Point26_6, w, h int) []byte {
	z := vector.NewRasterizer(w, h)
	toPt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X-origin.X) / 64, float32(p.Y-origin.Y) / 64
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := toPt(seg.Args[0])
			z.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := toPt(seg.Args[0])
			z.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			x0, y0 := toPt(seg.Args[0])
			x1, y1 := toPt(seg.Args[1])
			z.QuadTo(x0, y0, x1, y1)
		case sfnt.SegmentOpCubeTo:
			x0, y0 := toPt(seg.Args[0])
			x1, y1 := toPt(seg.Args[1])
			x2, y2 := toPt(seg.Args[2])
			z.CubeTo(x0, y0, x1, y1, x2, y2)
		}
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst.Pix
}
