package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/qrforge/qrforge/pkg/qr"
)

// Style selects the module drawing shape. The set is closed; values outside
// it render as StyleSquare.
type Style string

const (
	StyleSquare  Style = "square"  // plain filled squares, the guaranteed path
	StyleGapped  Style = "gapped"  // squares with an inset margin
	StyleCircle  Style = "circle"  // inscribed circles
	StyleRounded Style = "rounded" // rounded-corner squares
	StyleVBars   Style = "vbars"   // vertical bars merging adjacent modules
	StyleHBars   Style = "hbars"   // horizontal bars merging adjacent modules
)

// DefaultStyle is the module shape used when none is requested.
const DefaultStyle = StyleSquare

// Styles lists the supported style names in display order.
func Styles() []string {
	return []string{
		string(StyleSquare),
		string(StyleGapped),
		string(StyleCircle),
		string(StyleRounded),
		string(StyleVBars),
		string(StyleHBars),
	}
}

// ParseStyle maps a style name to a Style. Unknown names map to StyleSquare
// silently: styling is best-effort and never a reason to reject a request.
func ParseStyle(s string) Style {
	switch Style(s) {
	case StyleSquare, StyleGapped, StyleCircle, StyleRounded, StyleVBars, StyleHBars:
		return Style(s)
	}
	return StyleSquare
}

// Options describes one rendering pass.
type Options struct {
	BoxSize int         // pixel edge length of one module, > 0
	Border  int         // quiet-zone width in module units, >= 0
	Fill    color.Color // dark modules; nil means black
	Back    color.Color // background; nil means white
	Style   Style       // module shape; zero value renders plain squares
}

// normalize clamps option values so rendering cannot fail on them.
// Validation with real errors belongs to the pipeline options layer.
func (o Options) normalize() Options {
	if o.BoxSize < 1 {
		o.BoxSize = 1
	}
	if o.Border < 0 {
		o.Border = 0
	}
	if o.Fill == nil {
		o.Fill = DefaultFill
	}
	if o.Back == nil {
		o.Back = DefaultBack
	}
	return o
}

// ImageSide returns the pixel side length of the rendered image for a
// matrix of the given module side.
func ImageSide(matrixSide, border, boxSize int) int {
	return (matrixSide + 2*border) * boxSize
}

// Render rasterizes the matrix with the requested style. It never returns
// an error: any failure of the styled path degrades to the plain square
// rendering of the same matrix, so a scannable symbol is always produced.
// The returned boolean reports whether the styled path was used; callers
// that only need the image can ignore it.
func Render(m qr.Matrix, opts Options) (image.Image, bool) {
	opts = opts.normalize()

	if opts.Style == StyleSquare || opts.Style == "" {
		return renderPlain(m, opts), false
	}

	img, err := renderStyled(m, opts)
	if err != nil {
		return renderPlain(m, opts), false
	}
	return img, true
}

// renderPlain is the guaranteed rasterization path: standard library only,
// each dark module one filled square. Styled rendering falls back here.
func renderPlain(m qr.Matrix, opts Options) *image.RGBA {
	side := ImageSide(m.Side(), opts.Border, opts.BoxSize)
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Back), image.Point{}, draw.Src)

	fill := image.NewUniform(opts.Fill)
	for y := 0; y < m.Side(); y++ {
		for x := 0; x < m.Side(); x++ {
			if !m.Dark(x, y) {
				continue
			}
			px := (x + opts.Border) * opts.BoxSize
			py := (y + opts.Border) * opts.BoxSize
			cell := image.Rect(px, py, px+opts.BoxSize, py+opts.BoxSize)
			draw.Draw(img, cell, fill, image.Point{}, draw.Src)
		}
	}
	return img
}

// renderStyled draws the matrix with the shape strategy registered for the
// style. The drawing layer is treated as untrusted: panics are recovered and
// reported as errors so the caller can fall back.
func renderStyled(m qr.Matrix, opts Options) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("styled rendering panicked: %v", r)
		}
	}()

	drawer, ok := drawers[opts.Style]
	if !ok {
		return nil, fmt.Errorf("no drawer for style %q", opts.Style)
	}

	side := ImageSide(m.Side(), opts.Border, opts.BoxSize)
	dc := gg.NewContext(side, side)
	dc.SetColor(opts.Back)
	dc.Clear()
	dc.SetColor(opts.Fill)

	drawer.drawModules(dc, m, geometry{
		box:    float64(opts.BoxSize),
		border: opts.Border,
	})

	return dc.Image(), nil
}
