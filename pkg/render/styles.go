package render

import (
	"github.com/fogleman/gg"

	"github.com/qrforge/qrforge/pkg/qr"
)

// Shape ratios relative to the module box. The insets keep a dark module's
// effective footprint large enough to stay scannable.
const (
	gapInsetRatio     = 0.1  // gapped: margin on each side (module fills 80%)
	cornerRadiusRatio = 0.35 // rounded: corner radius
	barWidthRatio     = 0.8  // vbars/hbars: bar thickness across the run axis
)

// geometry maps module coordinates to pixel space.
type geometry struct {
	box    float64 // pixel edge length of one module
	border int     // quiet-zone width in module units
}

// origin returns the top-left pixel of the cell at module (x, y).
func (g geometry) origin(x, y int) (float64, float64) {
	return float64(x+g.border) * g.box, float64(y+g.border) * g.box
}

// moduleDrawer renders all dark modules of a matrix onto a drawing context.
// The context arrives with the background cleared and the fill color set;
// implementations only contribute shapes.
type moduleDrawer interface {
	drawModules(dc *gg.Context, m qr.Matrix, g geometry)
}

// drawers maps each styled shape to its strategy. StyleSquare is absent by
// design: the plain path in render.go is the one fallback implementation
// that is always available.
var drawers = map[Style]moduleDrawer{
	StyleGapped:  gappedDrawer{},
	StyleCircle:  circleDrawer{},
	StyleRounded: roundedDrawer{},
	StyleVBars:   barsDrawer{vertical: true},
	StyleHBars:   barsDrawer{vertical: false},
}

// gappedDrawer draws each dark module as a square inset on all sides,
// leaving a visible gap between adjacent modules.
type gappedDrawer struct{}

func (gappedDrawer) drawModules(dc *gg.Context, m qr.Matrix, g geometry) {
	inset := g.box * gapInsetRatio
	for y := 0; y < m.Side(); y++ {
		for x := 0; x < m.Side(); x++ {
			if !m.Dark(x, y) {
				continue
			}
			px, py := g.origin(x, y)
			dc.DrawRectangle(px+inset, py+inset, g.box-2*inset, g.box-2*inset)
			dc.Fill()
		}
	}
}

// circleDrawer draws each dark module as a circle inscribed in its cell.
type circleDrawer struct{}

func (circleDrawer) drawModules(dc *gg.Context, m qr.Matrix, g geometry) {
	r := g.box / 2
	for y := 0; y < m.Side(); y++ {
		for x := 0; x < m.Side(); x++ {
			if !m.Dark(x, y) {
				continue
			}
			px, py := g.origin(x, y)
			dc.DrawCircle(px+r, py+r, r)
			dc.Fill()
		}
	}
}

// roundedDrawer draws each dark module as a square with rounded corners.
type roundedDrawer struct{}

func (roundedDrawer) drawModules(dc *gg.Context, m qr.Matrix, g geometry) {
	radius := g.box * cornerRadiusRatio
	for y := 0; y < m.Side(); y++ {
		for x := 0; x < m.Side(); x++ {
			if !m.Dark(x, y) {
				continue
			}
			px, py := g.origin(x, y)
			dc.DrawRoundedRectangle(px, py, g.box, g.box, radius)
			dc.Fill()
		}
	}
}

// barsDrawer merges maximal runs of adjacent dark modules along one axis
// into continuous bars with half-circle caps. Isolated modules become a
// single capped bar one module long.
type barsDrawer struct {
	vertical bool
}

func (d barsDrawer) drawModules(dc *gg.Context, m qr.Matrix, g geometry) {
	side := m.Side()
	thickness := g.box * barWidthRatio
	inset := (g.box - thickness) / 2
	// Cap radius equals half the bar thickness, giving exact half-circle ends.
	radius := thickness / 2

	for lane := 0; lane < side; lane++ {
		for pos := 0; pos < side; {
			if !d.dark(m, lane, pos) {
				pos++
				continue
			}
			run := 1
			for pos+run < side && d.dark(m, lane, pos+run) {
				run++
			}

			length := float64(run) * g.box
			if d.vertical {
				px, py := g.origin(lane, pos)
				dc.DrawRoundedRectangle(px+inset, py, thickness, length, radius)
			} else {
				px, py := g.origin(pos, lane)
				dc.DrawRoundedRectangle(px, py+inset, length, thickness, radius)
			}
			dc.Fill()

			pos += run
		}
	}
}

// dark resolves (lane, pos) to matrix coordinates for the drawer's axis.
func (d barsDrawer) dark(m qr.Matrix, lane, pos int) bool {
	if d.vertical {
		return m.Dark(lane, pos)
	}
	return m.Dark(pos, lane)
}
