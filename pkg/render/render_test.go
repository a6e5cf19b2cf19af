package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"

	"github.com/qrforge/qrforge/pkg/qr"
)

// rgbaAt returns the pixel at (x, y) as 8-bit RGBA.
func rgbaAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// samePixels reports whether two images have identical bounds and pixels.
func samePixels(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			ar, ag, ab, aa := a.At(x, y).RGBA()
			br, bg, bb, ba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				return false
			}
		}
	}
	return true
}

func mustEncode(t *testing.T, data string) qr.Matrix {
	t.Helper()
	sym, err := qr.Encode(data)
	if err != nil {
		t.Fatalf("encode %q: %v", data, err)
	}
	return sym.Matrix
}

func TestRenderDimensions(t *testing.T) {
	m := mustEncode(t, "https://example.com")

	tests := []struct {
		name    string
		boxSize int
		border  int
	}{
		{"defaults", 10, 4},
		{"no border", 10, 0},
		{"small box", 1, 4},
		{"large", 20, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, _ := Render(m, Options{BoxSize: tt.boxSize, Border: tt.border})
			want := (m.Side() + 2*tt.border) * tt.boxSize
			if img.Bounds().Dx() != want || img.Bounds().Dy() != want {
				t.Errorf("dimensions = %dx%d, want %dx%d",
					img.Bounds().Dx(), img.Bounds().Dy(), want, want)
			}
		})
	}
}

func TestRenderAllStylesSameDimensions(t *testing.T) {
	m := mustEncode(t, "example.com")

	for _, name := range Styles() {
		t.Run(name, func(t *testing.T) {
			img, _ := Render(m, Options{BoxSize: 10, Border: 4, Style: Style(name)})
			want := ImageSide(m.Side(), 4, 10)
			if img.Bounds().Dx() != want || img.Bounds().Dy() != want {
				t.Errorf("%s: dimensions = %dx%d, want %dx%d",
					name, img.Bounds().Dx(), img.Bounds().Dy(), want, want)
			}
		})
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		input string
		want  Style
	}{
		{"square", StyleSquare},
		{"gapped", StyleGapped},
		{"circle", StyleCircle},
		{"rounded", StyleRounded},
		{"vbars", StyleVBars},
		{"hbars", StyleHBars},
		{"", StyleSquare},
		{"sparkle", StyleSquare},
		{"CIRCLE", StyleSquare}, // case-sensitive, like the closed set
	}

	for _, tt := range tests {
		if got := ParseStyle(tt.input); got != tt.want {
			t.Errorf("ParseStyle(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRenderUnknownStyleFallsBack(t *testing.T) {
	m := mustEncode(t, "fallback.example")

	plain, styled := Render(m, Options{BoxSize: 10, Border: 4, Style: StyleSquare})
	if styled {
		t.Error("square must report the plain path")
	}

	unknown, styled := Render(m, Options{BoxSize: 10, Border: 4, Style: Style("sparkle")})
	if styled {
		t.Error("unknown style must degrade to the plain path")
	}

	if !samePixels(plain, unknown) {
		t.Error("unknown style must render pixel-identical to square")
	}
}

// panicDrawer simulates a failing styled pathway.
type panicDrawer struct{}

func (panicDrawer) drawModules(*gg.Context, qr.Matrix, geometry) {
	panic("drawing layer unavailable")
}

func TestRenderStyledFailureFallsBack(t *testing.T) {
	const broken = Style("broken")
	drawers[broken] = panicDrawer{}
	defer delete(drawers, broken)

	m := mustEncode(t, "example.com")
	opts := Options{BoxSize: 10, Border: 4}

	plain, _ := Render(m, opts)

	opts.Style = broken
	img, styled := Render(m, opts)
	if styled {
		t.Error("failed styled path must not report success")
	}
	if !samePixels(plain, img) {
		t.Error("styled failure must produce the exact plain square rendering")
	}
}

func TestRenderDeterministic(t *testing.T) {
	m := mustEncode(t, "https://example.com/deterministic")

	for _, name := range Styles() {
		t.Run(name, func(t *testing.T) {
			opts := Options{BoxSize: 10, Border: 4, Style: Style(name)}
			a, _ := Render(m, opts)
			b, _ := Render(m, opts)
			if !samePixels(a, b) {
				t.Errorf("%s: identical inputs must render pixel-identical images", name)
			}
		})
	}
}

func TestRenderPlainModules(t *testing.T) {
	m := mustEncode(t, "example.com")
	const box, border = 10, 4

	img, _ := Render(m, Options{BoxSize: box, Border: border})

	for y := 0; y < m.Side(); y++ {
		for x := 0; x < m.Side(); x++ {
			px := (x + border) * box
			py := (y + border) * box
			want := white
			if m.Dark(x, y) {
				want = black
			}
			// Plain squares fill the whole cell; corner and center agree.
			if got := rgbaAt(img, px, py); got != want {
				t.Fatalf("module (%d,%d) corner = %v, want %v", x, y, got, want)
			}
			if got := rgbaAt(img, px+box/2, py+box/2); got != want {
				t.Fatalf("module (%d,%d) center = %v, want %v", x, y, got, want)
			}
		}
	}

	// Quiet zone stays background.
	if got := rgbaAt(img, 0, 0); got != white {
		t.Errorf("quiet zone = %v, want white", got)
	}
}

func TestRenderCircleModules(t *testing.T) {
	m := mustEncode(t, "example.com")
	const box, border = 10, 4

	img, styled := Render(m, Options{BoxSize: box, Border: border, Style: StyleCircle})
	if !styled {
		t.Fatal("circle style should use the styled path")
	}

	for y := 0; y < m.Side(); y++ {
		for x := 0; x < m.Side(); x++ {
			px := (x + border) * box
			py := (y + border) * box
			center := rgbaAt(img, px+box/2, py+box/2)
			if m.Dark(x, y) {
				if center != black {
					t.Fatalf("dark module (%d,%d) center = %v, want black", x, y, center)
				}
				// An inscribed circle never reaches the cell corner.
				if corner := rgbaAt(img, px, py); corner != white {
					t.Fatalf("dark module (%d,%d) corner = %v, want white", x, y, corner)
				}
			} else if center != white {
				t.Fatalf("light module (%d,%d) center = %v, want white", x, y, center)
			}
		}
	}
}

func TestRenderGappedInset(t *testing.T) {
	m := qr.Matrix{
		{true},
	}

	img, styled := Render(m, Options{BoxSize: 10, Style: StyleGapped})
	if !styled {
		t.Fatal("gapped style should use the styled path")
	}

	if got := rgbaAt(img, 5, 5); got != black {
		t.Errorf("center = %v, want black", got)
	}
	// The inset margin leaves the cell edge unpainted.
	if got := rgbaAt(img, 0, 0); got != white {
		t.Errorf("corner = %v, want white", got)
	}
	if got := rgbaAt(img, 0, 5); got != white {
		t.Errorf("edge midpoint = %v, want white", got)
	}
}

func TestRenderRoundedModules(t *testing.T) {
	m := qr.Matrix{
		{true},
	}

	img, styled := Render(m, Options{BoxSize: 20, Style: StyleRounded})
	if !styled {
		t.Fatal("rounded style should use the styled path")
	}

	if got := rgbaAt(img, 10, 10); got != black {
		t.Errorf("center = %v, want black", got)
	}
	// Edge midpoints are on the straight sides, inside the shape.
	if got := rgbaAt(img, 10, 1); got != black {
		t.Errorf("top edge = %v, want black", got)
	}
	// Rounded corners leave the extreme corner pixel unpainted.
	if got := rgbaAt(img, 0, 0); got != white {
		t.Errorf("corner = %v, want white", got)
	}
}

func TestRenderVBarsMergeRuns(t *testing.T) {
	// Column 1 holds a two-module vertical run.
	m := qr.Matrix{
		{false, true, false},
		{false, true, false},
		{false, false, false},
	}

	img, styled := Render(m, Options{BoxSize: 10, Style: StyleVBars})
	if !styled {
		t.Fatal("vbars style should use the styled path")
	}

	// Bar spans x in [11,19) after the 10% inset.
	if got := rgbaAt(img, 15, 5); got != black {
		t.Errorf("bar interior = %v, want black", got)
	}
	// The seam row between the two modules is solid across the bar width:
	// near the bar's left edge only a merged bar paints here, separate
	// capped bars would leave it background.
	if got := rgbaAt(img, 11, 10); got != black {
		t.Errorf("seam near bar edge = %v, want black (runs must merge)", got)
	}
	// Outside the inset the lane stays background.
	if got := rgbaAt(img, 10, 10); got != white {
		t.Errorf("inset margin = %v, want white", got)
	}
	// Neighboring lanes stay background.
	if got := rgbaAt(img, 5, 5); got != white {
		t.Errorf("empty lane = %v, want white", got)
	}
}

func TestRenderHBarsMergeRuns(t *testing.T) {
	// Row 1 holds a two-module horizontal run.
	m := qr.Matrix{
		{false, false, false},
		{true, true, false},
		{false, false, false},
	}

	img, styled := Render(m, Options{BoxSize: 10, Style: StyleHBars})
	if !styled {
		t.Fatal("hbars style should use the styled path")
	}

	if got := rgbaAt(img, 5, 15); got != black {
		t.Errorf("bar interior = %v, want black", got)
	}
	if got := rgbaAt(img, 10, 11); got != black {
		t.Errorf("seam near bar edge = %v, want black (runs must merge)", got)
	}
	if got := rgbaAt(img, 10, 10); got != white {
		t.Errorf("inset margin = %v, want white", got)
	}
	if got := rgbaAt(img, 5, 5); got != white {
		t.Errorf("empty lane = %v, want white", got)
	}
}

func TestRenderNormalizesDegenerateOptions(t *testing.T) {
	m := qr.Matrix{{true}}

	img, _ := Render(m, Options{BoxSize: 0, Border: -3})
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("degenerate options should clamp to a 1x1 module, got %v", img.Bounds())
	}
}

func TestRenderCustomColors(t *testing.T) {
	m := qr.Matrix{
		{true, false},
		{false, false},
	}
	fill := color.RGBA{200, 16, 46, 255}
	back := color.RGBA{255, 250, 240, 255}

	img, _ := Render(m, Options{BoxSize: 10, Fill: fill, Back: back})

	if got := rgbaAt(img, 5, 5); got != fill {
		t.Errorf("dark module = %v, want %v", got, fill)
	}
	if got := rgbaAt(img, 15, 5); got != back {
		t.Errorf("light module = %v, want %v", got, back)
	}
}
