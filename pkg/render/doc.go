// Package render converts QR module matrices into styled raster images.
//
// # Overview
//
// The renderer never fails: [Render] always returns a usable image. Styled
// module shapes are drawn with [github.com/fogleman/gg], and any failure on
// that path — including panics — falls back to the plain square
// rasterization built on the standard image packages alone. Styling is a
// cosmetic layer; correctness of the encoded symbol is never sacrificed
// for it.
//
// # Geometry
//
// The output is square with pixel side
//
//	(matrixSide + 2*border) * boxSize
//
// where border is the quiet-zone width in module units and boxSize the pixel
// edge length of one module. Finder, alignment, and timing patterns are
// rendered with the same dark/light rule as data modules.
//
// # Styles
//
// The style set is closed: square, gapped, circle, rounded, vbars, hbars.
// [ParseStyle] maps anything else to square. The bar styles merge runs of
// adjacent dark modules along their axis into continuous capped bars instead
// of drawing isolated per-module shapes.
//
// # Colors
//
// [ParseColor] accepts CSS/SVG color names (case-insensitive, via
// [golang.org/x/image/colornames]) and #rgb/#rrggbb hex forms (via
// [github.com/lucasb-eyer/go-colorful]). Parsing happens at the options
// layer; [Render] itself takes concrete [image/color] values and cannot
// fail on them.
//
// Rendering is deterministic: identical inputs produce pixel-identical
// output.
package render
