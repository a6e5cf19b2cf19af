package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/qrforge/qrforge/pkg/observability"
	"github.com/qrforge/qrforge/pkg/qr"
	"github.com/qrforge/qrforge/pkg/render"
)

// render rasterizes the matrix. The renderer cannot fail: a styled path that
// breaks degrades to the plain square rendering, which is only worth a debug
// line here.
func (r *Runner) render(ctx context.Context, m qr.Matrix, opts Options) (image.Image, bool, time.Duration) {
	side := render.ImageSide(m.Side(), opts.Border, opts.BoxSize)
	observability.Pipeline().OnRenderStart(ctx, opts.Style, side)
	start := time.Now()

	img, styled := render.Render(m, opts.RenderOptions())

	elapsed := time.Since(start)
	observability.Pipeline().OnRenderComplete(ctx, opts.Style, styled, elapsed)

	if !styled && opts.Style != DefaultStyle {
		opts.Logger.Debug("styled rendering degraded to plain squares", "style", opts.Style)
	}
	opts.Logger.Debug("rendered image",
		"style", opts.Style,
		"side", img.Bounds().Dx(),
		"duration", elapsed)

	return img, styled, elapsed
}
