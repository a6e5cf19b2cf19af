package pipeline

import (
	"context"
	"time"

	"github.com/qrforge/qrforge/pkg/observability"
	"github.com/qrforge/qrforge/pkg/qr"
)

// encode produces the QR symbol for the payload. This is the only stage
// before the write whose failure reaches the caller: an oversized payload or
// a broken encoder means there is no symbol to rasterize.
func (r *Runner) encode(ctx context.Context, opts Options) (*qr.Symbol, time.Duration, error) {
	observability.Pipeline().OnEncodeStart(ctx, len(opts.Data))
	start := time.Now()

	sym, err := qr.Encode(opts.Data)

	elapsed := time.Since(start)
	if err != nil {
		observability.Pipeline().OnEncodeComplete(ctx, 0, 0, elapsed, err)
		return nil, elapsed, err
	}
	observability.Pipeline().OnEncodeComplete(ctx, sym.Version, sym.Matrix.Side(), elapsed, nil)

	opts.Logger.Debug("encoded symbol",
		"version", sym.Version,
		"side", sym.Matrix.Side(),
		"duration", elapsed)

	return sym, elapsed, nil
}
