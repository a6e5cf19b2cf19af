package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/qrforge/qrforge/pkg/errors"
	"github.com/qrforge/qrforge/pkg/observability"
)

// encodePNG losslessly encodes the finished image.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode PNG")
	}
	return buf.Bytes(), nil
}

// write persists the PNG bytes to path. This is the pipeline's only side
// effect and one of the two failures that surface to the caller.
func (r *Runner) write(ctx context.Context, path string, data []byte) (time.Duration, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return 0, err
	}

	observability.Pipeline().OnWriteStart(ctx, path)
	start := time.Now()

	err := os.WriteFile(path, data, 0644)

	elapsed := time.Since(start)
	observability.Pipeline().OnWriteComplete(ctx, path, len(data), elapsed, err)

	if err != nil {
		return elapsed, errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	return elapsed, nil
}
