// Package logo loads and composites a center logo onto a rendered symbol.
//
// Overlaying is strictly best-effort: [Overlay] never fails, and callers are
// expected to treat [Load] errors as a reason to skip the logo rather than
// abort. The base symbol always survives.
package logo

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/qrforge/qrforge/pkg/errors"
	"github.com/qrforge/qrforge/pkg/httputil"
)

// Size bounds as a percentage of the base image width. The clamp keeps the
// covered center area within what medium error correction absorbs in
// practice; it is a heuristic bound, not a scannability guarantee.
const (
	MinSizePercent     = 5
	MaxSizePercent     = 40
	DefaultSizePercent = 20
)

// ClampSize normalizes a requested size percentage. Zero selects
// DefaultSizePercent; values outside [MinSizePercent, MaxSizePercent] are
// clamped, never rejected.
func ClampSize(pct int) int {
	if pct == 0 {
		pct = DefaultSizePercent
	}
	return min(max(pct, MinSizePercent), MaxSizePercent)
}

// Load reads and decodes a logo image. Source is a local file path or an
// http(s) URL. A nil client uses the httputil default.
func Load(ctx context.Context, client *http.Client, source string) (image.Image, error) {
	data, err := Fetch(ctx, client, source)
	if err != nil {
		return nil, err
	}
	return Decode(data, source)
}

// Fetch returns the raw bytes of a logo source without decoding them.
// Callers that cache or content-hash the logo use this and decode separately.
func Fetch(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if IsRemote(source) {
		data, err := httputil.FetchBytes(ctx, client, source)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch logo %q", source)
		}
		return data, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "logo file %q", source)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "logo %q is not a regular file", source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read logo %q", source)
	}
	return data, nil
}

// Decode decodes fetched logo bytes. source only labels the error.
func Decode(data []byte, source string) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode logo %q", source)
	}
	return img, nil
}

// IsRemote reports whether source names an http(s) URL rather than a file.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Overlay composites the logo centered on base, scaled to sizePercent of the
// base width with the logo's aspect ratio preserved. Resampling uses Lanczos
// so small logos stay crisp, and the logo's own alpha channel is the blend
// mask. Overlay never fails: any problem returns base unchanged with
// applied = false.
func Overlay(base, logo image.Image, sizePercent int) (out image.Image, applied bool) {
	defer func() {
		if recover() != nil {
			out, applied = base, false
		}
	}()

	if base == nil || logo == nil {
		return base, false
	}

	baseW, baseH := base.Bounds().Dx(), base.Bounds().Dy()
	logoW, logoH := logo.Bounds().Dx(), logo.Bounds().Dy()
	if baseW < 1 || baseH < 1 || logoW < 1 || logoH < 1 {
		return base, false
	}

	targetW := max(baseW*ClampSize(sizePercent)/100, 1)
	targetH := max(logoH*targetW/logoW, 1)

	resized := imaging.Resize(logo, targetW, targetH, imaging.Lanczos)
	offset := image.Pt((baseW-targetW)/2, (baseH-targetH)/2)
	return imaging.Overlay(base, resized, offset, 1.0), true
}
