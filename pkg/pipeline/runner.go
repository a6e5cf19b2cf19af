package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // register PNG decoding for cache-hit header reads
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qrforge/qrforge/pkg/cache"
	"github.com/qrforge/qrforge/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Client fetches remote logos. Nil uses the httputil default.
	Client *http.Client
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Generate runs the complete pipeline and writes the PNG to opts.Output.
// The image is fully composed in memory before the destination is touched,
// so a failed run never leaves a partial file behind.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	result, err := r.Compose(ctx, opts)
	if err != nil {
		return nil, err
	}

	writeTime, err := r.write(ctx, opts.Output, result.PNG)
	if err != nil {
		return nil, err
	}
	result.Path = opts.Output
	result.Stats.WriteTime = writeTime

	return result, nil
}

// Compose runs encode → render → composite and returns the finished PNG
// without writing it anywhere.
func (r *Runner) Compose(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	// The logo source participates in the cache key by content hash, so a
	// changed logo file invalidates the entry. An unloadable logo hashes
	// empty and the run degrades to the no-logo image, which then correctly
	// shares the no-logo cache entry.
	logoData, logoHash := r.loadLogo(ctx, &opts)

	result := &Result{}
	result.CacheInfo.Key = r.Keyer.ImageKey(opts.ImageKeyOpts(logoHash))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, result.CacheInfo.Key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "image")
			result.PNG = data
			result.CacheInfo.Hit = true
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
				result.Stats.ImageSide = cfg.Width
			}
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "image")
	}

	// Stage 1: Encode
	sym, encodeTime, err := r.encode(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.Version = sym.Version
	result.Stats.MatrixSide = sym.Matrix.Side()
	result.Stats.EncodeTime = encodeTime

	// Stage 2: Render
	img, styled, renderTime := r.render(ctx, sym.Matrix, opts)
	result.Stats.ImageSide = img.Bounds().Dx()
	result.Stats.Styled = styled
	result.Stats.RenderTime = renderTime

	// Stage 3: Composite
	if opts.Logo != "" {
		var applied bool
		var compositeTime time.Duration
		img, applied, compositeTime = r.composite(ctx, img, logoData, opts)
		result.Stats.LogoApplied = applied
		result.Stats.CompositeTime = compositeTime
	}

	png, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	result.PNG = png

	_ = r.Cache.Set(ctx, result.CacheInfo.Key, png, cache.DefaultImageTTL)
	observability.Cache().OnCacheSet(ctx, "image", len(png))

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
