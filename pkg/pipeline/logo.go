package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/qrforge/qrforge/pkg/cache"
	"github.com/qrforge/qrforge/pkg/logo"
	"github.com/qrforge/qrforge/pkg/observability"
)

// loadLogo fetches the logo source bytes and their content hash. Everything
// here is best-effort: any failure returns no bytes and an empty hash, which
// downgrades the run to a plain no-logo render.
//
// Remote sources go through the cache under an HTTP key so repeated renders
// against the same URL do not refetch it.
func (r *Runner) loadLogo(ctx context.Context, opts *Options) ([]byte, string) {
	if opts.Logo == "" {
		return nil, ""
	}

	if logo.IsRemote(opts.Logo) {
		key := r.Keyer.HTTPKey("logo", opts.Logo)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "logo")
				return data, cache.Hash(data)
			}
			observability.Cache().OnCacheMiss(ctx, "logo")
		}

		data, err := logo.Fetch(ctx, r.Client, opts.Logo)
		if err != nil {
			opts.Logger.Debug("logo fetch failed, rendering without logo",
				"source", opts.Logo, "err", err)
			return nil, ""
		}
		_ = r.Cache.Set(ctx, key, data, cache.DefaultLogoTTL)
		observability.Cache().OnCacheSet(ctx, "logo", len(data))
		return data, cache.Hash(data)
	}

	data, err := logo.Fetch(ctx, nil, opts.Logo)
	if err != nil {
		opts.Logger.Debug("logo unavailable, rendering without logo",
			"source", opts.Logo, "err", err)
		return nil, ""
	}
	return data, cache.Hash(data)
}

// composite overlays the logo on the rendered symbol. Decode and overlay
// failures skip the logo; the base image always survives.
func (r *Runner) composite(ctx context.Context, base image.Image, logoData []byte, opts Options) (image.Image, bool, time.Duration) {
	observability.Pipeline().OnCompositeStart(ctx, opts.Logo)
	start := time.Now()

	applied := false
	out := base
	if len(logoData) > 0 {
		if lg, err := logo.Decode(logoData, opts.Logo); err != nil {
			opts.Logger.Debug("logo decode failed, rendering without logo",
				"source", opts.Logo, "err", err)
		} else {
			out, applied = logo.Overlay(base, lg, opts.LogoSize)
		}
	}

	elapsed := time.Since(start)
	observability.Pipeline().OnCompositeComplete(ctx, applied, elapsed)

	opts.Logger.Debug("composited logo",
		"source", opts.Logo,
		"applied", applied,
		"duration", elapsed)

	return out, applied, elapsed
}
