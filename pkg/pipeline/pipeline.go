// Package pipeline provides the core image synthesis pipeline for qrforge.
//
// This package implements the complete encode → render → composite → write
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Encode: Produce the QR module matrix from the payload
//  2. Render: Rasterize the matrix with the requested module style
//  3. Composite: Overlay the optional center logo
//  4. Write: Persist the finished PNG to the destination path
//
// The pipeline is strictly linear: each stage's output is the next stage's
// sole input, there are no retries and no intermediate persisted state. Only
// encoding and writing can fail; styling and logo problems degrade silently
// so a scannable plain symbol is always produced (see pkg/render and
// pkg/logo).
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Data = "https://example.com"
//	opts.Output = "qr.png"
//	result, err := runner.Generate(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path)
//
// Compose skips the file write and returns the PNG bytes, which is what the
// HTTP API and stdout output use.
package pipeline

import (
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qrforge/qrforge/pkg/cache"
	"github.com/qrforge/qrforge/pkg/errors"
	"github.com/qrforge/qrforge/pkg/logo"
	"github.com/qrforge/qrforge/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultBoxSize is the pixel edge length of one module.
	DefaultBoxSize = 10

	// DefaultBorder is the quiet-zone width in module units. Four modules is
	// the minimum the QR specification asks scanners to expect.
	DefaultBorder = 4

	// DefaultFill is the dark module color.
	DefaultFill = "black"

	// DefaultBack is the background color.
	DefaultBack = "white"

	// DefaultLogoSize is the logo width as a percentage of the image width.
	DefaultLogoSize = logo.DefaultSizePercent
)

// DefaultStyle is the default module shape.
const DefaultStyle = string(render.DefaultStyle)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one render job.
// This struct supports JSON serialization for API requests. Use
// [DefaultOptions] as the starting point so omitted fields keep their
// defaults; a zero Border is valid and means no quiet zone.
type Options struct {
	// Data is the payload to encode, already normalized by the caller.
	Data string `json:"data"`

	// Output is the destination file path. Only Generate uses it.
	Output string `json:"output,omitempty"`

	BoxSize  int    `json:"box_size,omitempty"`
	Border   int    `json:"border"`
	Fill     string `json:"fill,omitempty"`
	Back     string `json:"back,omitempty"`
	Style    string `json:"style,omitempty"`
	Logo     string `json:"logo,omitempty"`      // local path or http(s) URL
	LogoSize int    `json:"logo_size,omitempty"` // percent of image width, clamped [5,40]
	Refresh  bool   `json:"refresh,omitempty"`   // bypass the cache read

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Parsed colors, populated by ValidateAndSetDefaults.
	fill color.Color
	back color.Color

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns Options with every styling field at its default.
func DefaultOptions() Options {
	return Options{
		BoxSize:  DefaultBoxSize,
		Border:   DefaultBorder,
		Fill:     DefaultFill,
		Back:     DefaultBack,
		Style:    DefaultStyle,
		LogoSize: DefaultLogoSize,
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if err := errors.ValidateData(o.Data); err != nil {
		return err
	}
	if err := errors.ValidateBoxSize(o.BoxSize); err != nil {
		return err
	}
	if err := errors.ValidateBorder(o.Border); err != nil {
		return err
	}

	if o.BoxSize == 0 {
		o.BoxSize = DefaultBoxSize
	}
	if o.Fill == "" {
		o.Fill = DefaultFill
	}
	if o.Back == "" {
		o.Back = DefaultBack
	}
	if o.LogoSize == 0 {
		o.LogoSize = DefaultLogoSize
	}

	// Unknown style names fall back to square here already, so the cache key
	// and the renderer agree on what is actually drawn.
	o.Style = string(render.ParseStyle(o.Style))

	fill, err := render.ParseColor(o.Fill)
	if err != nil {
		return err
	}
	back, err := render.ParseColor(o.Back)
	if err != nil {
		return err
	}
	o.fill, o.back = fill, back

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// RenderOptions converts the validated options into renderer options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		BoxSize: o.BoxSize,
		Border:  o.Border,
		Fill:    o.fill,
		Back:    o.back,
		Style:   render.Style(o.Style),
	}
}

// ImageKeyOpts returns cache key options for the finished image. logoHash is
// the content hash of the logo source bytes, empty when no logo applies.
func (o *Options) ImageKeyOpts(logoHash string) cache.ImageKeyOpts {
	opts := cache.ImageKeyOpts{
		Data:    o.Data,
		BoxSize: o.BoxSize,
		Border:  o.Border,
		Fill:    o.Fill,
		Back:    o.Back,
		Style:   o.Style,
	}
	if logoHash != "" {
		opts.LogoHash = logoHash
		opts.LogoSize = logo.ClampSize(o.LogoSize)
	}
	return opts
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Path is the written file path. Empty for Compose.
	Path string

	// PNG is the finished image, losslessly encoded.
	PNG []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the image came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. On a cache hit only
// ImageSide is populated (from the PNG header); the other fields describe
// work that did not happen.
type Stats struct {
	Version     int // auto-selected QR version (1..40)
	MatrixSide  int // modules per edge, without quiet zone
	ImageSide   int // pixels per edge
	Styled      bool
	LogoApplied bool

	EncodeTime    time.Duration
	RenderTime    time.Duration
	CompositeTime time.Duration
	WriteTime     time.Duration
}

// CacheInfo tracks the cache interaction of a run.
type CacheInfo struct {
	Hit bool   // whether the PNG came from cache
	Key string // the image cache key used
}
