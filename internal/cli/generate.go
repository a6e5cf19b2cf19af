package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qrforge/qrforge/pkg/pipeline"
	"github.com/qrforge/qrforge/pkg/render"
	"github.com/qrforge/qrforge/pkg/urlutil"
	"github.com/qrforge/qrforge/pkg/verify"
)

// generateCommand creates the generate command, the main entry point.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output      string
		noCache     bool
		verifyAfter bool
		interactive bool
		configPath  string
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "generate [data]",
		Short: "Generate a styled QR code image",
		Long: `Generate a styled QR code image from a URL or any text payload.

A payload without a scheme is normalized to https:// so that scanning the
code opens a browser. Payloads that do not look like URLs are encoded as-is
after a warning.

Without an output path the file is named after the URL host and a
timestamp, e.g. qr_example-com_20260825_143201.png. Use "-o -" to stream
the PNG to stdout instead of writing a file.

Results are cached locally, so regenerating the same code is instant.`,
		Example: `  qrforge generate example.com
  qrforge generate https://example.com --style circle --fill "#1a1a2e"
  qrforge generate example.com --logo logo.png --logo-size 25
  qrforge generate example.com -o - > qr.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data string
			if len(args) > 0 {
				data = args[0]
			}
			return c.runGenerate(cmd.Context(), generateParams{
				data:        data,
				opts:        opts,
				output:      output,
				noCache:     noCache,
				verifyAfter: verifyAfter,
				interactive: interactive,
				configPath:  configPath,
				flagChanged: cmd.Flags().Changed,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file path ("-" for stdout)`)
	cmd.Flags().IntVar(&opts.BoxSize, "box-size", opts.BoxSize, "pixel size of one module")
	cmd.Flags().IntVar(&opts.Border, "border", opts.Border, "quiet-zone width in modules")
	cmd.Flags().StringVar(&opts.Fill, "fill", opts.Fill, "module color (CSS name or #rrggbb)")
	cmd.Flags().StringVar(&opts.Back, "back", opts.Back, "background color (CSS name or #rrggbb)")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style,
		fmt.Sprintf("module shape: %s", strings.Join(render.Styles(), ", ")))
	cmd.Flags().StringVar(&opts.Logo, "logo", opts.Logo, "center logo (file path or URL)")
	cmd.Flags().IntVar(&opts.LogoSize, "logo-size", opts.LogoSize, "logo width as percent of image width (clamped 5-40)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even if cached")
	cmd.Flags().BoolVar(&verifyAfter, "verify", false, "decode the written image and check it matches")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for payload and style interactively")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.config/qrforge/config.toml)")

	return cmd
}

// generateParams bundles everything runGenerate needs.
type generateParams struct {
	data        string
	opts        pipeline.Options
	output      string
	noCache     bool
	verifyAfter bool
	interactive bool
	configPath  string
	flagChanged func(name string) bool
}

// runGenerate resolves the payload and options, runs the pipeline, and
// reports the result.
func (c *CLI) runGenerate(ctx context.Context, p generateParams) error {
	ctx = withLogger(ctx, c.Logger)

	if err := c.applyFileConfig(&p); err != nil {
		return err
	}

	data, err := c.resolvePayload(&p)
	if err != nil {
		return err
	}
	p.opts.Data = data

	toStdout := p.output == "-"
	if !toStdout {
		if p.output == "" {
			p.opts.Output = defaultOutputName(data, time.Now())
		} else {
			p.opts.Output = ensurePNGExt(strings.TrimSpace(p.output))
		}
	}

	runner, err := c.newRunner(p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if toStdout {
		result, err := runner.Compose(ctx, p.opts)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(result.PNG); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		c.Logger.Debug("streamed PNG to stdout", "bytes", len(result.PNG))
		return nil
	}

	spinner := newSpinnerWithContext(ctx, "Generating QR code...")
	spinner.Start()
	result, err := runner.Generate(ctx, p.opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	printSuccess("QR code generated")
	printFile(result.Path)
	printRenderStats(p.opts, result)

	if p.verifyAfter {
		c.verifyWritten(result.Path, data)
	}
	return nil
}

// applyFileConfig loads the config file and overlays it under explicit flags.
func (c *CLI) applyFileConfig(p *generateParams) error {
	path := p.configPath
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return nil // no home dir, nothing to load
		}
	}

	fc, err := loadFileConfig(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if fc != nil {
		fc.apply(&p.opts, p.flagChanged)
		c.Logger.Debug("applied config file", "path", path)
	}
	return nil
}

// resolvePayload determines the data to encode: the argument, an interactive
// prompt, or a plain stdin read. URL-looking payloads are normalized;
// anything else is encoded as-is after a warning.
func (c *CLI) resolvePayload(p *generateParams) (string, error) {
	data := strings.TrimSpace(p.data)

	if data == "" && p.interactive {
		selection, err := runInteractivePrompt(p.opts.Style)
		if err != nil {
			return "", err
		}
		data = selection.Data
		p.opts.Style = selection.Style
	}

	if data == "" {
		printInline("Enter URL to encode: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read payload: %w", err)
		}
		data = strings.TrimSpace(line)
	}

	if data == "" {
		return "", fmt.Errorf("nothing to encode")
	}

	normalized := urlutil.Normalize(data)
	if urlutil.IsLikelyValid(normalized) {
		return normalized, nil
	}

	printWarning("%q does not look like a URL; encoding it as plain text", data)
	return data, nil
}

// verifyWritten re-decodes the written file and warns on any mismatch.
// Verification never fails the run; the file is already on disk.
func (c *CLI) verifyWritten(path, want string) {
	got, err := verify.DecodeFile(path)
	switch {
	case err != nil:
		printWarning("verification failed: %v", err)
	case got != want:
		printWarning("verification mismatch: decoded %q, expected %q", got, want)
	default:
		printDetail("verified: image decodes back to the payload")
	}
}
