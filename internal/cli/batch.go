package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/qrforge/qrforge/pkg/pipeline"
	"github.com/qrforge/qrforge/pkg/urlutil"
)

// batchCommand creates the batch command for rendering many codes at once.
func (c *CLI) batchCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "batch <jobs.toml>",
		Short: "Generate QR codes for every job in a TOML file",
		Long: `Generate QR codes for every job in a TOML file.

The file holds an optional [defaults] table and one [[job]] table per code.
Job fields override defaults, which override the built-in defaults:

    [defaults]
    style = "circle"
    fill = "#1a1a2e"

    [[job]]
    data = "https://example.com"
    output = "example.png"

    [[job]]
    data = "https://example.org"
    style = "rounded"

Jobs run in order. A failing job is reported and skipped; the command exits
non-zero if any job failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// batchJob is one [[job]] table, also used for [defaults]. Pointer fields
// distinguish an absent key from an explicit zero.
type batchJob struct {
	Data     *string `toml:"data"`
	Output   *string `toml:"output"`
	BoxSize  *int    `toml:"box_size"`
	Border   *int    `toml:"border"`
	Fill     *string `toml:"fill"`
	Back     *string `toml:"back"`
	Style    *string `toml:"style"`
	Logo     *string `toml:"logo"`
	LogoSize *int    `toml:"logo_size"`
}

// batchFile is the parsed jobs file.
type batchFile struct {
	Defaults batchJob   `toml:"defaults"`
	Jobs     []batchJob `toml:"job"`
}

// applyTo overlays the job's set fields onto opts.
func (j batchJob) applyTo(opts *pipeline.Options) {
	if j.Data != nil {
		opts.Data = *j.Data
	}
	if j.Output != nil {
		opts.Output = *j.Output
	}
	if j.BoxSize != nil {
		opts.BoxSize = *j.BoxSize
	}
	if j.Border != nil {
		opts.Border = *j.Border
	}
	if j.Fill != nil {
		opts.Fill = *j.Fill
	}
	if j.Back != nil {
		opts.Back = *j.Back
	}
	if j.Style != nil {
		opts.Style = *j.Style
	}
	if j.Logo != nil {
		opts.Logo = *j.Logo
	}
	if j.LogoSize != nil {
		opts.LogoSize = *j.LogoSize
	}
}

// jobOptions builds the effective options for one job.
func (f *batchFile) jobOptions(job batchJob) pipeline.Options {
	opts := pipeline.DefaultOptions()
	f.Defaults.applyTo(&opts)
	job.applyTo(&opts)

	// Batch payloads get the same URL normalization as the generate
	// command, silently: a batch run is not the place for prompts.
	if normalized := urlutil.Normalize(opts.Data); urlutil.IsLikelyValid(normalized) {
		opts.Data = normalized
	}
	if opts.Output == "" {
		opts.Output = defaultOutputName(opts.Data, time.Now())
	} else {
		opts.Output = ensurePNGExt(opts.Output)
	}
	return opts
}

// runBatch executes every job and reports a summary.
func (c *CLI) runBatch(ctx context.Context, path string, noCache bool) error {
	ctx = withLogger(ctx, c.Logger)

	var file batchFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("read jobs file %s: %w", path, err)
	}
	if len(file.Jobs) == 0 {
		return fmt.Errorf("no [[job]] entries in %s", path)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	tracker := newProgress(loggerFromContext(ctx))
	failed := 0
	for i, job := range file.Jobs {
		opts := file.jobOptions(job)
		if opts.Data == "" {
			printError("job %d: missing data", i+1)
			failed++
			continue
		}

		result, err := runner.Generate(ctx, opts)
		if err != nil {
			printError("job %d (%s): %v", i+1, opts.Data, err)
			failed++
			continue
		}
		printSuccess("job %d: %s", i+1, result.Path)
	}

	printNewline()
	done := len(file.Jobs) - failed
	if failed > 0 {
		printWarning("%d of %d jobs failed", failed, len(file.Jobs))
		tracker.done(fmt.Sprintf("Generated %d QR codes", done))
		return fmt.Errorf("%d of %d jobs failed", failed, len(file.Jobs))
	}
	tracker.done(fmt.Sprintf("Generated %d QR codes", done))
	return nil
}
