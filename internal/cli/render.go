package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flamekit/pkg/core/render"
	"github.com/matzehuels/flamekit/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string // output file path; derived from the input when empty
	pipeline.Options
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a TOML flame to PNG or JPEG",
		Long: `Render a fractal flame described by a TOML document.

The output format follows --format, or the extension of --output when no
format is given. Size overrides keep the flame's aspect ratio when only one
of --width and --height is set.`,
		Example: `  flamekit render examples/collideoscope.toml
  flamekit render flame.toml -o flame.jpg --width 1920 --quality 85`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			if opts.Format == "" {
				opts.Format = formatFromPath(opts.output)
			}
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format's extension)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: png (default), jpeg")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "output width in pixels (default: from the flame)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "output height in pixels (default: from the flame)")
	cmd.Flags().IntVar(&opts.Quality, "quality", 0, "JPEG quality 1-100 (default 90)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().Uint64Var(&opts.Samples, "samples", 0, "total samples (default: from the flame's density)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel render workers (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "disable the image cache")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render and overwrite any cached image")

	return cmd
}

// runRender executes the pipeline and writes the encoded image.
func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	runner, err := c.newRunner(opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	prog := newProgress(opts.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(opts.Input)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts.Options)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = outputFor(opts.Input, result.Format)
	}
	if err := os.WriteFile(outputPath, result.Artifact, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done(fmt.Sprintf("Rendered %s", result.Flame.Name))

	printSuccess("Render complete")
	printFile(outputPath)
	printStats(result.Stats, result.CacheHit)
	return nil
}

// formatFromPath infers the output format from a file extension. It returns
// "" for unknown or missing extensions so the pipeline default applies.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if f := render.NormalizeFormat(ext); render.ValidFormats[f] {
		return f
	}
	return ""
}

// outputFor derives the output path from the input path and format.
func outputFor(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if format == render.FormatJPEG {
		return base + ".jpg"
	}
	return base + "." + format
}
