package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lanewise/snapgraph/pkg/pipeline"
)

// renderCommand creates the render command for generating graph artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the history graph",
		Long: `Render the history graph.

Runs the full pipeline: read the workspace, compute the layout, and render
the requested formats. SVG, DOT, and layout JSON are generated natively;
PNG and PDF go through rsvg-convert or the graphviz engine.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateEngine(opts.Engine); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file or base path ("-" streams a single format to stdout)`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Engine, "engine", pipeline.DefaultEngine, "rendering engine: native (default), graphviz")
	cmd.Flags().StringVar(&opts.ThemePath, "theme", "", "theme file (TOML)")
	cmd.Flags().BoolVar(&opts.Labels, "labels", true, "draw message labels next to the graph")
	cmd.Flags().BoolVar(&opts.Background, "background", false, "fill the frame with the theme background")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "verbose node labels in DOT output")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", pipeline.DefaultPNGScale, "rasterization scale for PNG output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender executes the pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	path, err := c.workspacePath()
	if err != nil {
		return err
	}
	opts.Workspace = path
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering history graph...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
	}); err != nil {
		return err
	}

	// Streaming to stdout: stay quiet so the artifact pipes clean.
	if output == "-" {
		return nil
	}

	printStats(result.Stats.RowCount, result.Stats.LaneCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams holds the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	output    string
}

// writeArtifacts writes each rendered format to its own file, deriving paths
// from the output flag. With output "-" a single format streams to stdout.
func writeArtifacts(p artifactWriteParams) error {
	if p.output == "-" {
		if len(p.formats) != 1 {
			return fmt.Errorf("stdout output requires a single format")
		}
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	base := basePath(p.output)

	printSuccess("Render complete")
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output flag. If output is
// empty, the app name is used. If output carries a known format extension,
// it is stripped; each artifact then appends its own.
func basePath(output string) string {
	if output == "" {
		return appName
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// openOutput opens the output destination. An empty path means stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return f, nil
}

// nopCloser wraps a writer with a no-op Close so stdout survives the
// caller's deferred Close.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
