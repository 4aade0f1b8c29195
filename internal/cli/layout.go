package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing graph geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the history graph layout",
		Long: `Compute the history graph layout.

Reads the workspace, computes row and connector geometry, and writes it as
JSON (same format as 'render -f json'). Frontends that draw their own widgets
position them with this geometry instead of rendering the SVG.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout reads the workspace feed, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, output string, noCache bool) error {
	path, err := c.workspacePath()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Workspace: path, Logger: c.Logger}

	in, err := runner.LoadFeed(ctx, opts)
	if err != nil {
		return fmt.Errorf("read workspace: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, in, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := layout.Marshal(res)
	if err != nil {
		return fmt.Errorf("serialize layout: %w", err)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}

	// Writing to stdout: stay quiet so the JSON pipes clean.
	if output == "" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(res.Rows), res.LaneCount, cacheHit)
	printNewline()
	printNextStep("Render", "snapgraph render")

	return nil
}
