package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lanewise/snapgraph/pkg/history"
	"github.com/lanewise/snapgraph/pkg/layout"
)

// browseCommand creates the interactive history browser command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the history graph interactively",
		Long: `Browse the history graph interactively.

The browser lists the same rows the rendered graph draws, lane markers
included. Enter activates the selected version, the way clicking a node in
the document UI's history panel does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context())
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	res, err := layout.Build(store.Feed())
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if len(res.Rows) == 0 {
		printInfo("No versions yet")
		printNextStep("Save one", `snapgraph commit -m "First draft"`)
		return nil
	}

	p := tea.NewProgram(newBrowseModel(store, res), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	if m, ok := final.(browseModel); ok && m.activated != "" {
		printSuccess("Now at version %s", history.ShortID(m.activated))
	}
	return nil
}
