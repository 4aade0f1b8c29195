package pipeline

import (
	"context"
	"fmt"

	"github.com/lanewise/snapgraph/pkg/history"
	"github.com/lanewise/snapgraph/pkg/layout"
)

// LoadFeed opens the workspace file and extracts the snapshot feed.
//
// Extraction is not cached: a cache key would need the workspace revision,
// and learning the revision means reading the file, which is the whole cost
// of the stage. Long-lived hosts hold a history.Store instead and call
// Store.Feed directly.
func LoadFeed(ctx context.Context, opts Options) (layout.Input, error) {
	if err := opts.ValidateForFeed(); err != nil {
		return layout.Input{}, err
	}
	if err := ctx.Err(); err != nil {
		return layout.Input{}, err
	}

	store, err := history.Open(opts.Workspace)
	if err != nil {
		return layout.Input{}, fmt.Errorf("open workspace: %w", err)
	}
	return store.Feed(), nil
}
