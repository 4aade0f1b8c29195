package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanewise/snapgraph/pkg/cache"
	"github.com/lanewise/snapgraph/pkg/pipeline"
	"github.com/lanewise/snapgraph/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the history graph over HTTP",
		Long: `Serve the history graph over HTTP.

The server exposes the workspace under /api: version listings, layout
geometry as JSON, rendered SVG, and the mutation operations (commit,
activate, restore, preview, fork). Graph responses carry ETags so clients
can poll cheaply with If-None-Match.

With --redis, pipeline results are cached in Redis and shared across
instances; otherwise each instance keeps a local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, noCache, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for a shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&opts.ThemePath, "theme", "", "theme file (TOML)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "default rendering engine: native, graphviz")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisURL string, noCache bool, opts pipeline.Options) error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	prog := newProgress(c.Logger)

	cc, keyer, err := c.serveCache(noCache, redisURL)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	defer runner.Close()

	srv, err := server.New(store, runner, opts, c.Logger)
	if err != nil {
		return err
	}
	prog.done("Server ready")

	printInfo("Serving workspace %q", store.Name())
	printDetail("workspace: %s", store.Path())
	fmt.Println("  " + StyleLink.Render("http://"+addr+"/api/graph.svg"))
	printNewline()

	return srv.ListenAndServe(ctx, addr)
}

// serveCache picks the server's cache backend: Redis when configured, the
// local file cache otherwise. Redis instances are commonly shared, so keys
// get an app prefix there.
func (c *CLI) serveCache(noCache bool, redisURL string) (cache.Cache, cache.Keyer, error) {
	if noCache {
		if redisURL != "" {
			printWarning("--no-cache ignores --redis")
		}
		return cache.NewNullCache(), nil, nil
	}

	if redisURL != "" {
		rc, err := cache.NewRedisCache(redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		c.Logger.Info("using redis cache")
		return rc, cache.NewScopedKeyer(nil, appName+":"), nil
	}

	cc, err := newCache(false)
	if err != nil {
		return nil, nil, err
	}
	return cc, nil, nil
}
