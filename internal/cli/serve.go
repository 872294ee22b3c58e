package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrightline/panelplan/internal/api"
)

// serveCommand creates the serve command, which runs the layout HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		store   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

The server exposes stateless layout and anchor endpoints plus stored-wall
CRUD under /v1. Walls persist in the configured store; pass a redis:// or
mongodb:// URL to share state between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, store, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().StringVar(&store, "store", "memory",
		"wall store: memory (default), file, or a redis:// / mongodb:// URL")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout result caching")

	return cmd
}

// runServe connects the store, builds the pipeline runner, and blocks in
// the HTTP server until ctx is canceled.
func (c *CLI) runServe(ctx context.Context, addr, store string, noCache bool) error {
	prog := newProgress(c.Logger)
	st, err := newStore(ctx, store)
	if err != nil {
		return fmt.Errorf("open wall store: %w", err)
	}
	defer st.Close()
	prog.done("Wall store ready")

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := api.New(runner, st, c.Logger)
	return srv.ListenAndServe(ctx, addr)
}
