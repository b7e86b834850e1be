package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagebuilder/internal/server"
	"github.com/matzehuels/pagebuilder/pkg/editor"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string // listen address overriding the config
	rules      string // YAML registry overriding the configured one
	maxHistory int    // undo depth per page
	noCache    bool   // keep pages in memory only
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{maxHistory: editor.DefaultMaxHistory}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages over an HTTP API",
		Long: `Serve page documents over an HTTP JSON API. Drops and inserts are checked
against the same placement rules as the other commands; histories persist in
the configured cache backend unless --no-cache is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			table, err := c.loadRules(opts.rules)
			if err != nil {
				return err
			}
			store, ch, err := c.newStore(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer ch.Close()

			addr := opts.addr
			if addr == "" {
				addr = c.config().Server.Addr
			}
			srv := server.New(server.Options{
				Machine:    c.machineOptions(table, nil),
				Store:      store,
				MaxHistory: opts.maxHistory,
				Validate:   validateOptions(table),
				Logger:     c.Logger,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: config or :8080)")
	cmd.Flags().StringVar(&opts.rules, "rules", "", "YAML rules registry (default: config or built-in)")
	cmd.Flags().IntVar(&opts.maxHistory, "max-history", opts.maxHistory, "undo steps kept per page")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "keep pages in memory only")

	return cmd
}
