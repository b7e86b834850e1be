// Package cli implements the pagebuilder command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagebuilder/pkg/autoscroll"
	"github.com/matzehuels/pagebuilder/pkg/buildinfo"
	"github.com/matzehuels/pagebuilder/pkg/cache"
	"github.com/matzehuels/pagebuilder/pkg/config"
	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	"github.com/matzehuels/pagebuilder/pkg/rules"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pagebuilder edits page component trees",
		Long:         `Pagebuilder is the drag-and-drop engine of a visual page builder. It validates page trees, replays drag gestures, renders page outlines and serves pages over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/pagebuilder/config.toml)")

	root.AddCommand(c.rulesCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or the defaults when no command
// has loaded one yet.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the configured cache backend. noCache forces the null
// cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config()
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, history is not persisted", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newKeyer returns the key layout, scoped to the configured namespace.
func (c *CLI) newKeyer() cache.Keyer {
	keyer := cache.NewDefaultKeyer()
	if ns := c.config().Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(keyer, ns+":")
	}
	return keyer
}

// newStore opens the history store. The caller closes the returned cache.
func (c *CLI) newStore(ctx context.Context, noCache bool) (*editor.Store, cache.Cache, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	store := editor.NewStore(ch, c.newKeyer(), c.Logger)
	store.TTL = c.config().Cache.TTL.Duration
	return store, ch, nil
}

// loadRules builds the placement table from the configured registry file,
// or the built-in registry. A non-empty override takes precedence over the
// config.
func (c *CLI) loadRules(override string) (*rules.Table, error) {
	path := override
	if path == "" {
		path = c.config().Rules.File
	}
	if path == "" {
		return rules.Default(), nil
	}
	reg, err := rules.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded placement rules", "file", path)
	return rules.Build(reg), nil
}

// machineOptions returns drag machine options from the config.
func (c *CLI) machineOptions(table *rules.Table, ids tree.IDGenerator) dnd.Options {
	cfg := c.config()
	return dnd.Options{
		Rules:      table,
		IDs:        ids,
		GridSize:   cfg.Drag.GridSize,
		Zoom:       cfg.Drag.Zoom,
		Autoscroll: autoscroll.New(cfg.Autoscroll, c.Logger),
		Preview:    cfg.Drag.Viewport,
		Logger:     c.Logger,
	}
}

// validateOptions are the tree checks applied to pages read by commands.
func validateOptions(table *rules.Table) tree.ValidateOptions {
	return tree.ValidateOptions{ContainerType: table.IsContainer}
}
