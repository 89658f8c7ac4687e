// Package cli implements the assetscope command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jruhland/assetscope/pkg/buildinfo"
	"github.com/jruhland/assetscope/pkg/layout"
	"github.com/jruhland/assetscope/pkg/source"
	"github.com/jruhland/assetscope/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "assetscope"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "assetscope",
		Short:        "Assetscope explores asset dependency graphs interactively",
		Long:         `Assetscope is a terminal explorer for asset dependency graphs: navigate assets and their groups, expand and collapse, zoom from overview to full detail, and serve rendered views over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.ConfigPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/assetscope/config.toml)")

	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newProvider builds the graph source from flags and config: an explicit
// file path wins, then the config file source, then the config mongo URI.
func (c *CLI) newProvider(ctx context.Context, graphPath string) (source.Provider, error) {
	if graphPath != "" {
		return source.NewFile(graphPath, c.Logger), nil
	}
	if c.Config.Source.Path != "" {
		return source.NewFile(c.Config.Source.Path, c.Logger), nil
	}
	if mc := c.Config.Source.Mongo; mc.URI != "" {
		return source.NewMongo(ctx, source.MongoConfig{
			URI:      mc.URI,
			Database: mc.Database,
			Assets:   mc.Assets,
			Edges:    mc.Edges,
		}, c.Logger)
	}
	return nil, fmt.Errorf("no graph source: pass a graph file or configure [source]")
}

// newStore builds the view-state store from config. Failures fall back to
// an in-memory store so exploration still works, just without persistence.
func (c *CLI) newStore(ctx context.Context) store.Store {
	switch c.Config.Store.Backend {
	case "", "file":
		dir := c.Config.Store.Dir
		if dir == "" {
			d, err := storeDir()
			if err != nil {
				c.Logger.Warn("no store directory, state will not persist", "err", err)
				return store.NewMemory()
			}
			dir = d
		}
		s, err := store.NewFile(dir)
		if err != nil {
			c.Logger.Warn("file store unavailable, state will not persist", "err", err)
			return store.NewMemory()
		}
		return s
	case "redis":
		rc := c.Config.Store.Redis
		s, err := store.NewRedis(ctx, store.RedisConfig{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
			Prefix:   rc.Prefix,
		})
		if err != nil {
			c.Logger.Warn("redis unavailable, state will not persist", "err", err)
			return store.NewMemory()
		}
		return s
	case "memory":
		return store.NewMemory()
	default:
		c.Logger.Warn("unknown store backend, using memory", "backend", c.Config.Store.Backend)
		return store.NewMemory()
	}
}

// layoutOptions maps config to engine options.
func (c *CLI) layoutOptions() layout.Options {
	opts := layout.Options{}
	if c.Config.View.Direction == "lr" {
		opts.Direction = layout.DirectionLR
	}
	return opts
}

// storeDir returns the store directory using the XDG convention
// (~/.cache/assetscope/).
func storeDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
