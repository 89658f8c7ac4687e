package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jruhland/assetscope/pkg/explorer"
	"github.com/jruhland/assetscope/pkg/layout"
	"github.com/jruhland/assetscope/pkg/source"
)

// exploreCommand creates the explore command, the interactive TUI.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		query string
		scope string
	)

	cmd := &cobra.Command{
		Use:   "explore [graph.json]",
		Short: "Explore an asset graph interactively",
		Long: `Explore an asset graph interactively in the terminal.

The graph is loaded from the given JSON file, or from the source configured
in the config file (a file path or a MongoDB connection). A query narrows
the view to matching assets, e.g. 'raw/*' or 'raw/events,marts/*'.

Expanded groups persist per scope across sessions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphPath := ""
			if len(args) > 0 {
				graphPath = args[0]
			}
			return c.runExplore(cmd.Context(), graphPath, query, scope)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "asset selection query")
	cmd.Flags().StringVarP(&scope, "scope", "s", "default", "view scope for persisted state")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, graphPath, query, scope string) error {
	provider, err := c.newProvider(ctx, graphPath)
	if err != nil {
		return err
	}

	g, err := provider.Fetch(ctx, query)
	if err != nil {
		var qe *source.QueryError
		if errors.As(err, &qe) {
			printError("Invalid query")
			for _, p := range qe.Problems {
				fmt.Println("  " + StyleDim.Render(p))
			}
			return err
		}
		return fmt.Errorf("load graph: %w", err)
	}
	if g.NodeCount() == 0 {
		printWarning("Query matched no assets")
		return nil
	}

	st := c.newStore(ctx)
	defer st.Close()

	e := explorer.New(ctx, g, explorer.Options{
		View:   "explore",
		Scope:  scope,
		Query:  query,
		Layout: c.layoutOptions(),
		Engine: layout.NewCached(&layout.Layered{Logger: c.Logger}, st, c.Logger),
		Store:  st,
		Logger: c.Logger,
		Width:  c.Config.View.Width,
		Height: c.Config.View.Height,
	})
	if err := e.Err(); err != nil {
		return fmt.Errorf("graph not explorable: %w", err)
	}

	_, err = tea.NewProgram(newExplorerModel(ctx, e), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
