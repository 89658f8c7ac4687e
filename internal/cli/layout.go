package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jruhland/assetscope/pkg/assetgraph"
	"github.com/jruhland/assetscope/pkg/layout"
)

// layoutCommand creates the layout command for computing explorer layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		expanded string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute an explorer layout from an asset graph",
		Long: `Compute an explorer layout from an asset graph.

The layout command takes a graph JSON file and computes node, group, and
edge geometry for the explorer. Groups named with --expanded are laid out
expanded; everything else collapses into a single group box.

Results are cached by layout signature for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, expanded, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&expanded, "expanded", "e", "", "comma-separated group IDs to lay out expanded")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output, expanded string, noCache bool) error {
	g, err := assetgraph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("graph %s: %w", input, err)
	}

	var engine layout.Engine = &layout.Layered{Logger: c.Logger}
	if !noCache {
		st := c.newStore(ctx)
		defer st.Close()
		engine = layout.NewCached(engine, st, c.Logger)
	}

	var expandedIDs []string
	if expanded != "" {
		expandedIDs = strings.Split(expanded, ",")
	}

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	tracker := newProgress(c.Logger)
	l, err := engine.Compute(ctx, g, expandedIDs, c.layoutOptions())
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	tracker.done("Layout computed")

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	data, err := layout.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	printNewline()
	printNextStep("Render", "assetscope render "+input)

	return nil
}

// storeCommand creates the store command for managing persisted state.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage persisted view state and layout cache",
	}
	cmd.AddCommand(c.storeInfoCommand())
	cmd.AddCommand(c.storeClearCommand())
	return cmd
}

func (c *CLI) storeInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the store location and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.Store.Dir
			if dir == "" {
				d, err := storeDir()
				if err != nil {
					return err
				}
				dir = d
			}

			var files int
			var bytes int64
			err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || info.IsDir() {
					return nil
				}
				files++
				bytes += info.Size()
				return nil
			})
			if os.IsNotExist(err) {
				printWarning("Store is empty")
				return nil
			}

			printSuccess("Store")
			printFile(dir)
			fmt.Println("  " + StyleDim.Render(fmt.Sprintf("%d entries · %.1f KB", files, float64(bytes)/1024)))
			return nil
		},
	}
}

func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all persisted view state and cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.Store.Dir
			if dir == "" {
				d, err := storeDir()
				if err != nil {
					return err
				}
				dir = d
			}
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("clear store: %w", err)
			}
			printSuccess("Store cleared")
			return nil
		},
	}
}
