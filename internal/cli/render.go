package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jruhland/assetscope/pkg/assetgraph"
	"github.com/jruhland/assetscope/pkg/render/dot"
)

// renderCommand creates the render command for generating SVG output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		expanded string
		detailed bool
		dotOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render an asset graph to SVG",
		Long: `Render an asset graph to SVG via Graphviz.

Groups named with --expanded render as clusters containing their member
assets; everything else collapses into a single group box. External
references render as dashed placeholders.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, expanded, detailed, dotOnly)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().StringVarP(&expanded, "expanded", "e", "", "comma-separated group IDs to render expanded")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include group and metadata in labels")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "emit Graphviz DOT instead of SVG")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output, expanded string, detailed, dotOnly bool) error {
	g, err := assetgraph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("graph %s: %w", input, err)
	}

	var expandedIDs []string
	if expanded != "" {
		expandedIDs = strings.Split(expanded, ",")
	}

	dotSrc := dot.ToDOT(g, expandedIDs, dot.Options{
		Direction: c.layoutOptions().Direction,
		Detailed:  detailed,
	})

	ext := ".svg"
	data := []byte(dotSrc)
	if !dotOnly {
		spinner := newSpinner(ctx, "Rendering...")
		spinner.Start()
		svg, err := dot.RenderSVG(ctx, dotSrc)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render svg: %w", err)
		}
		spinner.Stop()
		data = svg
	} else {
		ext = ".dot"
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ext
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Render complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), false)

	return nil
}
