package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexgrid/pkg/layout"
	"github.com/matzehuels/hexgrid/pkg/pipeline"
)

// placeCommand creates the place command for computing a layout from an input file.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		table   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "place [input]",
		Short: "Assign every entity of an input file to a grid cell",
		Long: `Assign every entity of an input file to a grid cell.

The place command reads a CSV, XLSX, Shapefile or GeoJSON file, bins each
entity onto a columns x rows grid by its coordinates and moves entities apart
until no two share a cell. The result is a layout.json file that can be
rendered with the 'visualize' command.

Without --columns and --rows the smallest square grid that fits the input is
used. Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.configure(cmd, &opts, nil); err != nil {
				return err
			}
			opts.Input = args[0]
			return c.runPlace(cmd.Context(), opts, output, noCache, table)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&table, "table", false, "print the placement as a table")
	addSourceFlags(cmd, &opts)
	addGridFlags(cmd, &opts)

	return cmd
}

// runPlace loads the input, places it and writes the layout.
func (c *CLI) runPlace(ctx context.Context, opts pipeline.Options, output string, noCache, table bool) error {
	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	records, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	prog.done(fmt.Sprintf("Loaded %d records", len(records)))

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d entities...", len(records)))
	spinner.Start()

	l, cacheHit, err := runner.PlaceWithCacheInfo(ctx, records, opts)
	if err != nil {
		spinner.StopWithError("Placement failed")
		return fmt.Errorf("place: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.Input) + pipeline.FormatExtensions[pipeline.FormatJSON]
	}
	if err := layout.WriteFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Placed on a %dx%d grid", l.Columns, l.Rows)
	printFile(outputPath)
	printStats(len(l.Cells), l.Stats.Iterations, cacheHit)
	if table {
		printPlacementTable(l)
	}
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
