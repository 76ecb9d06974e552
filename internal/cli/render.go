package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexgrid/pkg/pipeline"
)

// renderCommand creates the render command that runs the complete pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		rf      renderFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Place and render an input file in one step",
		Long: `Place and render an input file in one step.

The render command is a shortcut for 'place' followed by 'visualize'. It
writes one file per requested format next to the input, or next to --output:

  svg      <input>.svg
  geojson  <input>.geojson
  json     <input>.layout.json

With a single format, --output names the file itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.configure(cmd, &opts, &rf); err != nil {
				return err
			}
			opts.Input = args[0]
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addSourceFlags(cmd, &opts)
	addGridFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &rf)

	return cmd
}

// runRender runs load, place and render, then writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading "+opts.Input+"...")
	spinner.Start()

	records, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}

	spinner.SetMessage(fmt.Sprintf("Placing %d entities...", len(records)))
	l, placeHit, err := runner.PlaceWithCacheInfo(ctx, records, opts)
	if err != nil {
		spinner.StopWithError("Placement failed")
		return fmt.Errorf("place: %w", err)
	}

	spinner.SetMessage("Rendering...")
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, output, opts.Input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d entities on a %dx%d grid", len(l.Cells), l.Columns, l.Rows)
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Cells), l.Stats.Iterations, placeHit && renderHit)

	return nil
}

// writeArtifacts writes each rendered format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(output, input, format, len(formats))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
