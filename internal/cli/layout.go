package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	layoutio "github.com/wrightline/panelplan/pkg/io"
	"github.com/wrightline/panelplan/pkg/pipeline"
)

// layoutCommand creates the layout command for computing panel schedules.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout <manifest.toml>",
		Short: "Compute a panel schedule from a wall manifest",
		Long: `Compute a panel schedule from a wall manifest.

The layout command reads a TOML wall manifest (dimensions, panel stock,
layout strategy, plus any overrides, splits, and objects), computes the
panel schedule, and prints it as a table. With -o the result is also
written as a layout.json file for downstream tools.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}

// runLayout computes the schedule for a manifest and presents it.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		ManifestFilename: input,
		Refresh:          refresh,
		Logger:           c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, "Computing panel schedule...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output != "" {
		if err := writeLayout(res, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
	}

	fmt.Println(renderPanelTable(res.Params, res.Schedule, -1))
	if len(res.Objects) > 0 {
		fmt.Println(renderObjectTable(res.Objects))
	}
	if res.Schedule.SeamFallback {
		printWarning("Seam position could not be honored; fell back to %s", res.Schedule.Mode)
	}

	printSuccess("Layout complete")
	if output != "" {
		printFile(output)
	}
	printStats(res.Stats.PanelCount, res.Stats.ObjectCount, res.CacheInfo.ComputeHit)
	printNewline()
	printNextStep("Edit interactively", "panelplan tui "+input)

	return nil
}

// writeLayout exports a pipeline result as a layout JSON file.
func writeLayout(res *pipeline.Result, path string) error {
	l := &layoutio.Layout{
		Name:       res.Name,
		Params:     res.Params,
		ParamsHash: res.ParamsHash,
		Schedule:   res.Schedule,
		Objects:    res.Objects,
	}
	if res.Edits.HasEdits() {
		edits := res.Edits
		l.Edits = &edits
	}
	return layoutio.ExportLayout(l, path)
}
