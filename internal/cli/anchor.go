package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/pipeline"
)

// anchorCommand creates the anchor command for placing manifest objects.
func (c *CLI) anchorCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "anchor <manifest.toml>",
		Short: "Place the manifest's objects against the computed schedule",
		Long: `Place the manifest's objects against the computed schedule.

The anchor command computes the panel schedule for a wall manifest and
resolves every [[objects]] entry into percent positions on the wall. The
manifest must place at least one object.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnchor(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}

// runAnchor computes the schedule, resolves placements, and presents them.
func (c *CLI) runAnchor(ctx context.Context, input, output string, noCache, refresh bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Placing objects...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Anchoring failed")
		return err
	}

	if len(res.Objects) == 0 {
		spinner.StopWithError("Nothing to place")
		return errors.New(errors.ErrCodeInvalidInput, "manifest %s places no objects", input)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Placed %d objects", len(res.Objects)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output != "" {
		if err := writeLayout(res, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
	}

	fmt.Println(renderObjectTable(res.Objects))
	if output != "" {
		printFile(output)
	}
	printStats(res.Stats.PanelCount, res.Stats.ObjectCount, res.CacheInfo.AnchorHit)

	return nil
}
