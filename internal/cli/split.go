package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/layout"
	"github.com/wrightline/panelplan/pkg/manifest"
	"github.com/wrightline/panelplan/pkg/units"
)

// splitCommand creates the split command for halving one panel of a
// manifest wall.
func (c *CLI) splitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <manifest.toml> <panel>",
		Short: "Split one panel of a manifest wall into equal halves",
		Long: `Split one panel of a manifest wall into equal halves.

The split command computes the manifest's schedule, splits the named panel
down the middle, and prints the resulting schedule. The manifest itself is
not modified; add the printed [[splits]] block to keep the split.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			panelID, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid panel id %q", args[1])
			}
			return c.runSplit(args[0], panelID)
		},
	}

	return cmd
}

// runSplit loads the manifest, splits the panel, and prints the result.
func (c *CLI) runSplit(input string, panelID int) error {
	m, err := manifest.Load(input)
	if err != nil {
		return err
	}
	params := m.Params()
	edits, err := m.Edits(params)
	if err != nil {
		return err
	}

	cur, err := layout.Compute(params, edits)
	if err != nil {
		return err
	}

	sched, rec, err := layout.Split(cur.Panels, []int{panelID}, params, &edits)
	if err != nil {
		return err
	}

	fmt.Println(renderPanelTable(params, sched, -1))
	printSuccess("Split panel %d into panels %d and %d (%s each)",
		rec.OriginalID, rec.LeftID, rec.RightID, units.FromInches(rec.HalfWidthInches))
	printNewline()
	printDetail("To keep this split, add to %s:", input)
	fmt.Println(StyleDim.Render("    [[splits]]"))
	fmt.Println(StyleDim.Render(fmt.Sprintf("    panel = %d", rec.OriginalID)))

	return nil
}
