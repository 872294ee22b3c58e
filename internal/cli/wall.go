package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/layout"
	"github.com/wrightline/panelplan/pkg/pipeline"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
	"github.com/wrightline/panelplan/pkg/wallstate"
)

// wallCommand groups the stored-wall subcommands.
func (c *CLI) wallCommand() *cobra.Command {
	var store string

	cmd := &cobra.Command{
		Use:   "wall",
		Short: "Manage stored walls",
		Long: `Manage stored walls.

A stored wall keeps its parameters, edit history, and anchored objects
across recomputations. Records live under ~/.config/panelplan/walls by
default; --store selects a different backend.`,
	}

	cmd.PersistentFlags().StringVar(&store, "store", "",
		"wall store: file (default), memory, or a redis:// / mongodb:// URL")

	cmd.AddCommand(c.wallCreateCommand(&store))
	cmd.AddCommand(c.wallListCommand(&store))
	cmd.AddCommand(c.wallShowCommand(&store))
	cmd.AddCommand(c.wallSplitCommand(&store))
	cmd.AddCommand(c.wallOverrideCommand(&store))
	cmd.AddCommand(c.wallClearCommand(&store))
	cmd.AddCommand(c.wallDeleteCommand(&store))

	return cmd
}

// =============================================================================
// Subcommands
// =============================================================================

// wallCreateCommand creates the "wall create" subcommand.
func (c *CLI) wallCreateCommand(store *string) *cobra.Command {
	var (
		manifestPath string
		width        string
		height       string
		panelWidth   string
		panelCount   int
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a stored wall",
		Long: `Create a stored wall.

Parameters come either from a wall manifest (--manifest, which also
imports the manifest's edits and objects) or from dimension flags in
shop notation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWallCreate(cmd.Context(), *store, args[0],
				manifestPath, width, height, panelWidth, panelCount)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "import parameters, edits, and objects from a wall manifest")
	cmd.Flags().StringVar(&width, "width", "", `wall width (e.g. "12'-6\"")`)
	cmd.Flags().StringVar(&height, "height", "", `wall height (e.g. "9'")`)
	cmd.Flags().StringVar(&panelWidth, "panel-width", "", `target panel width (e.g. "4'")`)
	cmd.Flags().IntVar(&panelCount, "panels", 0, "tile with exactly this many equal panels")

	return cmd
}

// wallListCommand creates the "wall list" subcommand.
func (c *CLI) wallListCommand(store *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored walls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWallList(cmd.Context(), *store)
		},
	}
}

// wallShowCommand creates the "wall show" subcommand.
func (c *CLI) wallShowCommand(store *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored wall and its computed schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWallShow(cmd.Context(), *store, args[0])
		},
	}
}

// wallSplitCommand creates the "wall split" subcommand.
func (c *CLI) wallSplitCommand(store *string) *cobra.Command {
	return &cobra.Command{
		Use:   "split <id> <panel>",
		Short: "Split a panel of a stored wall into equal halves",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			panelID, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid panel id %q", args[1])
			}
			return c.runWallSplit(cmd.Context(), *store, args[0], panelID)
		},
	}
}

// wallOverrideCommand creates the "wall override" subcommand.
func (c *CLI) wallOverrideCommand(store *string) *cobra.Command {
	return &cobra.Command{
		Use:   "override <id> <panel> <width>",
		Short: "Pin a panel of a stored wall to an absolute width",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			panelID, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid panel id %q", args[1])
			}
			return c.runWallOverride(cmd.Context(), *store, args[0], panelID, args[2])
		},
	}
}

// wallClearCommand creates the "wall clear" subcommand.
func (c *CLI) wallClearCommand(store *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id>",
		Short: "Drop all overrides and splits from a stored wall",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWallClear(cmd.Context(), *store, args[0])
		},
	}
}

// wallDeleteCommand creates the "wall delete" subcommand.
func (c *CLI) wallDeleteCommand(store *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored wall",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWallDelete(cmd.Context(), *store, args[0])
		},
	}
}

// =============================================================================
// Runners
// =============================================================================

// runWallCreate validates the wall, stores it, and shows its schedule.
func (c *CLI) runWallCreate(ctx context.Context, storeSpec, name, manifestPath, width, height, panelWidth string, panelCount int) error {
	if err := errors.ValidateWallName(name); err != nil {
		return err
	}

	var (
		params  wall.Parameters
		edits   wall.Edits
		objects []wall.Object
		sched   wall.Schedule
	)

	if manifestPath != "" {
		// The pipeline validates the manifest, replays its edits, and
		// places its objects in one pass.
		runner, err := c.newRunner(false)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()

		res, err := runner.Execute(ctx, pipeline.Options{
			ManifestFilename: manifestPath,
			Logger:           c.Logger,
		})
		if err != nil {
			return err
		}
		params, edits, objects, sched = res.Params, res.Edits, res.Objects, res.Schedule
	} else {
		if width == "" || height == "" {
			return errors.New(errors.ErrCodeInvalidDimension,
				"wall width and height are required without a manifest")
		}
		w, err := units.Parse(width)
		if err != nil {
			return err
		}
		h, err := units.Parse(height)
		if err != nil {
			return err
		}
		params = wall.Parameters{Width: w, Height: h}
		if panelWidth != "" {
			pw, err := units.Parse(panelWidth)
			if err != nil {
				return err
			}
			params.PanelWidth = pw
		}
		if panelCount > 0 {
			params.EqualPanels = true
			params.PanelCount = panelCount
		}

		sched, err = layout.Compute(params, edits)
		if err != nil {
			return err
		}
	}

	store, err := newStore(ctx, storeSpec)
	if err != nil {
		return fmt.Errorf("open wall store: %w", err)
	}
	defer store.Close()

	rec := wallstate.New(name, params)
	rec.Edits = edits
	rec.Objects = objects
	if err := store.Set(ctx, rec); err != nil {
		return fmt.Errorf("store wall: %w", err)
	}

	fmt.Println(renderPanelTable(params, sched, -1))
	printSuccess("Created wall %q", rec.Name)
	printKeyValue("ID", rec.ID)
	printNewline()
	printNextStep("Inspect", "panelplan wall show "+rec.ID)

	return nil
}

// runWallList prints the stored walls as a table.
func (c *CLI) runWallList(ctx context.Context, storeSpec string) error {
	store, err := newStore(ctx, storeSpec)
	if err != nil {
		return fmt.Errorf("open wall store: %w", err)
	}
	defer store.Close()

	recs, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list walls: %w", err)
	}
	if len(recs) == 0 {
		printInfo("No walls stored")
		printNextStep("Create one", `panelplan wall create "den north" --width "12'" --height "9'" --panel-width "4'"`)
		return nil
	}

	fmt.Println(renderWallList(recs))
	return nil
}

// runWallShow prints one wall's record and computed schedule.
func (c *CLI) runWallShow(ctx context.Context, storeSpec, id string) error {
	store, err := newStore(ctx, storeSpec)
	if err != nil {
		return fmt.Errorf("open wall store: %w", err)
	}
	defer store.Close()

	rec, err := getWallRecord(ctx, store, id)
	if err != nil {
		return err
	}

	sched, err := layout.Compute(rec.Params, rec.Edits)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(rec.Name))
	printKeyValue("ID", rec.ID)
	printKeyValue("Size", rec.Params.Width.String()+" × "+rec.Params.Height.String())
	printKeyValue("Mode", sched.Mode)
	printKeyValue("Panels", strconv.Itoa(len(sched.Panels)))
	printKeyValue("Edits", editsSummary(rec.Edits))
	printKeyValue("Objects", strconv.Itoa(len(rec.Objects)))
	printKeyValue("Updated", formatRelativeTime(rec.UpdatedAt))
	printNewline()
	fmt.Println(renderWallStrip(sched, 60, -1))
	fmt.Println(renderPanelTable(rec.Params, sched, -1))
	if len(rec.Objects) > 0 {
		fmt.Println(renderObjectTable(rec.Objects))
	}
	if sched.SeamFallback {
		printWarning("Seam position could not be honored; fell back to %s", sched.Mode)
	}

	return nil
}

// runWallSplit splits a panel and persists the new edit state.
func (c *CLI) runWallSplit(ctx context.Context, storeSpec, id string, panelID int) error {
	store, err := newStore(ctx, storeSpec)
	if err != nil {
		return fmt.Errorf("open wall store: %w", err)
	}
	defer store.Close()

	var sched wall.Schedule
	rec, err := updateWallRecord(ctx, store, id, func(r *wallstate.Record) error {
		cur, err := layout.Compute(r.Params, r.Edits)
		if err != nil {
			return err
		}
		next, _, err := layout.Split(cur.Panels, []int{panelID}, r.Params, &r.Edits)
		if err != nil {
			return err
		}
		sched = next
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(renderPanelTable(rec.Params, sched, -1))
	printSuccess("Split panel %d on %q", panelID, rec.Name)

	return nil
}

// runWallOverride pins a panel to an absolute width and persists it.
func (c *CLI) runWallOverride(ctx context.Context, storeSpec, id string, panelID int, width string) error {
	if panelID < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "panel id must be positive")
	}
	dim, err := units.Parse(width)
	if err != nil {
		return err
	}
	if dim.ToInches() <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "override width must be greater than zero")
	}

	store, err := newStore(ctx, storeSpec)
	if err != nil {
		return fmt.Errorf("open wall store: %w", err)
	}
	defer store.Close()

	var sched wall.Schedule
	rec, err := updateWallRecord(ctx, store, id, func(r *wallstate.Record) error {
		r.Edits.SetOverride(panelID, dim.ToInches())
		next, err := layout.Compute(r.Params, r.Edits)
		if err != nil {
			return err
		}
		sched = next
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(renderPanelTable(rec.Params, sched, -1))
	printSuccess("Panel %d on %q pinned to %s", panelID, rec.Name, dim)

	return nil
}

// runWallClear drops all edits and persists the plain schedule.
func (c *CLI) runWallClear(ctx context.Context, storeSpec, id string) error {
	store, err := newStore(ctx, storeSpec)
	if err != nil {
		return fmt.Errorf("open wall store: %w", err)
	}
	defer store.Close()

	var sched wall.Schedule
	rec, err := updateWallRecord(ctx, store, id, func(r *wallstate.Record) error {
		r.Edits.Clear()
		next, err := layout.Compute(r.Params, r.Edits)
		if err != nil {
			return err
		}
		sched = next
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(renderPanelTable(rec.Params, sched, -1))
	printSuccess("Cleared edits on %q", rec.Name)

	return nil
}

// runWallDelete removes a stored wall.
func (c *CLI) runWallDelete(ctx context.Context, storeSpec, id string) error {
	store, err := newStore(ctx, storeSpec)
	if err != nil {
		return fmt.Errorf("open wall store: %w", err)
	}
	defer store.Close()

	rec, err := getWallRecord(ctx, store, id)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete wall: %w", err)
	}

	printSuccess("Deleted wall %q", rec.Name)
	return nil
}

// =============================================================================
// Store Helpers
// =============================================================================

// getWallRecord fetches one wall or reports which id was missing.
func getWallRecord(ctx context.Context, store wallstate.Store, id string) (*wallstate.Record, error) {
	if err := errors.ValidateRecordID(id); err != nil {
		return nil, err
	}
	rec, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read wall store: %w", err)
	}
	if rec == nil {
		return nil, errors.New(errors.ErrCodeWallNotFound, "wall %s not found", id)
	}
	return rec, nil
}

// updateWallRecord applies fn to a stored wall and writes it back. The
// store only persists when fn succeeds, so a rejected edit leaves the
// record untouched.
func updateWallRecord(ctx context.Context, store wallstate.Store, id string, fn func(*wallstate.Record) error) (*wallstate.Record, error) {
	if err := errors.ValidateRecordID(id); err != nil {
		return nil, err
	}
	rec, err := wallstate.Update(ctx, store, id, fn)
	if err != nil {
		if stderrors.Is(err, wallstate.ErrNotFound) {
			return nil, errors.New(errors.ErrCodeWallNotFound, "wall %s not found", id)
		}
		return nil, err
	}
	return rec, nil
}

// renderWallList renders stored walls as a table.
func renderWallList(recs []*wallstate.Record) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID,
			r.Name,
			r.Params.Width.String() + " × " + r.Params.Height.String(),
			editsSummary(r.Edits),
			strconv.Itoa(len(r.Objects)),
			formatRelativeTime(r.UpdatedAt),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("ID", "Name", "Size", "Edits", "Objects", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}
