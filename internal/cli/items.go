package cli

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"sortable-list/internal/store"

	"github.com/spf13/cobra"
)

// entryList renders as a table in text format.
type entryList []store.Entry

func (l entryList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for i, e := range l {
		rows = append(rows, []string{strconv.Itoa(i), e.ID, e.Title, e.Rank})
	}
	return []string{"POS", "ID", "TITLE", "RANK"}, rows
}

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and reorder items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsRemoveCmd(app))
	cmd.AddCommand(newItemsSeedCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.store().List(cmd.Context())
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeData(cmd, app, entryList(entries))
		},
	}
}

func newItemsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Append an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.store().Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, app, err)
			}
			app.log.Info().Str("id", e.ID).Msg("item added")
			if textFormat(app) {
				return writeOut(cmd, app, entryList{e})
			}
			return writeData(cmd, app, e)
		},
	}
}

func newItemsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the item at position from to position to (0-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			to, err := parsePosition(args[1])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			s := app.store()
			if err := s.Move(cmd.Context(), from, to); err != nil {
				return writeErr(cmd, app, err)
			}
			app.log.Info().Int("from", from).Int("to", to).Msg("item moved")
			entries, err := s.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeData(cmd, app, entryList(entries))
		},
	}
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := app.store().Remove(cmd.Context(), id); err != nil {
				return writeErr(cmd, app, err)
			}
			app.log.Info().Str("id", id).Msg("item removed")
			if textFormat(app) {
				return writeOut(cmd, app, "removed "+id)
			}
			return writeData(cmd, app, map[string]any{"removed": id})
		},
	}
}

func newItemsSeedCmd(app *App) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all items with numbered rows 1..count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return writeErr(cmd, app, errors.New("--count must not be negative"))
			}
			start := time.Now()
			entries, err := app.store().Seed(cmd.Context(), count)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			app.log.Info().Int("count", count).Dur("took", time.Since(start)).Msg("seeded")
			if textFormat(app) {
				return writeOut(cmd, app, "seeded "+strconv.Itoa(len(entries))+" items")
			}
			return writeData(cmd, app, map[string]any{"count": len(entries)})
		},
	}
	cmd.Flags().IntVar(&count, "count", 300, "Number of rows")
	return cmd
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, errPositionArg(s)
	}
	return n, nil
}
