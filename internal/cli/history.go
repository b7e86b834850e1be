package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagebuilder/pkg/editor"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/io"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// historyCommand creates the history command for persisted undo histories.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and edit persisted page histories",
	}

	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyExportCommand())
	cmd.AddCommand(c.historyStepCommand("undo", "Undo the last edit of a page", (*editor.Document).Undo))
	cmd.AddCommand(c.historyStepCommand("redo", "Redo the last undone edit of a page", (*editor.Document).Redo))
	cmd.AddCommand(c.historyClearCommand())

	return cmd
}

// withStore opens the history store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(*editor.Store) error) error {
	store, ch, err := c.newStore(ctx, false)
	if err != nil {
		return err
	}
	defer ch.Close()
	return fn(store)
}

// loadHistory returns the stored history of id, failing when none exists.
func loadHistory(ctx context.Context, store *editor.Store, id string) (*editor.History, error) {
	if err := perrors.ValidatePageID(id); err != nil {
		return nil, err
	}
	h, err := store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, perrors.New(perrors.ErrCodePageNotFound, "no history stored for page %s", id)
	}
	return h, nil
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <page-id>",
		Short: "Show the persisted history of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store *editor.Store) error {
				h, err := loadHistory(ctx, store, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(h)
				}
				fmt.Println(StyleTitle.Render(args[0]))
				printKeyValue("Key", store.Key(args[0]))
				printKeyValue("Undo steps", strconv.Itoa(len(h.Past)))
				printKeyValue("Redo steps", strconv.Itoa(len(h.Future)))
				printKeyValue("Nodes", strconv.Itoa(tree.Count(h.Present)))
				printKeyValue("Depth", strconv.Itoa(tree.Depth(h.Present)))
				if h.GridCols > 0 {
					printKeyValue("Grid", strconv.Itoa(h.GridCols)+" columns")
				}
				if len(h.Editor) > 0 {
					printKeyValue("Flagged", strconv.Itoa(len(h.Editor))+" nodes")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full history as JSON")

	return cmd
}

// historyExportCommand creates the "history export" subcommand.
func (c *CLI) historyExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <page-id>",
		Short: "Write the current state of a page as a page file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store *editor.Store) error {
				h, err := loadHistory(ctx, store, args[0])
				if err != nil {
					return err
				}
				page := &io.Page{ID: args[0], Components: h.Present}
				if output == "" {
					return io.WriteJSON(page, cmd.OutOrStdout())
				}
				if err := io.ExportJSON(page, output); err != nil {
					return err
				}
				printSuccess("Exported %s", args[0])
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// historyStepCommand creates a subcommand that applies one undo or redo step
// to a persisted page.
func (c *CLI) historyStepCommand(name, short string, step func(*editor.Document, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <page-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store *editor.Store) error {
				if _, err := loadHistory(ctx, store, args[0]); err != nil {
					return err
				}
				doc, err := editor.Open(ctx, args[0], nil, editor.Options{Store: store, Logger: c.Logger})
				if err != nil {
					return err
				}
				if err := step(doc, ctx); err != nil {
					return err
				}
				h := doc.History()
				printSuccess("%s %s", name, args[0])
				printDetail("%d undo · %d redo · %d nodes", len(h.Past), len(h.Future), tree.Count(h.Present))
				return nil
			})
		},
	}
}

// historyClearCommand creates the "history clear" subcommand.
func (c *CLI) historyClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear <page-id>",
		Short: "Delete the persisted history of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := perrors.ValidatePageID(args[0]); err != nil {
				return err
			}
			if !yes {
				return perrors.New(perrors.ErrCodeInvalidInput, "refusing to delete the history of %s without --yes", args[0])
			}
			ctx := cmd.Context()
			return c.withStore(ctx, func(store *editor.Store) error {
				if err := store.Clear(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Cleared history of %s", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")

	return cmd
}
