package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/rules"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// rulesOpts holds the command-line flags for the rules command.
type rulesOpts struct {
	file     string // YAML registry overriding the configured one
	json     bool   // print the table as JSON
	expanded bool   // list every allowed child instead of a count
}

// rulesCommand creates the rules command for inspecting placement rules.
func (c *CLI) rulesCommand() *cobra.Command {
	var opts rulesOpts

	cmd := &cobra.Command{
		Use:   "rules [kind]",
		Short: "Print the placement rules table",
		Long: `Print which block types may be dropped into each parent kind.

With a kind argument only that row is printed. The kind ROOT is the page
surface; every other kind is a container block type.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadRules(opts.file)
			if err != nil {
				return err
			}
			kinds := t.Kinds()
			if len(args) == 1 {
				kind := parseKind(args[0])
				if !kind.IsRoot() && !t.IsContainer(tree.Type(kind)) {
					return perrors.New(perrors.ErrCodeNotFound, "%s is not a container kind", args[0])
				}
				kinds = []tree.ParentKind{kind}
			}
			if opts.json {
				return writeRulesJSON(cmd.OutOrStdout(), t, kinds)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rulesTable(t, kinds, opts.expanded))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "YAML rules registry (default: config or built-in)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print as JSON")
	cmd.Flags().BoolVarP(&opts.expanded, "expanded", "e", false, "list every allowed child type")

	cmd.AddCommand(c.rulesCheckCommand(&opts))

	return cmd
}

// rulesCheckCommand creates the "rules check" subcommand.
func (c *CLI) rulesCheckCommand(opts *rulesOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "check <parent-kind> <child-type>",
		Short: "Check whether a block type may be dropped into a parent kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadRules(opts.file)
			if err != nil {
				return err
			}
			kind, child := parseKind(args[0]), tree.Type(args[1])
			if err := t.Check(kind, child); err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidPlacement, err, "drop rejected")
			}
			printSuccess("%s may be dropped into %s", child, kind)
			return nil
		},
	}
}

// parseKind accepts "root" in any case for the page surface.
func parseKind(s string) tree.ParentKind {
	if strings.EqualFold(s, string(tree.RootKind)) {
		return tree.RootKind
	}
	return tree.ParentKind(s)
}

func writeRulesJSON(w io.Writer, t *rules.Table, kinds []tree.ParentKind) error {
	out := make(map[tree.ParentKind][]tree.Type, len(kinds))
	for _, k := range kinds {
		out[k] = t.AllowedChildren(k)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// rulesTable renders one row per parent kind.
func rulesTable(t *rules.Table, kinds []tree.ParentKind, expanded bool) string {
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		allowed := t.AllowedChildren(k)
		tabbed := ""
		if !k.IsRoot() && t.IsTabbed(tree.Type(k)) {
			tabbed = iconSuccess
		}
		children := fmt.Sprintf("%d types", len(allowed))
		if expanded {
			names := make([]string, len(allowed))
			for i, a := range allowed {
				names[i] = string(a)
			}
			children = strings.Join(names, ", ")
		}
		rows = append(rows, []string{string(k), tabbed, children})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	kindStyle := lipgloss.NewStyle().Foreground(colorCyan)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Parent", "Tabbed", "Allowed children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return kindStyle
			case col == 1:
				return styleIconSuccess
			}
			return cellStyle
		})
	if expanded {
		tbl = tbl.Width(100)
	}
	return tbl.Render()
}
