package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/io"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// validateOpts holds the command-line flags for the validate command.
type validateOpts struct {
	rules     string // YAML registry overriding the configured one
	placement bool   // also check parent/child placement
}

// validateCommand creates the validate command for checking page files.
func (c *CLI) validateCommand() *cobra.Command {
	opts := validateOpts{placement: true}

	cmd := &cobra.Command{
		Use:   "validate <page.json>...",
		Short: "Check page files for structural and placement errors",
		Long: `Check page files. A page is valid when every node has a unique id and a
known type, nesting stays within the depth limit, only container types own
children, and every node sits under a parent kind that permits its type.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.loadRules(opts.rules)
			if err != nil {
				return err
			}
			vopts := validateOptions(table)

			failed := 0
			for _, path := range args {
				p, err := io.ImportJSON(path, vopts)
				if err == nil && opts.placement {
					err = table.CheckTree(p.Components)
				}
				if err != nil {
					failed++
					printError("%s", path)
					for _, line := range problems(err) {
						printDetail("%s", line)
					}
					continue
				}
				printSuccess("%s (%s)", path, p.ID)
				printStats(tree.Count(p.Components), tree.Depth(p.Components), false)
			}
			if failed > 0 {
				return perrors.New(perrors.ErrCodeInvalidTree, "%d of %d pages invalid", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.rules, "rules", "", "YAML rules registry (default: config or built-in)")
	cmd.Flags().BoolVar(&opts.placement, "placement", opts.placement, "check placement rules")

	return cmd
}

// problems splits a joined error into one line per problem.
func problems(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, problems(e)...)
		}
		return out
	}
	return strings.Split(fmt.Sprint(err), "\n")
}
