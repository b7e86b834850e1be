package cli

import (
	"context"
	"encoding/json"
	goio "io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	"github.com/matzehuels/pagebuilder/pkg/io"
	"github.com/matzehuels/pagebuilder/pkg/script"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// replayOpts holds the command-line flags for the replay command.
type replayOpts struct {
	rules   string // YAML registry overriding the configured one
	output  string // write the resulting page here
	json    bool   // print the transcript as JSON
	persist bool   // record the replay in the page's persisted history
	idPref  string // deterministic id prefix; empty uses UUIDv7 ids
}

// replayCommand creates the replay command for running gesture scripts.
func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay <page.json> <script.yaml>",
		Short: "Replay a gesture script against a page",
		Long: `Replay a recorded gesture script against a page and print a transcript
of the actions, drop feedback and announcements each step produced.

Steps that fail are recorded in the transcript and the replay continues.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.replay(ctx, cmd.OutOrStdout(), opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.rules, "rules", "", "YAML rules registry (default: config or built-in)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the resulting page to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the transcript as JSON")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "record the replay in the page's persisted history")
	cmd.Flags().StringVar(&opts.idPref, "ids", "", "generate sequential node ids with this prefix")

	return cmd
}

// replay runs the script at scriptPath against the page at pagePath and
// writes the transcript to w.
func (c *CLI) replay(ctx context.Context, w goio.Writer, opts replayOpts, pagePath, scriptPath string) error {
	logger := loggerFromContext(ctx)

	table, err := c.loadRules(opts.rules)
	if err != nil {
		return err
	}
	page, err := io.ImportJSON(pagePath, validateOptions(table))
	if err != nil {
		return err
	}
	s, err := script.Load(scriptPath)
	if err != nil {
		return err
	}
	if s.Page != "" && s.Page != page.ID {
		logger.Warn("script was recorded against another page", "script", s.Page, "page", page.ID)
	}

	docOpts := editor.Options{Validate: validateOptions(table), Rules: table, Logger: logger}
	if opts.persist {
		store, ch, err := c.newStore(ctx, false)
		if err != nil {
			return err
		}
		defer ch.Close()
		docOpts.Store = store
	}
	doc, err := editor.Open(ctx, page.ID, page.Components, docOpts)
	if err != nil {
		return err
	}

	var ids tree.IDGenerator
	if opts.idPref != "" {
		ids = &tree.SequenceIDs{Prefix: opts.idPref}
	}
	m := dnd.NewMachine(c.machineOptions(table, ids))

	prog := newProgress(logger)
	tr, err := script.Run(ctx, doc, m, s)
	if err != nil {
		return err
	}
	prog.done("Replayed script", "page", page.ID, "steps", len(tr.Entries))

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tr); err != nil {
			return err
		}
	} else if err := tr.WriteText(w); err != nil {
		return err
	}

	if opts.output != "" {
		if err := io.ExportJSON(&io.Page{ID: page.ID, Components: tr.Tree}, opts.output); err != nil {
			return err
		}
		logger.Info("wrote page", "file", opts.output)
		printNextStep("Draw the result", appName+" render "+opts.output)
	}
	logger.Debug("replay finished", "actions", len(tr.Dispatched()), "rejections", tr.Rejections())
	return nil
}
