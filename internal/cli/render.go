package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagebuilder/pkg/cache"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/io"
	"github.com/matzehuels/pagebuilder/pkg/render"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string        // output file path (or base path for multiple formats)
	formats  []string      // output formats: "dot", "svg", "pdf", "png"
	detailed bool          // show attributes in node labels
	viewport tree.Viewport // preview viewport for hidden-node styling
	noCache  bool          // bypass the render cache
	rules    string        // YAML registry overriding the configured one
}

// renderCommand creates the render command for drawing page outlines.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr, viewport string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <page.json>",
		Short: "Render a page outline to DOT, SVG, PDF or PNG",
		Long: `Render the component tree of a page as a Graphviz outline. Containers are
drawn as filled boxes, hidden nodes dashed. Rendered outputs are cached by
tree content and options.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			opts.viewport = tree.Viewport(viewport)
			if opts.viewport == "" {
				opts.viewport = c.config().Drag.Viewport
			}
			if !opts.viewport.Valid() {
				return perrors.New(perrors.ErrCodeInvalidInput, "invalid viewport %q", viewport)
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runRender(ctx, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node attributes")
	cmd.Flags().StringVar(&viewport, "viewport", "", "preview viewport: desktop, tablet, mobile")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")
	cmd.Flags().StringVar(&opts.rules, "rules", "", "YAML rules registry (default: config or built-in)")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats(), f) {
			return perrors.New(perrors.ErrCodeUnsupported, "invalid format: %s (must be one of %s)", f, strings.Join(render.Formats(), ", "))
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats(), strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file a format is written to.
func outputPath(opts *renderOpts, input, format string) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

// runRender loads the page at input and renders it to every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	table, err := c.loadRules(opts.rules)
	if err != nil {
		return err
	}
	page, err := io.ImportJSON(input, validateOptions(table))
	if err != nil {
		return err
	}
	logger.Infof("Loaded page %s: %d nodes", page.ID, tree.Count(page.Components))

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()
	r := &renderer{cache: ch, keyer: c.newKeyer(), ttl: c.config().Cache.TTL.Duration}

	for _, format := range opts.formats {
		sp := startSpinner(ctx, "Rendering "+format)
		data, cached, err := r.render(ctx, page, format, opts)
		sp.Stop()
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := outputPath(opts, input, format)
		if err := writeOutput(path, data); err != nil {
			return err
		}
		if path == "-" {
			continue
		}
		printSuccess("Rendered %s", format)
		printFile(path)
		printStats(tree.Count(page.Components), tree.Depth(page.Components), cached)
	}
	return nil
}

// renderer renders page outlines through a cache keyed by tree content.
type renderer struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// render returns the rendered page and whether it came from the cache.
// Cache failures are logged and never fail a render.
func (r *renderer) render(ctx context.Context, page *io.Page, format string, opts *renderOpts) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)

	data, err := json.Marshal(page)
	if err != nil {
		return nil, false, err
	}
	key := r.keyer.RenderKey(cache.Hash(data), cache.RenderKeyOpts{
		Format:   format,
		Viewport: string(opts.viewport),
		Attrs:    opts.detailed,
	})

	if out, ok, err := r.cache.Get(ctx, key); err != nil {
		logger.Debug("render cache read failed", "err", err)
	} else if ok {
		logger.Debugf("Using cached %s (%d bytes)", format, len(out))
		return out, true, nil
	}

	out, err := render.Render(ctx, page.ID, page.Components, format, render.Options{
		Detailed: opts.detailed,
		Viewport: opts.viewport,
	})
	if err != nil {
		return nil, false, err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(out))

	if err := r.cache.Set(ctx, key, out, r.ttl); err != nil {
		logger.Debug("render cache write failed", "err", err)
	}
	return out, false, nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
