package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/pipeline"
	"github.com/matzehuels/zoomtree/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file (single input and format) or base path
	formats  string // comma-separated output formats
	vizType  string // treemap or nodelink
	dataPath string // JSONPath of the hierarchy
	format   string // dataset format override
	focus    string // node ID to zoom to
	title    string
	width    float64
	height   float64
	scale    float64
	detailed bool // nodelink: show weight and depth
	maxDepth int  // nodelink: depth cutoff
	noCache  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file|url|glob>...",
		Short: "Render datasets as treemaps",
		Long: `Render one or more hierarchical datasets.

Inputs are local files, http(s) URLs or mongo:<name> references. File
arguments may be glob patterns, including ** (quote them to keep the shell
from expanding them).`,
		Example: `  zoomtree render data/housing.json
  zoomtree render data/housing.json -f svg,png --focus 0.2
  zoomtree render 'data/**/*.yaml' -o out/
  zoomtree render https://example.org/tree.json -t nodelink -f dot`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), inputs, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input and format), base path, or directory ending in /")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", "", "visualization type: treemap (default), nodelink")
	cmd.Flags().StringVar(&opts.dataPath, "data-path", "", "JSONPath of the hierarchy in the document (default $.data)")
	cmd.Flags().StringVar(&opts.format, "input-format", "", "dataset format: json, yaml, toml (default from extension)")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "node ID to zoom to before rendering (e.g. 0.2.1)")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title (default the focal path)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width (default 1400)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height (default 700)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG resolution multiplier (default 2)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show weight and depth (nodelink)")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "depth cutoff (nodelink)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	registerFlagCompletions(cmd)

	return cmd
}

// pipelineOptions layers the flags over the configured defaults.
func (c *CLI) pipelineOptions(input string, opts renderOpts) pipeline.Options {
	p := c.baseOptions(input)
	if opts.formats != "" || len(p.Formats) == 0 {
		p.Formats = parseFormats(opts.formats)
	}
	if opts.vizType != "" {
		p.VizType = opts.vizType
	}
	if opts.dataPath != "" {
		p.DataPath = opts.dataPath
	}
	if opts.width > 0 {
		p.Width = opts.width
	}
	if opts.height > 0 {
		p.Height = opts.height
	}
	if opts.scale > 0 {
		p.Scale = opts.scale
	}
	p.Format = opts.format
	p.Focus = opts.focus
	p.Title = opts.title
	p.Detailed = opts.detailed
	p.MaxDepth = opts.maxDepth
	p.Refresh = opts.noCache
	return p
}

func (c *CLI) runRender(ctx context.Context, inputs []string, opts renderOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	multi := len(inputs) > 1
	for _, input := range inputs {
		if err := c.renderOne(ctx, runner, input, opts, multi); err != nil {
			if len(inputs) == 1 {
				return err
			}
			printError("%s: %s", input, errors.UserMessage(err))
			return fmt.Errorf("render %s: %w", input, err)
		}
	}
	return nil
}

func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, input string, opts renderOpts, multi bool) error {
	popts := c.pipelineOptions(input, opts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx), "render")
	var spinner *Spinner
	if source.IsRemote(input) {
		spinner = newSpinner(ctx, "Fetching "+input+"...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("rendered", "input", input, "formats", strings.Join(popts.Formats, ","), "cached", result.CacheInfo.RenderHit)

	printSuccess("Rendered %s", StyleHighlight.Render(input))
	printStats(result.Stats.Nodes, result.Stats.Leaves, result.Stats.MaxDepth, result.CacheInfo.RenderHit)

	paths := outputPaths(opts.output, input, popts.Formats, multi)
	for _, format := range popts.Formats {
		path := paths[format]
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// =============================================================================
// Inputs and Outputs
// =============================================================================

// expandInputs expands glob patterns among args. Remote references and
// plain paths pass through; a pattern that matches nothing is an error.
func expandInputs(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, arg := range args {
		if source.IsRemote(arg) || !isGlob(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid pattern %q", arg)
		}
		if len(matches) == 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// basePath derives the output path without extension. If output is empty,
// it strips the extension from input (or uses the last URL segment). An
// output ending in a separator is a directory that receives the input's
// base name.
func basePath(output, input string) string {
	name := input
	if source.IsRemote(input) {
		name, _, _ = strings.Cut(name, "?")
		name = name[strings.LastIndexAny(name, "/:")+1:]
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		stem = appName
	}

	switch {
	case output == "":
		if source.IsRemote(input) {
			return stem
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	case strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)):
		return filepath.Join(output, filepath.Base(stem))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to a file. A single input rendered in a
// single format writes to -o verbatim.
func outputPaths(output, input string, formats []string, multi bool) map[string]string {
	paths := make(map[string]string, len(formats))
	if !multi && len(formats) == 1 && output != "" && !strings.HasSuffix(output, "/") {
		paths[formats[0]] = output
		return paths
	}
	if multi && output != "" && !strings.HasSuffix(output, "/") {
		output += "/"
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
