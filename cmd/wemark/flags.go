package main

import (
	"errors"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// styleFlags holds theme and typography flags.
type styleFlags struct {
	theme            string
	codeTheme        string
	terminal         bool
	fontSize         float64
	paragraphSpacing float64
	headingSpacing   float64
	lineHeight       float64
	letterSpacing    float64
}

// diagramFlags holds diagram stage flags.
type diagramFlags struct {
	noBrowser     bool
	stageWidth    int
	scale         float64
	mermaidScript string
	browser       string
}

// renderFlags holds all flags shared by render, watch and export.
type renderFlags struct {
	common          commonFlags
	output          string
	workers         int
	timeout         string
	assetPath       string
	formulaEndpoint string
	style           styleFlags
	diagram         diagramFlags

	// set records flags given on the command line, so explicit zero
	// values still override config.
	set map[string]bool
}

// watchFlags holds flags of the watch command.
type watchFlags struct {
	renderFlags
	debounce time.Duration
}

// exportFlags holds flags of the export command.
type exportFlags struct {
	renderFlags
	png bool
	pdf bool
}

// changed reports whether name was given on the command line.
func (f *renderFlags) changed(name string) bool {
	return f.set[name]
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addStyleFlags adds theme and typography flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVarP(&f.theme, "theme", "t", "", "article theme name")
	fs.StringVar(&f.codeTheme, "code-theme", "", "code palette name")
	fs.BoolVar(&f.terminal, "terminal", false, "draw a window bar above code blocks")
	fs.Float64Var(&f.fontSize, "font-size", 0, "body font size in px (12-24)")
	fs.Float64Var(&f.paragraphSpacing, "paragraph-spacing", 0, "space below paragraphs in px (0-60)")
	fs.Float64Var(&f.headingSpacing, "heading-spacing", 0, "space below headings in px (5-80)")
	fs.Float64Var(&f.lineHeight, "line-height", 0, "line height multiplier (1-3)")
	fs.Float64Var(&f.letterSpacing, "letter-spacing", 0, "letter spacing in em (0-0.5)")
}

// addDiagramFlags adds diagram stage flags to a FlagSet.
func addDiagramFlags(fs *flag.FlagSet, f *diagramFlags) {
	fs.BoolVar(&f.noBrowser, "no-browser", false, "never start Chrome; diagrams stay as code")
	fs.IntVar(&f.stageWidth, "stage-width", 0, "diagram stage width in CSS px (default 375)")
	fs.Float64Var(&f.scale, "scale", 0, "diagram bitmap scale (0.5-4, default 2)")
	fs.StringVar(&f.mermaidScript, "mermaid-script", "", "diagram library URL or local .js file")
	fs.StringVar(&f.browser, "browser", "", "Chrome binary path")
}

// addRenderFlags registers every flag of renderFlags on fs.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (\"-\" = stdout)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.timeout, "timeout", "", "per-document timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with themes/ and palettes/ overrides")
	fs.StringVar(&f.formulaEndpoint, "formula-endpoint", "", "LaTeX image endpoint")

	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)
	addDiagramFlags(fs, &f.diagram)
}

// parseFlagSet parses args and records which flags were set.
func parseFlagSet(fs *flag.FlagSet, f *renderFlags, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		// ContinueOnError only prints usage for --help
		if !errors.Is(err, flag.ErrHelp) {
			fs.Usage()
		}
		return nil, err
	}
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
	return fs.Args(), nil
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", printRenderUsage, stderr)
	addRenderFlags(fs, f)

	rest, err := parseFlagSet(fs, f, args)
	if err != nil {
		return nil, nil, err
	}
	return f, rest, nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, stderr io.Writer) (*watchFlags, []string, error) {
	f := &watchFlags{}
	fs := newFlagSet("watch", printWatchUsage, stderr)
	addRenderFlags(fs, &f.renderFlags)
	fs.DurationVar(&f.debounce, "debounce", defaultWatchDebounce, "quiet period after the last change")

	rest, err := parseFlagSet(fs, &f.renderFlags, args)
	if err != nil {
		return nil, nil, err
	}
	return f, rest, nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", printExportUsage, stderr)
	addRenderFlags(fs, &f.renderFlags)
	fs.BoolVar(&f.png, "png", false, "export a PNG screenshot")
	fs.BoolVar(&f.pdf, "pdf", false, "export an A4 PDF")

	rest, err := parseFlagSet(fs, &f.renderFlags, args)
	if err != nil {
		return nil, nil, err
	}
	return f, rest, nil
}
