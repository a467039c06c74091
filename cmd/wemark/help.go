package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wemark <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render markdown files to styled HTML fragments")
	fmt.Fprintln(w, "  watch      Re-render a markdown file on every save")
	fmt.Fprintln(w, "  export     Snapshot rendered fragments as PNG or PDF")
	fmt.Fprintln(w, "  themes     List article themes and code palettes")
	fmt.Fprintln(w, "  doctor     Check Chrome and diagram library setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'wemark help <command>' for details on a specific command.")
}

// printSharedFlags prints the flags render, watch and export share.
func printSharedFlags(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>          Output file or directory (\"-\" = stdout)")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w, "      --timeout <d>            Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Theme:")
	fmt.Fprintln(w, "  -t, --theme <name>           Article theme (unknown = default)")
	fmt.Fprintln(w, "      --code-theme <name>      Code palette (unknown = github)")
	fmt.Fprintln(w, "      --terminal               Window bar above code blocks")
	fmt.Fprintln(w, "      --asset-path <dir>       Directory with themes/ and palettes/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Typography:")
	fmt.Fprintln(w, "      --font-size <px>         Body font size (12-24, default 16)")
	fmt.Fprintln(w, "      --paragraph-spacing <px> Space below paragraphs (0-60, default 24)")
	fmt.Fprintln(w, "      --heading-spacing <px>   Space below headings (5-80, default 30)")
	fmt.Fprintln(w, "      --line-height <f>        Line height (1-3, default 1.75)")
	fmt.Fprintln(w, "      --letter-spacing <em>    Letter spacing (0-0.5, default 0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Diagrams and formulas:")
	fmt.Fprintln(w, "      --no-browser             Never start Chrome; diagrams stay as code")
	fmt.Fprintln(w, "      --browser <path>         Chrome binary")
	fmt.Fprintln(w, "      --stage-width <px>       Diagram stage width (default 375)")
	fmt.Fprintln(w, "      --scale <f>              Diagram bitmap scale (0.5-4, default 2)")
	fmt.Fprintln(w, "      --mermaid-script <src>   Diagram library URL or local .js file")
	fmt.Fprintln(w, "      --formula-endpoint <url> LaTeX image endpoint")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show debug logs and timing")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wemark render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown files to HTML fragments with inline styles only.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	printSharedFlags(w)
	fmt.Fprintln(w, "  -w, --workers <n>            Parallel workers for directories (0 = auto)")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wemark watch <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Re-render a markdown file whenever it changes. Failed renders keep")
	fmt.Fprintln(w, "the previous fragment. Stop with Ctrl-C.")
	fmt.Fprintln(w)
	printSharedFlags(w)
	fmt.Fprintln(w, "      --debounce <d>           Quiet period after a change (default 150ms)")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wemark export <input> --png|--pdf [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown files, then snapshot each fragment in Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Formats:")
	fmt.Fprintln(w, "      --png                    Full-page screenshot")
	fmt.Fprintln(w, "      --pdf                    A4 print with 10mm margins")
	fmt.Fprintln(w)
	printSharedFlags(w)
	fmt.Fprintln(w, "  -w, --workers <n>            Parallel workers for directories (0 = auto)")
}

// printThemesUsage prints usage for the themes command.
func printThemesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wemark themes [--asset-path <dir>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List article themes and code palettes, including overrides from")
	fmt.Fprintln(w, "the asset path.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "themes":
		printThemesUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: wemark doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, the diagram library and the environment.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: wemark version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: wemark help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
