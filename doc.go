// Package wemark converts Markdown into a single inline-styled HTML fragment
// that survives pasting into publishing editors which strip stylesheets.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := wemark.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, wemark.Input{
//	    Markdown: "# Hello\n\nEnergy is $E=mc^2$.",
//	    Theme:    "lapis",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("article.html", []byte(result.HTML), 0644)
//
// The result is one <section> element. Every element carries its styles in a
// style attribute; code tokens carry resolved colors instead of classes.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Code blocks and code spans are swapped for placeholders
//  2. LaTeX formulas ($...$, $$...$$) become formula image markup
//  3. Placeholders are restored and Markdown is parsed via Goldmark
//  4. Mermaid fences are laid out in headless Chrome and embedded as PNG
//  5. Theme, code palette and typography are written as inline styles
//  6. Everything is wrapped in the root <section>
//
// A diagram that fails to render stays in the output as plain code; the
// other diagrams are unaffected.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := wemark.NewConverter(
//	    wemark.WithTimeout(time.Minute),
//	    wemark.WithLogger(logger),
//	    wemark.WithAssetPath("/path/to/custom/assets"),
//	)
//
// Per-conversion settings are passed via Input:
//
//	result, err := conv.Convert(ctx, wemark.Input{
//	    Markdown:       content,
//	    Theme:          "sakura",
//	    CodeTheme:      "dracula",
//	    TerminalWindow: true,
//	    Typography:     &wemark.Typography{FontSize: 15, LineHeight: 1.8},
//	    SourceDir:      "/path/to/markdown", // for relative image paths
//	})
//
// # Live Editing
//
// Session debounces edits and drops results overtaken by newer edits:
//
//	s := wemark.NewSession(conv, func(r *wemark.ConvertResult) { show(r.HTML) })
//	defer s.Close()
//	s.Update(wemark.Input{Markdown: text})
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser instances:
//
//	pool := wemark.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Custom Assets
//
// Override built-in themes and code palettes with YAML files:
//
//	assets/
//	├── themes/
//	│   └── custom.yaml
//	└── palettes/
//	    └── custom.yaml
//
// # Browser Requirements
//
// Diagrams and PNG/PDF export require Chrome/Chromium. The go-rod library
// automatically downloads a managed Chromium instance on first run
// (~/.cache/rod/browser/). Use WithoutBrowser to run without one.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package wemark
