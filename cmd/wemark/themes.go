package main

import (
	"fmt"
	"io"
	"strings"

	wemark "github.com/alnah/go-wemark"
)

// Names applied when a theme or palette is unknown.
const (
	defaultThemeName   = "default"
	defaultPaletteName = "github"
)

// runThemes lists the article themes and code palettes available with the
// current asset path.
func runThemes(args []string, env *Environment) error {
	fs := newFlagSet("themes", printThemesUsage, env.Stderr)
	var assetPath string
	fs.StringVar(&assetPath, "asset-path", "", "directory with themes/ and palettes/ overrides")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	opts := []wemark.Option{wemark.WithoutBrowser()}
	if assetPath != "" {
		opts = append(opts, wemark.WithAssetPath(assetPath))
	}
	conv, err := wemark.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	printNames(env.Stdout, "Themes", conv.Themes(), defaultThemeName)
	fmt.Fprintln(env.Stdout)
	printNames(env.Stdout, "Code themes", conv.CodeThemes(), defaultPaletteName)
	return nil
}

// printNames prints one name per line, marking the fallback.
func printNames(w io.Writer, title string, names []string, fallback string) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, name := range names {
		if strings.EqualFold(name, fallback) {
			fmt.Fprintf(w, "  %s (default)\n", name)
			continue
		}
		fmt.Fprintf(w, "  %s\n", name)
	}
}
