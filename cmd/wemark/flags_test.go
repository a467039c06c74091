package main

// Notes:
// - Flag parsing is tested through the parse* entry points; usage output is
//   covered in help_test.go.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseRenderFlags - Render flag parsing
// ---------------------------------------------------------------------------

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	f, rest, err := parseRenderFlags([]string{
		"doc.md",
		"-o", "out",
		"-t", "lapis",
		"--code-theme", "dracula",
		"--terminal",
		"--font-size", "18",
		"--letter-spacing", "0",
		"--no-browser",
		"--stage-width", "420",
		"--scale", "3",
		"-w", "2",
		"--timeout", "45s",
		"-v",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseRenderFlags() error = %v", err)
	}

	if len(rest) != 1 || rest[0] != "doc.md" {
		t.Errorf("positional = %v, want [doc.md]", rest)
	}
	if f.output != "out" || f.workers != 2 || f.timeout != "45s" {
		t.Errorf("I/O flags = %q %d %q", f.output, f.workers, f.timeout)
	}
	if f.style.theme != "lapis" || f.style.codeTheme != "dracula" || !f.style.terminal {
		t.Errorf("style = %+v", f.style)
	}
	if f.style.fontSize != 18 {
		t.Errorf("fontSize = %v, want 18", f.style.fontSize)
	}
	if !f.diagram.noBrowser || f.diagram.stageWidth != 420 || f.diagram.scale != 3 {
		t.Errorf("diagram = %+v", f.diagram)
	}
	if !f.common.verbose {
		t.Error("verbose not set")
	}
}

func TestParseRenderFlags_TracksExplicitZero(t *testing.T) {
	t.Parallel()

	f, _, err := parseRenderFlags([]string{"--letter-spacing", "0", "doc.md"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	if !f.changed("letter-spacing") {
		t.Error("explicit zero letter-spacing not recorded")
	}
	if f.changed("paragraph-spacing") {
		t.Error("unset paragraph-spacing recorded as changed")
	}
}

func TestParseRenderFlags_UnknownFlag(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	_, _, err := parseRenderFlags([]string{"--page-size", "a4"}, &stderr)
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if stderr.Len() == 0 {
		t.Error("usage should be printed on error")
	}
}

func TestParseRenderFlags_Help(t *testing.T) {
	t.Parallel()

	_, _, err := parseRenderFlags([]string{"--help"}, &bytes.Buffer{})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("error = %v, want flag.ErrHelp", err)
	}
}

// ---------------------------------------------------------------------------
// TestParseWatchFlags / TestParseExportFlags - Command-specific flags
// ---------------------------------------------------------------------------

func TestParseWatchFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want time.Duration
	}{
		{"default debounce", []string{"doc.md"}, defaultWatchDebounce},
		{"custom debounce", []string{"--debounce", "1s", "doc.md"}, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, rest, err := parseWatchFlags(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatal(err)
			}
			if f.debounce != tt.want {
				t.Errorf("debounce = %v, want %v", f.debounce, tt.want)
			}
			if len(rest) != 1 {
				t.Errorf("positional = %v", rest)
			}
		})
	}
}

func TestParseExportFlags(t *testing.T) {
	t.Parallel()

	f, _, err := parseExportFlags([]string{"--png", "--pdf", "-t", "sakura", "doc.md"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if !f.png || !f.pdf {
		t.Errorf("png/pdf = %v/%v", f.png, f.pdf)
	}
	if f.style.theme != "sakura" {
		t.Errorf("theme = %q, shared flags must be registered", f.style.theme)
	}
}
