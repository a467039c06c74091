package main

// Notes:
// - loadSettings tests modify environment variables and cannot run in parallel.
// - converterOptions is checked through the converter it builds; option
//   internals are covered in the library tests.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	wemark "github.com/alnah/go-wemark"
	"github.com/alnah/go-wemark/internal/config"
)

// mustParse parses render flags or fails the test.
func mustParse(t *testing.T, args ...string) *renderFlags {
	t.Helper()
	f, _, err := parseRenderFlags(args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseRenderFlags(%v) error = %v", args, err)
	}
	return f
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags override config values
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("set flags override config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Theme = "sakura"
		cfg.Typography.LetterSpacing = 0.2

		f := mustParse(t, "-t", "lapis", "--letter-spacing", "0", "--stage-width", "500", "--no-browser", "-v")
		mergeFlags(f, cfg)

		if cfg.Theme != "lapis" {
			t.Errorf("Theme = %q, want lapis", cfg.Theme)
		}
		if cfg.Typography.LetterSpacing != 0 {
			t.Errorf("LetterSpacing = %v, explicit zero must override", cfg.Typography.LetterSpacing)
		}
		if cfg.Diagram.StageWidth != 500 {
			t.Errorf("StageWidth = %d, want 500", cfg.Diagram.StageWidth)
		}
		if !cfg.Diagram.Disabled {
			t.Error("--no-browser should disable the diagram browser")
		}
		if cfg.Logging.Level != config.LogDebug {
			t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
		}
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Theme = "sakura"
		cfg.Terminal = true
		cfg.Typography.FontSize = 20
		cfg.Diagram.Scale = 3

		mergeFlags(mustParse(t), cfg)

		if cfg.Theme != "sakura" || !cfg.Terminal {
			t.Errorf("theme/terminal changed: %q %v", cfg.Theme, cfg.Terminal)
		}
		if cfg.Typography.FontSize != 20 {
			t.Errorf("FontSize = %v, want 20", cfg.Typography.FontSize)
		}
		if cfg.Diagram.Scale != 3 {
			t.Errorf("Scale = %v, want 3", cfg.Diagram.Scale)
		}
	})

	t.Run("quiet silences logging", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeFlags(mustParse(t, "-q"), cfg)

		if cfg.Logging.Level != config.LogNone {
			t.Errorf("Logging.Level = %q, want none", cfg.Logging.Level)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveTimeout / TestValidateWorkers - Option bounds
// ---------------------------------------------------------------------------

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		env     time.Duration
		want    time.Duration
		wantErr bool
	}{
		{"neither set", "", 0, 0, false},
		{"env only", "", time.Minute, time.Minute, false},
		{"flag wins", "10s", time.Minute, 10 * time.Second, false},
		{"malformed", "ten", 0, 0, true},
		{"zero", "0s", 0, 0, true},
		{"negative", "-1s", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeout(tt.flag, tt.env)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("error = %v, want ErrInvalidTimeout", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{wemark.MaxPoolSize, false},
		{wemark.MaxPoolSize + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestLoadSettings - Priority: flags > env > config file > defaults
// ---------------------------------------------------------------------------

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "article.yaml")
	writeFile(t, cfgPath, `theme: sakura
typography:
  fontSize: 40
diagram:
  stageWidth: 420
logging:
  level: none
`)

	t.Run("config file then flags", func(t *testing.T) {
		env, _, _ := testEnv()
		s, err := loadSettings(mustParse(t, "-c", cfgPath, "--code-theme", "dracula"), env)
		if err != nil {
			t.Fatalf("loadSettings() error = %v", err)
		}
		if s.cfg.Theme != "sakura" || s.cfg.CodeTheme != "dracula" {
			t.Errorf("themes = %q/%q", s.cfg.Theme, s.cfg.CodeTheme)
		}
		if s.cfg.Typography.FontSize != config.FontSizeRange.Max {
			t.Errorf("FontSize = %v, want clamped %v", s.cfg.Typography.FontSize, config.FontSizeRange.Max)
		}
		if s.cfg.Diagram.StageWidth != 420 {
			t.Errorf("StageWidth = %d, want 420", s.cfg.Diagram.StageWidth)
		}
	})

	t.Run("env fills what config omits", func(t *testing.T) {
		t.Setenv("WEMARK_CONFIG", cfgPath)
		t.Setenv("WEMARK_THEME", "lapis")
		t.Setenv("WEMARK_CODE_THEME", "monokai")
		t.Setenv("WEMARK_WORKERS", "3")
		t.Setenv("WEMARK_TIMEOUT", "1m")

		env, _, _ := testEnv()
		s, err := loadSettings(mustParse(t), env)
		if err != nil {
			t.Fatalf("loadSettings() error = %v", err)
		}
		if s.cfg.Theme != "sakura" {
			t.Errorf("Theme = %q, config file must beat env", s.cfg.Theme)
		}
		if s.cfg.CodeTheme != "monokai" {
			t.Errorf("CodeTheme = %q, want env value", s.cfg.CodeTheme)
		}
		if s.workers != 3 || s.timeout != time.Minute {
			t.Errorf("workers/timeout = %d/%v", s.workers, s.timeout)
		}
	})

	t.Run("flags beat env", func(t *testing.T) {
		t.Setenv("WEMARK_WORKERS", "3")
		t.Setenv("WEMARK_TIMEOUT", "1m")

		env, _, _ := testEnv()
		s, err := loadSettings(mustParse(t, "-w", "0", "--timeout", "5s"), env)
		if err != nil {
			t.Fatalf("loadSettings() error = %v", err)
		}
		if s.workers != 0 {
			t.Errorf("workers = %d, explicit 0 must override env", s.workers)
		}
		if s.timeout != 5*time.Second {
			t.Errorf("timeout = %v, want 5s", s.timeout)
		}
	})

	t.Run("unknown env var warns", func(t *testing.T) {
		t.Setenv("WEMARK_THEMES", "lapis")

		env, _, stderr := testEnv()
		if _, err := loadSettings(mustParse(t), env); err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(stderr.Bytes(), []byte("WEMARK_THEMES")) {
			t.Errorf("stderr = %q, want warning for WEMARK_THEMES", stderr.String())
		}
	})

	t.Run("missing config", func(t *testing.T) {
		env, _, _ := testEnv()
		_, err := loadSettings(mustParse(t, "-c", filepath.Join(dir, "absent.yaml")), env)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid flag value", func(t *testing.T) {
		env, _, _ := testEnv()
		_, err := loadSettings(mustParse(t, "--stage-width", "9000"), env)
		if !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("too many workers", func(t *testing.T) {
		env, _, _ := testEnv()
		_, err := loadSettings(mustParse(t, "-w", "99"), env)
		if !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestSettings_ConverterOptions / TestSettings_Input - Library mapping
// ---------------------------------------------------------------------------

func TestSettings_ConverterOptions(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	conv, err := wemark.NewConverter(s.converterOptions()...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer func() { _ = conv.Close() }()

	_, err = conv.Export(context.Background(), "<section></section>", wemark.FormatPNG)
	if !errors.Is(err, wemark.ErrNoBrowser) {
		t.Errorf("Export() error = %v, --no-browser must disable export", err)
	}
}

func TestSettings_Input(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.cfg.Theme = "lapis"
	s.cfg.Terminal = true
	s.cfg.Typography.LineHeight = 2

	in := s.input("# Title", "/docs")

	if in.Markdown != "# Title" || in.SourceDir != "/docs" {
		t.Errorf("input = %+v", in)
	}
	if in.Theme != "lapis" || !in.TerminalWindow {
		t.Errorf("theme/terminal = %q/%v", in.Theme, in.TerminalWindow)
	}
	if in.Typography == nil || in.Typography.LineHeight != 2 {
		t.Errorf("Typography = %+v, want LineHeight 2", in.Typography)
	}
	if err := in.Validate(); err != nil {
		t.Errorf("input should validate: %v", err)
	}
}
