package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-wemark/internal/assets"
	"github.com/alnah/go-wemark/internal/fileutil"
	"github.com/alnah/go-wemark/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits for multi-tenant safety.
const (
	MaxNameLength = 64   // Theme and palette names
	MaxURLLength  = 2048 // Browser limit
	MaxPathLength = 4096 // PATH_MAX on Linux
)

// Diagram stage bounds.
const (
	MaxStageWidth   = 4096
	MinDiagramScale = 0.5
	MaxDiagramScale = 4.0
)

// Logging levels.
const (
	LogNone   = "none"
	LogNormal = "normal"
	LogDebug  = "debug"
)

// Config holds all configuration for fragment generation.
type Config struct {
	Theme      string           `yaml:"theme"`     // Article theme (empty = default)
	CodeTheme  string           `yaml:"codeTheme"` // Code palette (empty = github)
	Terminal   bool             `yaml:"terminal"`  // Window bar above code blocks
	Typography TypographyConfig `yaml:"typography"`
	Diagram    DiagramConfig    `yaml:"diagram"`
	Formula    FormulaConfig    `yaml:"formula"`
	Assets     AssetsConfig     `yaml:"assets"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DiagramConfig defines the diagram staging surface.
type DiagramConfig struct {
	Disabled      bool    `yaml:"disabled"`      // Never start a browser; diagrams stay as code
	StageWidth    int     `yaml:"stageWidth"`    // CSS px (0 = 375)
	Scale         float64 `yaml:"scale"`         // Bitmap scale (0 = 2)
	MermaidScript string  `yaml:"mermaidScript"` // URL or local .js file (empty = CDN)
	Browser       string  `yaml:"browser"`       // Chrome binary (empty = rod managed)
}

// FormulaConfig defines formula image options.
type FormulaConfig struct {
	Endpoint string `yaml:"endpoint"` // LaTeX image endpoint (empty = default)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// LoggingConfig defines console logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // none, normal, debug (empty = normal)
}

// Validate checks enums, bounds and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., API adapters, library users).
func (c *Config) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"theme", c.Theme},
		{"codeTheme", c.CodeTheme},
	} {
		if err := validateFieldLength(f.name, f.value, MaxNameLength); err != nil {
			return err
		}
		if f.value != "" {
			if err := assets.ValidateAssetName(f.value); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidValue, f.name, err)
			}
		}
	}

	// Validate diagram fields
	if c.Diagram.StageWidth < 0 || c.Diagram.StageWidth > MaxStageWidth {
		return fmt.Errorf("%w: diagram.stageWidth: must be between 0 and %d, got %d", ErrInvalidValue, MaxStageWidth, c.Diagram.StageWidth)
	}
	if c.Diagram.Scale != 0 && (c.Diagram.Scale < MinDiagramScale || c.Diagram.Scale > MaxDiagramScale) {
		return fmt.Errorf("%w: diagram.scale: must be between %.1f and %.1f, got %.2f", ErrInvalidValue, MinDiagramScale, MaxDiagramScale, c.Diagram.Scale)
	}
	if err := validateFieldLength("diagram.mermaidScript", c.Diagram.MermaidScript, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("diagram.browser", c.Diagram.Browser, MaxPathLength); err != nil {
		return err
	}

	// Validate formula endpoint
	if err := validateFieldLength("formula.endpoint", c.Formula.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if c.Formula.Endpoint != "" && !fileutil.IsURL(c.Formula.Endpoint) {
		return fmt.Errorf("%w: formula.endpoint: must be an http(s) URL, got %q", ErrInvalidValue, c.Formula.Endpoint)
	}

	// Validate paths
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "", LogNone, LogNormal, LogDebug:
		// valid
	default:
		return fmt.Errorf("%w: logging.level: invalid value %q (must be none, normal, or debug)", ErrInvalidValue, c.Logging.Level)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the editor's initial settings.
func DefaultConfig() *Config {
	return &Config{
		Typography: DefaultTypography(),
		Logging:    LoggingConfig{Level: LogNormal},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
// Fields the file omits keep their DefaultConfig values; typography is
// clamped to the editor ranges.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Typography = cfg.Typography.Clamp()

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-wemark/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-wemark", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
