package theme

import (
	"fmt"
	"maps"
	"slices"

	"github.com/alnah/go-wemark/internal/assets"
	"github.com/alnah/go-wemark/internal/yamlutil"
)

type themeFile struct {
	Name   string            `yaml:"name"`
	Styles map[string]string `yaml:"styles"`
}

// Catalog holds every theme and palette known at load time. It is immutable
// once built and safe for concurrent use.
type Catalog struct {
	themes   map[string]*Theme
	palettes map[string]*Palette
	window   Window
}

// Load reads the shared base, every theme and every palette the loader lists.
// The default theme and palette must be present.
func Load(loader assets.AssetLoader) (*Catalog, error) {
	base, err := loadThemeFile(loader, assets.KindShared, assets.SharedBase)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		themes:   make(map[string]*Theme),
		palettes: make(map[string]*Palette),
	}

	themeNames, err := loader.List(assets.KindTheme)
	if err != nil {
		return nil, err
	}
	for _, name := range themeNames {
		tf, err := loadThemeFile(loader, assets.KindTheme, name)
		if err != nil {
			return nil, err
		}
		styles := maps.Clone(base.Styles)
		if styles == nil {
			styles = make(map[string]string)
		}
		maps.Copy(styles, tf.Styles)
		c.themes[name] = &Theme{Name: name, styles: styles}
	}

	paletteNames, err := loader.List(assets.KindPalette)
	if err != nil {
		return nil, err
	}
	for _, name := range paletteNames {
		p, err := loadPalette(loader, name)
		if err != nil {
			return nil, err
		}
		c.palettes[name] = p
	}

	if c.themes[assets.DefaultThemeName] == nil || c.palettes[assets.DefaultPaletteName] == nil {
		return nil, ErrMissingDefault
	}

	data, err := loader.Load(assets.KindShared, assets.SharedWindow)
	if err != nil {
		return nil, err
	}
	if err := yamlutil.UnmarshalStrict(data, &c.window); err != nil {
		return nil, fmt.Errorf("window chrome: %w", err)
	}
	if len(c.window.Dots) != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindowChrome, len(c.window.Dots))
	}

	return c, nil
}

func loadThemeFile(loader assets.AssetLoader, kind assets.Kind, name string) (*themeFile, error) {
	data, err := loader.Load(kind, name)
	if err != nil {
		return nil, err
	}
	var tf themeFile
	if err := yamlutil.UnmarshalStrict(data, &tf); err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	for key := range tf.Styles {
		if !styleKeys[key] {
			return nil, fmt.Errorf("%w: %q in theme %q", ErrUnknownStyleKey, key, name)
		}
	}
	return &tf, nil
}

func loadPalette(loader assets.AssetLoader, name string) (*Palette, error) {
	data, err := loader.Load(assets.KindPalette, name)
	if err != nil {
		return nil, err
	}
	var p Palette
	if err := yamlutil.UnmarshalStrict(data, &p); err != nil {
		return nil, fmt.Errorf("palette %q: %w", name, err)
	}
	if p.Background == "" || p.Color == "" {
		return nil, fmt.Errorf("%w: %q", ErrIncompletePalette, name)
	}
	for category := range p.Tokens {
		if !tokenCategories[category] {
			return nil, fmt.Errorf("%w: %q in palette %q", ErrUnknownCategory, category, name)
		}
	}
	p.Name = name
	return &p, nil
}

// Theme returns the named theme, or the default theme when name is unknown.
func (c *Catalog) Theme(name string) *Theme {
	if t, ok := c.themes[name]; ok {
		return t
	}
	return c.themes[assets.DefaultThemeName]
}

// Palette returns the named palette, or the default palette when name is
// unknown.
func (c *Catalog) Palette(name string) *Palette {
	if p, ok := c.palettes[name]; ok {
		return p
	}
	return c.palettes[assets.DefaultPaletteName]
}

// HasTheme reports whether name is a known theme.
func (c *Catalog) HasTheme(name string) bool {
	_, ok := c.themes[name]
	return ok
}

// HasPalette reports whether name is a known palette.
func (c *Catalog) HasPalette(name string) bool {
	_, ok := c.palettes[name]
	return ok
}

// ThemeNames returns the known theme names, sorted.
func (c *Catalog) ThemeNames() []string {
	return slices.Sorted(maps.Keys(c.themes))
}

// PaletteNames returns the known palette names, sorted.
func (c *Catalog) PaletteNames() []string {
	return slices.Sorted(maps.Keys(c.palettes))
}

// Window returns the terminal window chrome.
func (c *Catalog) Window() Window {
	return c.window
}
