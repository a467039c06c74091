package assets

// Kind selects the directory an asset lives in.
type Kind string

// Asset kinds.
const (
	KindTheme   Kind = "themes"
	KindPalette Kind = "palettes"
	KindShared  Kind = "shared"
)

// Names of the shared assets.
const (
	SharedBase   = "base"
	SharedWindow = "window"
)

// Built-in fallbacks for unknown selections.
const (
	DefaultThemeName   = "default"
	DefaultPaletteName = "github"
)

const assetExt = ".yaml"

func (k Kind) valid() bool {
	switch k {
	case KindTheme, KindPalette, KindShared:
		return true
	}
	return false
}
