package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed themes/*.yaml palettes/*.yaml shared/*.yaml
var builtin embed.FS

// EmbeddedLoader loads assets from the embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// Load reads {kind}/{name}.yaml from the embedded assets.
func (e *EmbeddedLoader) Load(kind Kind, name string) ([]byte, error) {
	if err := validateRequest(kind, name); err != nil {
		return nil, err
	}

	content, err := builtin.ReadFile(path.Join(string(kind), name+assetExt))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrAssetNotFound, kind, name)
	}
	return content, nil
}

// List returns the embedded asset names of a kind.
func (e *EmbeddedLoader) List(kind Kind) ([]string, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	entries, err := fs.ReadDir(builtin, string(kind))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return assetNames(entries), nil
}

func assetNames(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), assetExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), assetExt))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
