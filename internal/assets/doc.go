// Package assets provides the theme, palette and window-chrome definitions
// used to style HTML fragments.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the primary loader used by the converter. It tries the
// custom FilesystemLoader first, falling back to EmbeddedLoader if the asset
// is not found. This enables overriding one theme while keeping the rest.
//
// # Directory Structure
//
// Assets are YAML documents organized by kind:
//
//	{basePath}/
//	├── themes/
//	│   └── {name}.yaml     # element styles overriding the shared base
//	├── palettes/
//	│   └── {name}.yaml     # code block colors by token category
//	└── shared/
//	    ├── base.yaml       # styles every theme inherits
//	    └── window.yaml     # terminal window header and dots
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
