package assets

// AssetLoader defines the contract for loading theme assets.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type AssetLoader interface {
	// Load returns the YAML document of the named asset.
	// Returns ErrAssetNotFound if the asset doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	Load(kind Kind, name string) ([]byte, error)

	// List returns the sorted names of all assets of a kind.
	List(kind Kind) ([]string, error)
}
