package assets

import "errors"

// AssetResolver tries a custom directory first and falls back to the
// embedded defaults when an asset is not overridden.
type AssetResolver struct {
	custom   AssetLoader // nil when no override directory is configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath means
// embedded assets only; an invalid one is an error.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}
	return resolver, nil
}

// LoadStyle loads a stylesheet, custom first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) {
		return l.LoadStyle(name)
	})
}

// LoadTemplate loads a template, custom first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) {
		return l.LoadTemplate(name)
	})
}

func (r *AssetResolver) loadWithFallback(load func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded)
	}

	content, err := load(r.custom)
	if err == nil {
		return content, nil
	}
	// Validation and I/O errors surface; only a missing override falls back.
	if !isNotFoundError(err) {
		return "", err
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
