package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed templates/*.html
var templates embed.FS

// EmbeddedLoader serves the defaults compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle returns styles/{name}.css.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readEmbedded(styles, "styles/", name, ".css", ErrStyleNotFound)
}

// LoadTemplate returns templates/{name}.html.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readEmbedded(templates, "templates/", name, ".html", ErrTemplateNotFound)
}

func readEmbedded(fsys embed.FS, dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fsys.ReadFile(dir + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
