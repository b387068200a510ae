package assets

// Names of the assets a book build loads.
const (
	StyleEPUB      = "epub"
	TemplateFooter = "footer"
	TemplateTOC    = "toc"
)

// AssetLoader loads stylesheets and templates by name.
type AssetLoader interface {
	// LoadStyle loads a stylesheet by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}
