// Package config loads the book definition: metadata, source locations,
// asset paths, page layout and output paths. DefaultConfig is the built-in
// book; a YAML file overrides any subset of it.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-html2book/internal/fileutil"
	"github.com/alnah/go-html2book/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRequired   = errors.New("required field is empty")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxNameLength     = 100
	MaxSubjectLength  = 500
	MaxKeywordLength  = 50
	MaxKeywords       = 32
	MaxLanguageLength = 35 // BCP 47 upper bound in practice
	MaxPathLength     = 4096
	MaxURLLength      = 2048
	MaxFamilyLength   = 100
	MaxPageSizeLength = 10
)

// Margin bounds in CSS pixels.
const (
	MinMarginPx = 0
	MaxMarginPx = 400
)

// Config holds everything needed to publish one book.
type Config struct {
	Book    BookConfig    `yaml:"book"`
	Source  SourceConfig  `yaml:"source"`
	Assets  AssetsConfig  `yaml:"assets"`
	Page    PageConfig    `yaml:"page"`
	Capture CaptureConfig `yaml:"capture"`
	Output  OutputConfig  `yaml:"output"`
}

// BookConfig is the metadata shared by the PDF and the EPUB.
type BookConfig struct {
	Title    string   `yaml:"title"`
	Author   string   `yaml:"author"`
	Subject  string   `yaml:"subject"`
	Keywords []string `yaml:"keywords"`
	Language string   `yaml:"language"` // EPUB dc:language (default: "en")
}

// SourceConfig locates the rendered site.
type SourceConfig struct {
	URL  string `yaml:"url"`  // page captured to PDF
	HTML string `yaml:"html"` // file packaged into the EPUB
}

// AssetsConfig locates the files embedded in both artifacts.
type AssetsConfig struct {
	BasePath    string     `yaml:"basePath"`    // template store overrides (empty = embedded only)
	Cover       string     `yaml:"cover"`       // PNG used by both formats
	TOCTemplate string     `yaml:"tocTemplate"` // empty = embedded toc.html
	Font        FontConfig `yaml:"font"`
}

// FontConfig describes the book font.
type FontConfig struct {
	File       string   `yaml:"file"`       // packaged into the EPUB
	Family     string   `yaml:"family"`     // CSS family name
	LocalNames []string `yaml:"localNames"` // tried first by the PDF footer
	URL        string   `yaml:"url"`        // remote fallback for the PDF footer
}

// PageConfig defines the captured page layout.
type PageConfig struct {
	Size         string  `yaml:"size"`         // "a4", "letter", "legal" (default: "a4")
	MarginTop    float64 `yaml:"marginTop"`    // CSS px (default: 100)
	MarginBottom float64 `yaml:"marginBottom"` // CSS px (default: 100)
}

// CaptureConfig bounds the browser capture.
type CaptureConfig struct {
	Timeout string `yaml:"timeout"` // Go duration (default: "2m")
}

// OutputConfig defines where artifacts land.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	PDF  string `yaml:"pdf"`
	EPUB string `yaml:"epub"`
}

// DefaultConfig returns the built-in book definition.
func DefaultConfig() *Config {
	return &Config{
		Book: BookConfig{
			Title:    "The Opinionated Guide To React",
			Author:   "Sara Vieira",
			Subject:  "It Depends",
			Keywords: []string{"javascript", "react"},
			Language: "en",
		},
		Source: SourceConfig{
			URL:  "http://localhost:8001",
			HTML: "public/index.html",
		},
		Assets: AssetsConfig{
			Cover: "static/cover.png",
			Font: FontConfig{
				File:       "generate-book/Merriweather-Regular.ttf",
				Family:     "Merriweather",
				LocalNames: []string{"Merriweather Regular", "Merriweather-Regular"},
				URL:        "./merryi.woff2",
			},
		},
		Page: PageConfig{
			Size:         "a4",
			MarginTop:    100,
			MarginBottom: 100,
		},
		Capture: CaptureConfig{Timeout: "2m"},
		Output: OutputConfig{
			Dir:  "book",
			PDF:  "book.pdf",
			EPUB: "book.epub",
		},
	}
}

// PDFPath returns the PDF artifact path.
func (c *Config) PDFPath() string {
	return filepath.Join(c.Output.Dir, c.Output.PDF)
}

// EPUBPath returns the EPUB artifact path.
func (c *Config) EPUBPath() string {
	return filepath.Join(c.Output.Dir, c.Output.EPUB)
}

// CaptureTimeout parses Capture.Timeout. Call Validate first.
func (c *Config) CaptureTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Capture.Timeout)
	return d
}

// Validate checks required fields, lengths and value ranges. LoadConfig calls
// it; callers building a Config by hand should too.
func (c *Config) Validate() error {
	required := []struct {
		field, value string
	}{
		{"book.title", c.Book.Title},
		{"book.author", c.Book.Author},
		{"source.url", c.Source.URL},
		{"source.html", c.Source.HTML},
		{"assets.cover", c.Assets.Cover},
		{"assets.font.file", c.Assets.Font.File},
		{"assets.font.family", c.Assets.Font.Family},
		{"output.pdf", c.Output.PDF},
		{"output.epub", c.Output.EPUB},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s", ErrFieldRequired, r.field)
		}
	}

	limits := []struct {
		field, value string
		max          int
	}{
		{"book.title", c.Book.Title, MaxTitleLength},
		{"book.author", c.Book.Author, MaxNameLength},
		{"book.subject", c.Book.Subject, MaxSubjectLength},
		{"book.language", c.Book.Language, MaxLanguageLength},
		{"source.url", c.Source.URL, MaxURLLength},
		{"source.html", c.Source.HTML, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.cover", c.Assets.Cover, MaxPathLength},
		{"assets.tocTemplate", c.Assets.TOCTemplate, MaxPathLength},
		{"assets.font.file", c.Assets.Font.File, MaxPathLength},
		{"assets.font.family", c.Assets.Font.Family, MaxFamilyLength},
		{"assets.font.url", c.Assets.Font.URL, MaxURLLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"output.pdf", c.Output.PDF, MaxPathLength},
		{"output.epub", c.Output.EPUB, MaxPathLength},
	}
	for _, l := range limits {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if len(c.Book.Keywords) > MaxKeywords {
		return fmt.Errorf("%w: book.keywords has %d entries (max %d)", ErrInvalidValue, len(c.Book.Keywords), MaxKeywords)
	}
	for i, kw := range c.Book.Keywords {
		if err := validateFieldLength(fmt.Sprintf("book.keywords[%d]", i), kw, MaxKeywordLength); err != nil {
			return err
		}
		if strings.ContainsAny(kw, ",;") {
			return fmt.Errorf("%w: book.keywords[%d] %q (must not contain ',' or ';')", ErrInvalidValue, i, kw)
		}
	}
	for i, name := range c.Assets.Font.LocalNames {
		if err := validateFieldLength(fmt.Sprintf("assets.font.localNames[%d]", i), name, MaxFamilyLength); err != nil {
			return err
		}
	}

	if u, err := url.Parse(c.Source.URL); err != nil || !fileutil.IsURL(c.Source.URL) || u.Host == "" {
		return fmt.Errorf("%w: source.url %q (must be an http or https URL)", ErrInvalidValue, c.Source.URL)
	}

	switch strings.ToLower(c.Page.Size) {
	case "", "a4", "letter", "legal":
	default:
		return fmt.Errorf("%w: page.size %q (must be a4, letter, or legal)", ErrInvalidValue, c.Page.Size)
	}
	for _, m := range []struct {
		field string
		value float64
	}{
		{"page.marginTop", c.Page.MarginTop},
		{"page.marginBottom", c.Page.MarginBottom},
	} {
		if m.value < MinMarginPx || m.value > MaxMarginPx {
			return fmt.Errorf("%w: %s %.1f (must be between %d and %d px)", ErrInvalidValue, m.field, m.value, MinMarginPx, MaxMarginPx)
		}
	}

	d, err := time.ParseDuration(c.Capture.Timeout)
	if err != nil || d <= 0 {
		return fmt.Errorf("%w: capture.timeout %q (must be a positive duration such as 90s or 2m)", ErrInvalidValue, c.Capture.Timeout)
	}

	if c.PDFPath() == c.EPUBPath() {
		return fmt.Errorf("%w: output.pdf and output.epub resolve to the same file", ErrInvalidValue)
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

// LoadConfig loads a book file by path or by name. Keys missing from the file
// keep their DefaultConfig values. A missing file is an error, never a silent
// fallback to the defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
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
	if err := yamlutil.Decode(data, cfg, yamlutil.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Dump renders cfg as YAML, the format LoadConfig reads.
func Dump(cfg *Config) ([]byte, error) {
	return yamlutil.Encode(cfg)
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches name.yaml then name.yml in the working
// directory, then in the user config directory (go-html2book/).
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-html2book", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Tried: triedPaths}
}

// NotFoundError lists the locations searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }
