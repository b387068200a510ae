package html2book

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// BookMetadata is the single source of title, author, subject and keywords
// for both artifacts.
type BookMetadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords []string // order preserved; no ',' or ';' inside a keyword
	Language string   // EPUB dc:language; empty means "en"
}

// Validate requires a title and an author, and keywords free of the
// separators used to join them.
func (b BookMetadata) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidMetadata)
	}
	if strings.TrimSpace(b.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrInvalidMetadata)
	}
	// Readers split the Keywords entry on these separators.
	for _, kw := range b.Keywords {
		if strings.ContainsAny(kw, ",;") {
			return fmt.Errorf("%w: keyword %q contains a separator", ErrInvalidMetadata, kw)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with b.
func (b BookMetadata) Clone() BookMetadata {
	c := b
	if b.Keywords != nil {
		c.Keywords = append([]string(nil), b.Keywords...)
	}
	return c
}

// KeywordString is the PDF Keywords entry: keywords joined by ", ".
func (b BookMetadata) KeywordString() string {
	return strings.Join(b.Keywords, ", ")
}

func (b BookMetadata) language() string {
	if b.Language == "" {
		return "en"
	}
	return b.Language
}

// PageFormat is a named paper size in PDF points (1/72 in).
type PageFormat struct {
	Name     string
	WidthPt  float64
	HeightPt float64
}

// Standard formats.
var (
	FormatA4     = PageFormat{Name: "a4", WidthPt: 595.28, HeightPt: 841.89}
	FormatLetter = PageFormat{Name: "letter", WidthPt: 612, HeightPt: 792}
	FormatLegal  = PageFormat{Name: "legal", WidthPt: 612, HeightPt: 1008}
)

// pageSizeTolerancePt absorbs the browser's rounding of paper sizes to
// device units.
const pageSizeTolerancePt = 2.0

// LookupFormat returns the format for a case-insensitive name. Empty means A4.
func LookupFormat(name string) (PageFormat, error) {
	switch strings.ToLower(name) {
	case "", FormatA4.Name:
		return FormatA4, nil
	case FormatLetter.Name:
		return FormatLetter, nil
	case FormatLegal.Name:
		return FormatLegal, nil
	}
	return PageFormat{}, fmt.Errorf("%w: %q", ErrInvalidPageFormat, name)
}

// WidthInches returns the paper width in inches.
func (f PageFormat) WidthInches() float64 { return f.WidthPt / 72 }

// HeightInches returns the paper height in inches.
func (f PageFormat) HeightInches() float64 { return f.HeightPt / 72 }

// Matches reports whether w×h points is this format within tolerance.
func (f PageFormat) Matches(w, h float64) bool {
	return math.Abs(w-f.WidthPt) <= pageSizeTolerancePt &&
		math.Abs(h-f.HeightPt) <= pageSizeTolerancePt
}

// Margin bounds in CSS pixels.
const (
	DefaultMarginPx = 100
	MaxMarginPx     = 400
)

// cssPixelsPerInch converts CSS pixels to the inches the browser expects.
const cssPixelsPerInch = 96.0

// PageSettings is the captured page layout.
type PageSettings struct {
	Format       PageFormat
	MarginTop    float64 // CSS px
	MarginBottom float64 // CSS px
}

// DefaultPageSettings returns A4 with 100px top and bottom margins.
func DefaultPageSettings() PageSettings {
	return PageSettings{Format: FormatA4, MarginTop: DefaultMarginPx, MarginBottom: DefaultMarginPx}
}

// Validate checks the format is set and margins are in range.
func (p PageSettings) Validate() error {
	if p.Format.WidthPt <= 0 || p.Format.HeightPt <= 0 {
		return fmt.Errorf("%w: %q has no dimensions", ErrInvalidPageFormat, p.Format.Name)
	}
	for _, m := range []float64{p.MarginTop, p.MarginBottom} {
		if m < 0 || m > MaxMarginPx {
			return fmt.Errorf("%w: %.1fpx (must be between 0 and %d)", ErrInvalidMargin, m, MaxMarginPx)
		}
	}
	// Margins must leave room for content.
	if (p.MarginTop+p.MarginBottom)/cssPixelsPerInch >= p.Format.HeightInches() {
		return fmt.Errorf("%w: margins exceed page height", ErrInvalidMargin)
	}
	return nil
}

// FontAsset is the book font: a file packaged into the EPUB and a fallback
// chain for the PDF footer (local names first, then URL).
type FontAsset struct {
	File       string
	Family     string
	LocalNames []string
	URL        string
}

// Assets locates the files both artifacts are built from.
type Assets struct {
	Cover       string // PNG; drawn full-bleed in the PDF, package cover in the EPUB
	Font        FontAsset
	TOCTemplate string // empty uses the template store's toc.html
}

// OutputPaths are the artifact destinations. Each run overwrites them.
type OutputPaths struct {
	PDF  string
	EPUB string
}

// DefaultCaptureTimeout bounds the wait for the page to settle.
const DefaultCaptureTimeout = 2 * time.Minute

// Job is the complete, explicit configuration of one publishing run.
type Job struct {
	URL            string // page captured to PDF
	HTMLPath       string // file packaged into the EPUB
	Book           BookMetadata
	Page           PageSettings
	Assets         Assets
	Output         OutputPaths
	CaptureTimeout time.Duration // 0 uses DefaultCaptureTimeout
}

// Validate checks the job is complete. It does not touch the filesystem.
func (j Job) Validate() error {
	if j.URL == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidJob)
	}
	if j.HTMLPath == "" {
		return fmt.Errorf("%w: HTML source path is required", ErrInvalidJob)
	}
	if j.Assets.Cover == "" {
		return fmt.Errorf("%w: cover asset is required", ErrInvalidJob)
	}
	if j.Assets.Font.File == "" || j.Assets.Font.Family == "" {
		return fmt.Errorf("%w: font file and family are required", ErrInvalidJob)
	}
	if j.Output.PDF == "" || j.Output.EPUB == "" {
		return fmt.Errorf("%w: both output paths are required", ErrInvalidJob)
	}
	if j.Output.PDF == j.Output.EPUB {
		return fmt.Errorf("%w: PDF and EPUB outputs share a path", ErrInvalidJob)
	}
	if j.CaptureTimeout < 0 {
		return fmt.Errorf("%w: negative capture timeout", ErrInvalidJob)
	}
	if err := j.Book.Validate(); err != nil {
		return err
	}
	return j.Page.Validate()
}

func (j Job) captureTimeout() time.Duration {
	if j.CaptureTimeout == 0 {
		return DefaultCaptureTimeout
	}
	return j.CaptureTimeout
}
