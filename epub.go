package html2book

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmaupin/go-epub"
	"github.com/google/uuid"

	"github.com/alnah/go-html2book/internal/assets"
	"github.com/alnah/go-html2book/internal/fileutil"
)

// Files inside the package.
const (
	contentFile = "content.xhtml"
	tocFile     = "toc.xhtml"
	cssFile     = "book.css"
	tocTitle    = "Table of Contents"
)

// EPUBInput is everything one EPUB is built from.
type EPUBInput struct {
	HTML        []byte // UTF-8 source, a full document or a fragment
	Book        BookMetadata
	Cover       string // image path
	Font        FontAsset
	TOCTemplate string // path; empty uses the template store
}

// EPUBAssembler packages an HTML source into an EPUB with the book's cover,
// font, stylesheet and a table of contents rendered from a template.
type EPUBAssembler struct {
	loader assets.AssetLoader
	logger *slog.Logger
}

// NewEPUBAssembler creates an EPUBAssembler. A nil loader uses the embedded
// template store; a nil logger discards.
func NewEPUBAssembler(loader assets.AssetLoader, logger *slog.Logger) *EPUBAssembler {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &EPUBAssembler{loader: loader, logger: logger}
}

// Assemble writes the EPUB to dest through a temporary file, so a failed
// run leaves any previous dest untouched. Missing input files return an
// *AssetError; everything else wraps ErrPackaging.
func (a *EPUBAssembler) Assemble(ctx context.Context, in EPUBInput, dest string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	for _, f := range []struct{ kind, path string }{
		{"cover", in.Cover},
		{"font", in.Font.File},
	} {
		if err := fileutil.CheckFile(f.path); err != nil {
			return &AssetError{Kind: f.kind, Path: f.path, Err: err}
		}
	}

	tocSrc, err := loadTOCTemplate(a.loader, in.TOCTemplate)
	if err != nil {
		return err
	}
	content, headings, err := prepareContent(in.HTML)
	if err != nil {
		return err
	}
	toc, err := renderTOC(tocSrc, tocData{Title: in.Book.Title, Author: in.Book.Author, Entries: headings})
	if err != nil {
		return err
	}

	// go-epub reads stylesheets from disk.
	staging, err := os.MkdirTemp("", "html2book-epub-*")
	if err != nil {
		return fmt.Errorf("%w: staging directory: %v", ErrPackaging, err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	book := epub.NewEpub(in.Book.Title)
	book.SetAuthor(in.Book.Author)
	book.SetDescription(in.Book.Subject)
	book.SetLang(in.Book.language())
	book.SetIdentifier(bookIdentifier(in.Book))

	fontPath, err := book.AddFont(in.Font.File, filepath.Base(in.Font.File))
	if err != nil {
		return packagingError("adding font", err)
	}

	css, err := buildEPUBCSS(a.loader, in.Font.Family, fontPath)
	if err != nil {
		return err
	}
	cssSource := filepath.Join(staging, cssFile)
	if err := os.WriteFile(cssSource, []byte(css), fileutil.FilePerm); err != nil {
		return fmt.Errorf("%w: staging stylesheet: %v", ErrPackaging, err)
	}
	cssPath, err := book.AddCSS(cssSource, cssFile)
	if err != nil {
		return packagingError("adding stylesheet", err)
	}

	coverPath, err := book.AddImage(in.Cover, "cover"+strings.ToLower(filepath.Ext(in.Cover)))
	if err != nil {
		return packagingError("adding cover", err)
	}
	book.SetCover(coverPath, "")

	if _, err := book.AddSection(toc, tocTitle, tocFile, cssPath); err != nil {
		return packagingError("adding table of contents", err)
	}
	if _, err := book.AddSection(content, in.Book.Title, contentFile, cssPath); err != nil {
		return packagingError("adding content", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	if err := fileutil.WriteAtomic(dest, book.Write); err != nil {
		return packagingError("writing "+dest, err)
	}

	a.logger.Debug("epub assembled",
		"path", dest,
		"toc_entries", len(headings),
		"font", fontPath,
		"cover", coverPath)
	return nil
}

// bookIdentifier derives a stable urn:uuid from title and author so repeated
// builds of the same book share an identifier.
func bookIdentifier(b BookMetadata) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("go-html2book:"+b.Title+"\x00"+b.Author))
	return "urn:uuid:" + id.String()
}

func packagingError(step string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPackaging, step, err)
}
