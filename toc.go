package html2book

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-html2book/internal/assets"
)

// tocEntry is one heading listed in the table of contents.
type tocEntry struct {
	Level int    // 1-3
	Href  string // content.xhtml#id
	Text  string
}

// tocData fills the TOC template.
type tocData struct {
	Title   string
	Author  string
	Entries []tocEntry
}

// loadTOCTemplate reads the template at path, or the template store's toc
// template when path is empty.
func loadTOCTemplate(loader assets.AssetLoader, path string) (string, error) {
	if path == "" {
		src, err := loader.LoadTemplate(assets.TemplateTOC)
		if err != nil {
			return "", &AssetError{Kind: "toc template", Path: assets.TemplateTOC, Err: err}
		}
		return src, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-configured template
	if err != nil {
		return "", &AssetError{Kind: "toc template", Path: path, Err: err}
	}
	return string(data), nil
}

// renderTOC executes the TOC template.
func renderTOC(src string, data tocData) (string, error) {
	tmpl, err := template.New(assets.TemplateTOC).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: parsing toc template: %v", ErrPackaging, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: rendering toc template: %v", ErrPackaging, err)
	}
	return buf.String(), nil
}

// prepareContent returns the markup packaged as the content item and the
// headings it links to. A full document contributes its body; a fragment
// is kept verbatim.
func prepareContent(source []byte) (string, []tocEntry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(source))
	if err != nil {
		return "", nil, fmt.Errorf("%w: parsing HTML source: %v", ErrPackaging, err)
	}

	body := string(source)
	if isFullDocument(source) {
		body, err = doc.Find("body").First().Html()
		if err != nil {
			return "", nil, fmt.Errorf("%w: serializing body: %v", ErrPackaging, err)
		}
	}
	return body, collectHeadings(doc), nil
}

func isFullDocument(source []byte) bool {
	head := bytes.ToLower(source)
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<body"))
}

// collectHeadings lists h1-h3 elements carrying an id, in document order.
// Headings without an id cannot be linked and are skipped.
func collectHeadings(doc *goquery.Document) []tocEntry {
	var entries []tocEntry
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		entries = append(entries, tocEntry{
			Level: int(goquery.NodeName(s)[1] - '0'),
			Href:  contentFile + "#" + id,
			Text:  text,
		})
	})
	return entries
}
