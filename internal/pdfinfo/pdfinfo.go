// Package pdfinfo reads the page tree and document information of a PDF
// without modifying it. It backs the sanity check run on every browser
// capture and lets tests inspect assembled books.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxTreeDepth bounds the Parent walk on cyclic page trees.
const maxTreeDepth = 32

// ErrMalformed indicates the bytes are not a readable PDF.
var ErrMalformed = errors.New("malformed PDF")

// PageSize is a page's MediaBox extent in points.
type PageSize struct {
	Width  float64
	Height float64
}

// Info is what Inspect extracts.
type Info struct {
	Pages    []PageSize
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// PageCount returns the number of pages found in the page tree.
func (i *Info) PageCount() int { return len(i.Pages) }

// KeywordList splits Keywords on commas and semicolons, trimming blanks.
func (i *Info) KeywordList() []string {
	fields := strings.FieldsFunc(i.Keywords, func(r rune) bool { return r == ',' || r == ';' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Inspect parses data and reports every page size and the Info dictionary
// text entries. The reader panics on some corrupt inputs; those panics are
// returned as ErrMalformed.
func Inspect(data []byte) (info *Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	root := r.Trailer().Key("Root")
	if root.Key("Pages").IsNull() {
		return nil, fmt.Errorf("%w: catalog has no page tree", ErrMalformed)
	}

	n := r.NumPage()
	info = &Info{Pages: make([]PageSize, 0, n)}
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			return nil, fmt.Errorf("%w: page %d of %d missing from page tree", ErrMalformed, i, n)
		}
		size, err := mediaBoxSize(inherited(page.V, "MediaBox"))
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrMalformed, i, err)
		}
		info.Pages = append(info.Pages, size)
	}

	docInfo := r.Trailer().Key("Info")
	info.Title = docInfo.Key("Title").Text()
	info.Author = docInfo.Key("Author").Text()
	info.Subject = docInfo.Key("Subject").Text()
	info.Keywords = docInfo.Key("Keywords").Text()
	info.Creator = docInfo.Key("Creator").Text()
	info.Producer = docInfo.Key("Producer").Text()

	return info, nil
}

// inherited looks key up on the page, then on its ancestors in the page tree.
func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; !v.IsNull() && depth < maxTreeDepth; depth++ {
		if box := v.Key(key); !box.IsNull() {
			return box
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// PageTexts returns the text shown on each page, in page order.
func PageTexts(data []byte) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts = nil
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	n := r.NumPage()
	texts = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		var sb strings.Builder
		for _, t := range r.Page(i).Content().Text {
			sb.WriteString(t.S)
		}
		texts = append(texts, sb.String())
	}
	return texts, nil
}

func mediaBoxSize(box pdf.Value) (PageSize, error) {
	if box.Len() != 4 {
		return PageSize{}, errors.New("MediaBox must have 4 numbers")
	}
	llx, lly := box.Index(0).Float64(), box.Index(1).Float64()
	urx, ury := box.Index(2).Float64(), box.Index(3).Float64()
	size := PageSize{Width: urx - llx, Height: ury - lly}
	if size.Width <= 0 || size.Height <= 0 {
		return PageSize{}, fmt.Errorf("empty MediaBox [%g %g %g %g]", llx, lly, urx, ury)
	}
	return size, nil
}
