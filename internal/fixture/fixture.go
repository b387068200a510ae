// Package fixture builds small, valid documents for tests: captured-looking
// PDFs with a chosen page count and size, and cover PNGs.
package fixture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
)

// A4 in points, as Chrome emits it.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// PDFOptions shapes the generated document.
type PDFOptions struct {
	Pages  int
	Width  float64 // default A4Width
	Height float64 // default A4Height
	Title  string  // Info /Title, omitted when empty

	// InheritMediaBox puts the MediaBox on the page tree root instead of
	// on each page, as some producers do.
	InheritMediaBox bool
}

// PDF returns a classic-xref PDF 1.4 document with one line of text per page.
func PDF(o PDFOptions) []byte {
	if o.Width == 0 {
		o.Width = A4Width
	}
	if o.Height == 0 {
		o.Height = A4Height
	}

	w := &pdfWriter{}
	w.buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	box := fmt.Sprintf("[0 0 %s %s]", num(o.Width), num(o.Height))

	// 1 catalog, 2 pages, 3 font, 4 info, then page/content pairs.
	const firstPage = 5
	kids := &bytes.Buffer{}
	for i := 0; i < o.Pages; i++ {
		fmt.Fprintf(kids, "%d 0 R ", firstPage+2*i)
	}

	w.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	pages := fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d", kids.String(), o.Pages)
	if o.InheritMediaBox {
		pages += " /MediaBox " + box
	}
	w.object(2, pages+" >>")
	w.object(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	w.object(4, fmt.Sprintf("<< /Title (%s) /Producer (fixture) >>", escape(o.Title)))

	for i := 0; i < o.Pages; i++ {
		pageObj := firstPage + 2*i
		page := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R", pageObj+1)
		if !o.InheritMediaBox {
			page += " /MediaBox " + box
		}
		w.object(pageObj, page+" >>")

		content := fmt.Sprintf("BT /F1 12 Tf 72 %s Td (Captured page %d) Tj ET", num(o.Height-72), i+1)
		w.object(pageObj+1, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	return w.finish(firstPage+2*o.Pages, 1, 4)
}

type pdfWriter struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func (w *pdfWriter) object(n int, body string) {
	if w.offsets == nil {
		w.offsets = make(map[int]int)
	}
	w.offsets[n] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", n, body)
}

func (w *pdfWriter) finish(size, root, info int) []byte {
	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", size)
	w.buf.WriteString("0000000000 65535 f \n")
	for n := 1; n < size; n++ {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[n])
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, root, info, xref)
	return w.buf.Bytes()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var b bytes.Buffer
	for _, r := range []byte(s) {
		switch r {
		case '(', ')', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(r)
	}
	return b.String()
}

// PNG returns a w×h PNG. With alpha the right half is fully transparent,
// which lets tests check flattening onto white.
func PNG(w, h int, alpha bool) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 200, G: 30, B: 60, A: 255}
			if alpha && x >= w/2 {
				c.A = 0
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
