package html2book

// Notes:
// - Assemble: page count N+1, cover page size equals the captured first
//   page, metadata read back through internal/pdfinfo
// - Capture checks: malformed, empty and wrong-size captures are rejected
//   before any pdfcpu work
// - The cover's pixel content is not asserted; decodeCover is tested in
//   cover_test.go

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/alnah/go-html2book/internal/fixture"
	"github.com/alnah/go-html2book/internal/pdfinfo"
)

// ---------------------------------------------------------------------------
// TestPDFAssembler_Assemble - Cover insertion and metadata
// ---------------------------------------------------------------------------

func TestPDFAssembler_Assemble(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pages int
		opts  fixture.PDFOptions
	}{
		{"single page", 1, fixture.PDFOptions{}},
		{"ten pages", 10, fixture.PDFOptions{}},
		{"inherited media box", 3, fixture.PDFOptions{InheritMediaBox: true}},
		{"chrome rounded a4", 2, fixture.PDFOptions{Width: 595, Height: 842}},
		{"existing title replaced", 2, fixture.PDFOptions{Title: "localhost:8001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.Pages = tt.pages
			raw := fixture.PDF(opts)
			captured, err := pdfinfo.Inspect(raw)
			if err != nil {
				t.Fatalf("fixture unreadable: %v", err)
			}

			out, err := NewPDFAssembler(FormatA4, nil).Assemble(raw, fixture.PNG(40, 56, false), testBook())
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}

			got, err := pdfinfo.Inspect(out)
			if err != nil {
				t.Fatalf("output unreadable: %v", err)
			}
			if got.PageCount() != tt.pages+1 {
				t.Errorf("PageCount() = %d, want %d", got.PageCount(), tt.pages+1)
			}
			assertSameSize(t, got.Pages[0], captured.Pages[0])
			assertBookInfo(t, got, testBook())
			assertCapturedPagesFollowCover(t, out, raw)
		})
	}
}

func TestPDFAssembler_Assemble_UnicodeMetadata(t *testing.T) {
	t.Parallel()

	book := BookMetadata{
		Title:    "Le guide opiniâtre de React",
		Author:   "Zoë Müller",
		Subject:  "Ça dépend",
		Keywords: []string{"javascript", "réact"},
	}

	out, err := NewPDFAssembler(FormatA4, nil).Assemble(fixture.PDF(fixture.PDFOptions{Pages: 1}), fixture.PNG(10, 14, false), book)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	got, err := pdfinfo.Inspect(out)
	if err != nil {
		t.Fatalf("output unreadable: %v", err)
	}
	assertBookInfo(t, got, book)
}

func TestPDFAssembler_Assemble_Errors(t *testing.T) {
	t.Parallel()

	validCover := fixture.PNG(10, 14, false)
	a4 := fixture.PDF(fixture.PDFOptions{Pages: 2})

	tests := []struct {
		name    string
		raw     []byte
		cover   []byte
		wantErr error
	}{
		{"not a pdf", []byte("<html>oops</html>"), validCover, ErrPDFLoad},
		{"truncated", a4[:len(a4)/2], validCover, ErrPDFLoad},
		{"empty input", nil, validCover, ErrPDFLoad},
		{"no pages", fixture.PDF(fixture.PDFOptions{Pages: 0}), validCover, ErrEmptyCapture},
		{"letter capture", fixture.PDF(fixture.PDFOptions{Pages: 1, Width: 612, Height: 792}), validCover, ErrPageSizeMismatch},
		{"landscape capture", fixture.PDF(fixture.PDFOptions{Pages: 1, Width: fixture.A4Height, Height: fixture.A4Width}), validCover, ErrPageSizeMismatch},
		{"cover not an image", a4, []byte("not a png"), ErrCoverDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := NewPDFAssembler(FormatA4, nil).Assemble(tt.raw, tt.cover, testBook())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Assemble() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrSerialization) {
				t.Errorf("Assemble() error = %v, want ErrSerialization class", err)
			}
			if out != nil {
				t.Errorf("Assemble() returned %d bytes on error", len(out))
			}
		})
	}
}

func TestPDFAssembler_Assemble_OtherFormat(t *testing.T) {
	t.Parallel()

	raw := fixture.PDF(fixture.PDFOptions{Pages: 2, Width: 612, Height: 792})
	out, err := NewPDFAssembler(FormatLetter, nil).Assemble(raw, fixture.PNG(10, 13, false), testBook())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	got, err := pdfinfo.Inspect(out)
	if err != nil {
		t.Fatalf("output unreadable: %v", err)
	}
	assertSameSize(t, got.Pages[0], pdfinfo.PageSize{Width: 612, Height: 792})
}

// assertCapturedPagesFollowCover checks the cover page has no text and pages
// 1..N carry the captured pages' text in capture order.
func assertCapturedPagesFollowCover(t *testing.T, out, raw []byte) {
	t.Helper()

	want, err := pdfinfo.PageTexts(raw)
	if err != nil {
		t.Fatalf("capture text unreadable: %v", err)
	}
	got, err := pdfinfo.PageTexts(out)
	if err != nil {
		t.Fatalf("output text unreadable: %v", err)
	}
	if len(got) != len(want)+1 {
		t.Fatalf("output has %d pages of text, want %d", len(got), len(want)+1)
	}
	if got[0] != "" {
		t.Errorf("cover page text = %q, want none", got[0])
	}
	for i, w := range want {
		if w == "" || got[i+1] != w {
			t.Errorf("page %d text = %q, want %q", i+1, got[i+1], w)
		}
	}
}

func assertSameSize(t *testing.T, got, want pdfinfo.PageSize) {
	t.Helper()
	if math.Abs(got.Width-want.Width) > 0.01 || math.Abs(got.Height-want.Height) > 0.01 {
		t.Errorf("cover page = %.2fx%.2f, want %.2fx%.2f", got.Width, got.Height, want.Width, want.Height)
	}
}

func assertBookInfo(t *testing.T, got *pdfinfo.Info, want BookMetadata) {
	t.Helper()
	if got.Title != want.Title {
		t.Errorf("Title = %q, want %q", got.Title, want.Title)
	}
	if got.Author != want.Author {
		t.Errorf("Author = %q, want %q", got.Author, want.Author)
	}
	if got.Subject != want.Subject {
		t.Errorf("Subject = %q, want %q", got.Subject, want.Subject)
	}
	if !slices.Equal(got.KeywordList(), want.Keywords) {
		t.Errorf("Keywords = %q, want %q", got.KeywordList(), want.Keywords)
	}
	if got.Creator != creator {
		t.Errorf("Creator = %q, want %q", got.Creator, creator)
	}
}

// ---------------------------------------------------------------------------
// TestTextString - PDF text string encoding
// ---------------------------------------------------------------------------

func TestTextString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii is raw bytes", "React", "<5265616374>"},
		{"empty", "", "<>"},
		{"non-ascii is utf-16 with bom", "é", "<feff00e9>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := textString(tt.input).PDFString(); got != tt.want {
				t.Errorf("textString(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPDFNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{595.28, "595.28"},
		{842, "842"},
		{0.5, "0.5"},
		{841.890001, "841.89"},
	}

	for _, tt := range tests {
		if got := pdfNum(tt.in); got != tt.want {
			t.Errorf("pdfNum(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
