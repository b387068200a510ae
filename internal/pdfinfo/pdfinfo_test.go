package pdfinfo_test

import (
	"errors"
	"math"
	"testing"

	"github.com/alnah/go-html2book/internal/fixture"
	"github.com/alnah/go-html2book/internal/pdfinfo"
)

// ---------------------------------------------------------------------------
// TestInspect - Page tree and Info dictionary
// ---------------------------------------------------------------------------

func TestInspect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      fixture.PDFOptions
		wantPages int
		wantW     float64
		wantH     float64
	}{
		{
			name:      "single A4 page",
			opts:      fixture.PDFOptions{Pages: 1},
			wantPages: 1, wantW: fixture.A4Width, wantH: fixture.A4Height,
		},
		{
			name:      "ten pages",
			opts:      fixture.PDFOptions{Pages: 10, Title: "Captured"},
			wantPages: 10, wantW: fixture.A4Width, wantH: fixture.A4Height,
		},
		{
			name:      "letter size",
			opts:      fixture.PDFOptions{Pages: 2, Width: 612, Height: 792},
			wantPages: 2, wantW: 612, wantH: 792,
		},
		{
			name:      "inherited MediaBox",
			opts:      fixture.PDFOptions{Pages: 3, InheritMediaBox: true},
			wantPages: 3, wantW: fixture.A4Width, wantH: fixture.A4Height,
		},
		{
			name:      "zero pages",
			opts:      fixture.PDFOptions{Pages: 0},
			wantPages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, err := pdfinfo.Inspect(fixture.PDF(tt.opts))
			if err != nil {
				t.Fatalf("Inspect() error: %v", err)
			}
			if info.PageCount() != tt.wantPages {
				t.Fatalf("PageCount() = %d, want %d", info.PageCount(), tt.wantPages)
			}
			for i, p := range info.Pages {
				if math.Abs(p.Width-tt.wantW) > 0.01 || math.Abs(p.Height-tt.wantH) > 0.01 {
					t.Errorf("page %d = %vx%v, want %vx%v", i+1, p.Width, p.Height, tt.wantW, tt.wantH)
				}
			}
			if info.Title != tt.opts.Title {
				t.Errorf("Title = %q, want %q", info.Title, tt.opts.Title)
			}
			if info.Producer != "fixture" {
				t.Errorf("Producer = %q, want fixture", info.Producer)
			}
		})
	}
}

func TestInspect_Malformed(t *testing.T) {
	t.Parallel()

	valid := fixture.PDF(fixture.PDFOptions{Pages: 2})

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "html instead of pdf", data: []byte("<!doctype html><html></html>")},
		{name: "truncated", data: valid[:len(valid)/2]},
		{name: "header only", data: []byte("%PDF-1.4\n%%EOF\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := pdfinfo.Inspect(tt.data); !errors.Is(err, pdfinfo.ErrMalformed) {
				t.Errorf("Inspect() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestInspect_InheritedMediaBoxLetter(t *testing.T) {
	t.Parallel()

	info, err := pdfinfo.Inspect(fixture.PDF(fixture.PDFOptions{Pages: 2, Width: 612, Height: 792, InheritMediaBox: true}))
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	for i, p := range info.Pages {
		if p.Width != 612 || p.Height != 792 {
			t.Errorf("page %d = %vx%v, want the page tree's 612x792", i+1, p.Width, p.Height)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPageTexts - Page content in order
// ---------------------------------------------------------------------------

func TestPageTexts(t *testing.T) {
	t.Parallel()

	texts, err := pdfinfo.PageTexts(fixture.PDF(fixture.PDFOptions{Pages: 3}))
	if err != nil {
		t.Fatalf("PageTexts() error: %v", err)
	}
	want := []string{"Captured page 1", "Captured page 2", "Captured page 3"}
	if len(texts) != len(want) {
		t.Fatalf("PageTexts() = %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("page %d text = %q, want %q", i+1, texts[i], want[i])
		}
	}
}

func TestPageTexts_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := pdfinfo.PageTexts([]byte("not a pdf")); !errors.Is(err, pdfinfo.ErrMalformed) {
		t.Errorf("PageTexts() error = %v, want ErrMalformed", err)
	}
}

func TestInfo_KeywordList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"javascript, react", []string{"javascript", "react"}},
		{"go;pdf ; epub", []string{"go", "pdf", "epub"}},
		{"", nil},
		{" , ", nil},
	}

	for _, tt := range tests {
		got := (&pdfinfo.Info{Keywords: tt.in}).KeywordList()
		if len(got) != len(tt.want) {
			t.Errorf("KeywordList(%q) = %q, want %q", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("KeywordList(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
