package html2book

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alnah/go-html2book/internal/fixture"
)

const testHTML = `<!DOCTYPE html>
<html>
<head><title>Book</title></head>
<body>
<div class="menu-toggle">Menu</div>
<h1 id="intro" class="title">Introduction</h1>
<div class="alert">This book is a draft.</div>
<h2 id="state">Managing State</h2>
<p>It depends.</p>
<h3>Unlinked heading</h3>
<h3 id="hooks">Hooks</h3>
<pre>const [x, setX] = useState(0)</pre>
</body>
</html>`

func testBook() BookMetadata {
	return BookMetadata{
		Title:    "The Opinionated Guide To React",
		Author:   "Sara Vieira",
		Subject:  "It Depends",
		Keywords: []string{"javascript", "react"},
	}
}

// testJob returns a valid job whose inputs and outputs live under dir.
// The input files are not created; see writeInputs.
func testJob(dir string) Job {
	return Job{
		URL:      "http://localhost:8001",
		HTMLPath: filepath.Join(dir, "public", "index.html"),
		Book:     testBook(),
		Page:     DefaultPageSettings(),
		Assets: Assets{
			Cover: filepath.Join(dir, "static", "cover.png"),
			Font: FontAsset{
				File:       filepath.Join(dir, "fonts", "Merriweather-Regular.ttf"),
				Family:     "Merriweather",
				LocalNames: []string{"Merriweather Regular", "Merriweather-Regular"},
				URL:        "./merryi.woff2",
			},
		},
		Output: OutputPaths{
			PDF:  filepath.Join(dir, "book", "book.pdf"),
			EPUB: filepath.Join(dir, "book", "book.epub"),
		},
	}
}

// writeInputs creates the HTML source, cover and font a job points at.
func writeInputs(t *testing.T, job Job) {
	t.Helper()
	writeFile(t, job.HTMLPath, []byte(testHTML))
	writeFile(t, job.Assets.Cover, fixture.PNG(60, 85, true))
	writeFile(t, job.Assets.Font.File, []byte("\x00\x01\x00\x00fake truetype"))
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

// captureCall records one Capture invocation.
type captureCall struct {
	URL  string
	Opts CaptureOptions
}

// mockCapturer is a test double for the Capturer interface.
type mockCapturer struct {
	mu          sync.Mutex
	calls       []captureCall
	captureFunc func(ctx context.Context, url string, opts CaptureOptions) ([]byte, error)
}

// newMockCapturer returns a capturer producing an A4 capture of pages pages.
func newMockCapturer(pages int) *mockCapturer {
	return &mockCapturer{
		captureFunc: func(context.Context, string, CaptureOptions) ([]byte, error) {
			return fixture.PDF(fixture.PDFOptions{Pages: pages}), nil
		},
	}
}

func (m *mockCapturer) Capture(ctx context.Context, url string, opts CaptureOptions) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, captureCall{URL: url, Opts: opts})
	m.mu.Unlock()
	return m.captureFunc(ctx, url, opts)
}

func (m *mockCapturer) getCalls() []captureCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]captureCall{}, m.calls...)
}
