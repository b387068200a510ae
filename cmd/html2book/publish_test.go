package main

// Notes:
// - runPublishCmd is exercised through a mock Publisher; the library's own
//   tests cover the stages
// - buildJob/mergeFlags: flags override config, config overrides defaults

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	html2book "github.com/alnah/go-html2book"
	"github.com/alnah/go-html2book/internal/config"
)

// ---------------------------------------------------------------------------
// TestBuildJob - Config to job mapping
// ---------------------------------------------------------------------------

func TestBuildJob_Defaults(t *testing.T) {
	t.Parallel()

	job, err := buildJob(config.DefaultConfig())
	if err != nil {
		t.Fatalf("buildJob() error = %v", err)
	}
	if err := job.Validate(); err != nil {
		t.Errorf("default job invalid: %v", err)
	}

	if job.URL != "http://localhost:8001" {
		t.Errorf("URL = %q", job.URL)
	}
	if job.HTMLPath != "public/index.html" {
		t.Errorf("HTMLPath = %q", job.HTMLPath)
	}
	if job.Book.Title != "The Opinionated Guide To React" || job.Book.Author != "Sara Vieira" {
		t.Errorf("Book = %+v", job.Book)
	}
	if job.Book.KeywordString() != "javascript, react" {
		t.Errorf("Keywords = %q", job.Book.Keywords)
	}
	if job.Page.Format != html2book.FormatA4 || job.Page.MarginTop != 100 || job.Page.MarginBottom != 100 {
		t.Errorf("Page = %+v", job.Page)
	}
	if job.CaptureTimeout != 2*time.Minute {
		t.Errorf("CaptureTimeout = %v", job.CaptureTimeout)
	}
	if job.Output.PDF != filepath.Join("book", "book.pdf") || job.Output.EPUB != filepath.Join("book", "book.epub") {
		t.Errorf("Output = %+v", job.Output)
	}
}

func TestBuildJob_CopiesSlices(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	job, err := buildJob(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Book.Keywords[0] = "changed"
	cfg.Assets.Font.LocalNames[0] = "changed"

	if job.Book.Keywords[0] != "javascript" || job.Assets.Font.LocalNames[0] == "changed" {
		t.Error("job shares slices with the config")
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergeFlags(&publishFlags{
		source:    sourceFlags{url: "https://book.example", html: "dist/index.html"},
		output:    outputFlags{dir: "out"},
		timeout:   "45s",
		pageSize:  "legal",
		assetPath: "theme",
	}, cfg)

	if cfg.Source.URL != "https://book.example" || cfg.Source.HTML != "dist/index.html" {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Output.Dir != "out" || cfg.Capture.Timeout != "45s" || cfg.Page.Size != "legal" || cfg.Assets.BasePath != "theme" {
		t.Errorf("cfg = %+v", cfg)
	}

	untouched := config.DefaultConfig()
	mergeFlags(&publishFlags{}, untouched)
	if untouched.Source.URL != "http://localhost:8001" || untouched.Output.Dir != "book" {
		t.Error("empty flags changed the config")
	}
}

// ---------------------------------------------------------------------------
// TestRunPublishCmd - Publishing outcomes
// ---------------------------------------------------------------------------

func TestRunPublishCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		pubErr     error
		wantCode   int
		wantStderr string
	}{
		{"success", nil, nil, ExitSuccess, ""},
		{"capture timeout", nil, &html2book.StageError{Stage: html2book.StateCapturing, Err: html2book.ErrCaptureTimeout}, ExitBrowser, "raise --timeout"},
		{"serialization", nil, html2book.ErrPageSizeMismatch, ExitSerialization, "page size"},
		{"packaging", nil, html2book.ErrPackaging, ExitPackaging, "EPUB packaging failed"},
		{"missing cover", nil, &html2book.AssetError{Kind: "cover", Path: "static/cover.png", Err: os.ErrNotExist}, ExitIO, "hint:"},
		{"invalid timeout flag", []string{"--timeout", "soon"}, nil, ExitUsage, "capture.timeout"},
		{"invalid page size flag", []string{"-p", "a3"}, nil, ExitUsage, "page.size"},
		{"missing config", []string{"-c", "no-such-book-config"}, nil, ExitUsage, "hint:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pub := &mockPublisher{err: tt.pubErr}
			env, _, stderr := testEnv(pub)

			if got := runPublishCmd(tt.args, env); got != tt.wantCode {
				t.Errorf("runPublishCmd() = %d, want %d (stderr: %s)", got, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunPublishCmd_ConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "book.yaml")
	yaml := "book:\n  title: Another Book\n  author: Someone Else\noutput:\n  dir: dist\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	pub := &mockPublisher{}
	env, stdout, stderr := testEnv(pub)
	if got := runPublishCmd([]string{"-c", path, "-v", "-u", "http://localhost:9999"}, env); got != ExitSuccess {
		t.Fatalf("runPublishCmd() = %d (stderr: %s)", got, stderr.String())
	}

	job := pub.jobs[0]
	if job.Book.Title != "Another Book" || job.Book.Subject != "It Depends" {
		t.Errorf("Book = %+v, want file values over defaults", job.Book)
	}
	if job.URL != "http://localhost:9999" {
		t.Errorf("URL = %q, want the flag value", job.URL)
	}
	if job.Output.PDF != filepath.Join("dist", "book.pdf") {
		t.Errorf("Output.PDF = %q", job.Output.PDF)
	}
	if !strings.Contains(stdout.String(), filepath.Join("dist", "book.epub")) {
		t.Errorf("stdout = %q, want the EPUB path", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout names the url", html2book.ErrCaptureTimeout, "http://localhost:8001"},
		{"page load", html2book.ErrPageLoad, "gatsby serve"},
		{"browser", html2book.ErrBrowserConnect, "doctor"},
		{"corrupt capture", html2book.ErrEmptyCapture, "open the URL"},
		{"write", html2book.ErrWriteArtifact, "writable"},
		{"corrupt cover", &html2book.AssetError{Kind: "cover", Path: "static/cover.png", Err: html2book.ErrCoverDecode}, "PNG or JPEG"},
		{"none", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err, "http://localhost:8001")
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
