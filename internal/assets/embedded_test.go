package assets

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestEmbeddedLoader - Shipped template store
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		style       string
		wantErr     error
		wantContain []string
	}{
		{
			name:  "epub stylesheet hides site chrome",
			style: StyleEPUB,
			wantContain: []string{
				".menu-toggle", ".title", ".alert", "display: none",
				"page-break-inside: avoid", "sans-serif",
			},
		},
		{name: "unknown style", style: "print", wantErr: ErrStyleNotFound},
		{name: "traversal", style: "../epub", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) error: %v", tt.style, err)
			}
			for _, s := range tt.wantContain {
				if !strings.Contains(got, s) {
					t.Errorf("style missing %q", s)
				}
			}
		})
	}
}

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		template    string
		wantErr     error
		wantContain []string
	}{
		{
			name:        "footer carries page counters and font chain slot",
			template:    TemplateFooter,
			wantContain: []string{`class="pageNumber"`, `class="totalPages"`, "{{.Sources}}", "font-size: 6px"},
		},
		{
			name:        "toc ranges over entries",
			template:    TemplateTOC,
			wantContain: []string{"range .Entries", "{{.Href}}", `class="toc"`},
		},
		{name: "unknown template", template: "cover", wantErr: ErrTemplateNotFound},
		{name: "empty name", template: "", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadTemplate(tt.template)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadTemplate(%q) error = %v, want %v", tt.template, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadTemplate(%q) error: %v", tt.template, err)
			}
			for _, s := range tt.wantContain {
				if !strings.Contains(got, s) {
					t.Errorf("template missing %q", s)
				}
			}
		})
	}
}

func TestEmbeddedLoader_TOCTemplateRenders(t *testing.T) {
	t.Parallel()

	src, err := NewEmbeddedLoader().LoadTemplate(TemplateTOC)
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := template.New(TemplateTOC).Option("missingkey=error").Parse(src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	type entry struct {
		Level      int
		Href, Text string
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Title, Author string
		Entries       []entry
	}{
		Title:   "Book",
		Author:  "Someone",
		Entries: []entry{{Level: 2, Href: "content.xhtml#state", Text: "Managing State"}},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := `<li class="toc-level-2"><a href="content.xhtml#state">Managing State</a></li>`
	if !strings.Contains(buf.String(), want) {
		t.Errorf("rendered TOC missing %q\n%s", want, buf.String())
	}
}
