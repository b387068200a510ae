package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-html2book/internal/yamlutil"
)

type sample struct {
	Title    string   `yaml:"title"`
	Keywords []string `yaml:"keywords"`
}

// ---------------------------------------------------------------------------
// TestDecode - Input guards and strict mode
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		target  any
		opts    []yamlutil.DecodeOption
		wantErr error
		errText string
	}{
		{
			name:   "valid document",
			data:   []byte("title: It Depends\nkeywords: [javascript, react]\n"),
			target: &sample{},
		},
		{
			name:    "empty input",
			data:    nil,
			target:  &sample{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "nil target",
			data:    []byte("title: x"),
			target:  nil,
			wantErr: yamlutil.ErrNilTarget,
		},
		{
			name:    "unknown key tolerated without strict",
			data:    []byte("title: x\nsubtitle: y\n"),
			target:  &sample{},
			wantErr: nil,
		},
		{
			name:    "unknown key rejected in strict mode",
			data:    []byte("title: x\nsubtitle: y\n"),
			target:  &sample{},
			opts:    []yamlutil.DecodeOption{yamlutil.Strict()},
			errText: "yamlutil:",
		},
		{
			name:    "syntax error",
			data:    []byte("title: [unclosed"),
			target:  &sample{},
			errText: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Decode(tt.data, tt.target, tt.opts...)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
			case tt.errText != "":
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Fatalf("Decode() error = %v, want containing %q", err, tt.errText)
				}
			default:
				if err != nil {
					t.Fatalf("Decode() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestDecode_ValuesPreserveOrder(t *testing.T) {
	t.Parallel()

	var s sample
	if err := yamlutil.Decode([]byte("title: Book\nkeywords: [b, a, c]\n"), &s, yamlutil.Strict()); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := strings.Join(s.Keywords, ","); got != "b,a,c" {
		t.Errorf("Keywords = %q, want %q", got, "b,a,c")
	}
}

func TestDecode_TooLarge(t *testing.T) {
	// Not parallel: mutates package-level MaxInputSize.
	orig := yamlutil.MaxInputSize
	yamlutil.MaxInputSize = 8
	defer func() { yamlutil.MaxInputSize = orig }()

	err := yamlutil.Decode([]byte("title: far too long"), &sample{})
	if !errors.Is(err, yamlutil.ErrTooLarge) {
		t.Fatalf("Decode() error = %v, want ErrTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestEncode - Round trip through Decode
// ---------------------------------------------------------------------------

func TestEncode(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Encode(sample{Title: "Book", Keywords: []string{"go"}})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.Contains(string(out), "title: Book") {
		t.Errorf("Encode() = %q, want title line", out)
	}

	var back sample
	if err := yamlutil.Decode(out, &back, yamlutil.Strict()); err != nil {
		t.Fatalf("Decode(Encode()) error: %v", err)
	}
	if back.Title != "Book" || len(back.Keywords) != 1 {
		t.Errorf("round trip = %+v", back)
	}
}
