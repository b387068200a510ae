package html2book

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/alnah/go-html2book/internal/pdfinfo"
)

// creator is stamped into the Info dictionary of every book.
const creator = "go-html2book"

// coverXObject is the resource name of the cover image on the cover page.
const coverXObject = "Cover"

// PDFAssembler turns a raw capture into the final book PDF: a full-bleed
// cover page in front of the captured pages, and the book metadata.
type PDFAssembler struct {
	format PageFormat
	logger *slog.Logger
}

// NewPDFAssembler creates a PDFAssembler expecting captures in format.
func NewPDFAssembler(format PageFormat, logger *slog.Logger) *PDFAssembler {
	if logger == nil {
		logger = discardLogger()
	}
	return &PDFAssembler{format: format, logger: logger}
}

// Assemble returns the complete book as bytes. Nothing is written to disk:
// the caller publishes the result only once it is fully serialized.
//
// An undecodable cover returns ErrCoverDecode. Malformed capture bytes
// return ErrPDFLoad, a capture without pages ErrEmptyCapture, and a first
// page that is not the configured format ErrPageSizeMismatch. The cover page takes the first
// captured page's exact MediaBox.
func (a *PDFAssembler) Assemble(raw, cover []byte, book BookMetadata) ([]byte, error) {
	img, err := decodeCover(cover)
	if err != nil {
		return nil, err
	}
	return a.assemble(raw, img, book)
}

// assemble is Assemble with the cover already decoded.
func (a *PDFAssembler) assemble(raw []byte, img *coverImage, book BookMetadata) ([]byte, error) {
	captured, err := pdfinfo.Inspect(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFLoad, err)
	}
	if captured.PageCount() == 0 {
		return nil, ErrEmptyCapture
	}
	first := captured.Pages[0]
	if !a.format.Matches(first.Width, first.Height) {
		return nil, fmt.Errorf("%w: got %.2fx%.2fpt, want %s %.2fx%.2fpt",
			ErrPageSizeMismatch, first.Width, first.Height, a.format.Name, a.format.WidthPt, a.format.HeightPt)
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), pdfcpuConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFLoad, err)
	}

	if err := prependCoverPage(ctx, img, first.Width, first.Height); err != nil {
		return nil, fmt.Errorf("%w: inserting cover page: %v", ErrSerialization, err)
	}
	if err := stampInfo(ctx, book); err != nil {
		return nil, fmt.Errorf("%w: writing metadata: %v", ErrSerialization, err)
	}

	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	// Read back what was produced before anyone publishes it.
	assembled, err := pdfinfo.Inspect(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: output unreadable: %v", ErrSerialization, err)
	}
	if assembled.PageCount() != captured.PageCount()+1 {
		return nil, fmt.Errorf("%w: output has %d pages, want %d",
			ErrSerialization, assembled.PageCount(), captured.PageCount()+1)
	}

	a.logger.Debug("pdf assembled",
		"captured_pages", captured.PageCount(),
		"cover_px", fmt.Sprintf("%dx%d", img.Width, img.Height),
		"bytes", out.Len())
	return out.Bytes(), nil
}

var disableConfigDir sync.Once

// pdfcpuConfig returns a relaxed configuration that never touches the
// user's pdfcpu config directory. Output uses a classic xref table.
func pdfcpuConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

// prependCoverPage adds an image XObject, a content stream that scales it to
// w×h, and a page using both as the first kid of the root page tree.
func prependCoverPage(ctx *model.Context, img *coverImage, w, h float64) error {
	imgRef, err := newImageXObject(ctx, img)
	if err != nil {
		return err
	}

	// cm maps the unit square the image occupies onto the whole page.
	content := fmt.Sprintf("q %s 0 0 %s 0 0 cm /%s Do Q", pdfNum(w), pdfNum(h), coverXObject)
	contentRef, err := newFlateStream(ctx, []byte(content), nil)
	if err != nil {
		return err
	}

	rootDict, err := ctx.DereferenceDict(*ctx.Root)
	if err != nil {
		return err
	}
	pagesRef := rootDict.IndirectRefEntry("Pages")
	if pagesRef == nil {
		return fmt.Errorf("catalog has no indirect /Pages")
	}
	pagesDict, err := ctx.DereferenceDict(*pagesRef)
	if err != nil {
		return err
	}
	kidsObj, _ := pagesDict.Find("Kids")
	kids, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return err
	}

	pageDict := types.Dict(map[string]types.Object{
		"Type":     types.Name("Page"),
		"Parent":   *pagesRef,
		"MediaBox": types.NewNumberArray(0, 0, w, h),
		"Resources": types.Dict(map[string]types.Object{
			"XObject": types.Dict(map[string]types.Object{coverXObject: *imgRef}),
		}),
		"Contents": *contentRef,
	})
	pageRef, err := ctx.IndRefForNewObject(pageDict)
	if err != nil {
		return err
	}

	pagesDict.Update("Kids", append(types.Array{*pageRef}, kids...))
	ctx.PageCount++
	pagesDict.Update("Count", types.Integer(ctx.PageCount))
	return nil
}

// newImageXObject stores img as a Flate-compressed DeviceRGB image.
func newImageXObject(ctx *model.Context, img *coverImage) (*types.IndirectRef, error) {
	return newFlateStream(ctx, img.RGB, map[string]types.Object{
		"Type":             types.Name("XObject"),
		"Subtype":          types.Name("Image"),
		"Width":            types.Integer(img.Width),
		"Height":           types.Integer(img.Height),
		"ColorSpace":       types.Name("DeviceRGB"),
		"BitsPerComponent": types.Integer(8),
	})
}

// newFlateStream stores content as a FlateDecode stream with extra dict entries.
func newFlateStream(ctx *model.Context, content []byte, entries map[string]types.Object) (*types.IndirectRef, error) {
	sd := &types.StreamDict{
		Dict:           types.NewDict(),
		Content:        content,
		FilterPipeline: []types.PDFFilter{{Name: "FlateDecode"}},
	}
	sd.InsertName("Filter", "FlateDecode")
	for k, v := range entries {
		sd.Insert(k, v)
	}
	if err := sd.Encode(); err != nil {
		return nil, err
	}
	return ctx.IndRefForNewObject(*sd)
}

// stampInfo writes the book metadata into the Info dictionary, creating it
// when the capture has none.
func stampInfo(ctx *model.Context, book BookMetadata) error {
	if ctx.Info == nil {
		ref, err := ctx.IndRefForNewObject(types.NewDict())
		if err != nil {
			return err
		}
		ctx.Info = ref
	}
	info, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("Info is not a dictionary")
	}

	info.Update("Title", textString(book.Title))
	info.Update("Author", textString(book.Author))
	info.Update("Subject", textString(book.Subject))
	info.Update("Keywords", textString(book.KeywordString()))
	info.Update("Creator", textString(creator))
	return nil
}

// textString encodes a PDF text string as hex: raw bytes for ASCII, UTF-16BE
// with a byte order mark otherwise.
func textString(s string) types.HexLiteral {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return types.NewHexLiteral([]byte(s))
	}

	units := utf16.Encode([]rune(s))
	b := make([]byte, 2, 2+2*len(units))
	b[0], b[1] = 0xFE, 0xFF
	for _, u := range units {
		b = append(b, byte(u>>8), byte(u))
	}
	return types.NewHexLiteral(b)
}

// pdfNum formats a coordinate with at most 4 decimals.
func pdfNum(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
