package html2book

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-html2book/internal/assets"
	"github.com/alnah/go-html2book/internal/fileutil"
)

// State is a step of a publishing run.
type State int

// Run states, in order. Done and Failed are terminal.
const (
	StateIdle State = iota
	StateCapturing
	StateAssemblingPDF
	StateAssemblingEPUB
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateAssemblingPDF:
		return "assembling pdf"
	case StateAssemblingEPUB:
		return "assembling epub"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// StageResult records one stage that ran.
type StageResult struct {
	Stage    State
	Duration time.Duration
	Err      error
}

// Report describes a finished run. PDFPath and EPUBPath are set only for
// artifacts this run wrote.
type Report struct {
	State    State
	PDFPath  string
	EPUBPath string
	Stages   []StageResult
}

// Publisher runs the capture, PDF and EPUB stages in order. A Publisher
// holds no per-run state and may be reused.
type Publisher struct {
	capturer Capturer
	loader   assets.AssetLoader
	logger   *slog.Logger
	observer func(State)
}

// NewPublisher creates a Publisher. Without options it captures with
// headless Chrome, uses the embedded template store and logs nothing.
func NewPublisher(opts ...Option) *Publisher {
	p := &Publisher{logger: discardLogger()}
	for _, opt := range opts {
		opt(p)
	}
	if p.loader == nil {
		p.loader = assets.NewEmbeddedLoader()
	}
	if p.capturer == nil {
		p.capturer = NewRodCapturer(p.logger)
	}
	return p
}

// Run publishes job. The EPUB stage starts only after the PDF was written;
// a capture or PDF failure writes nothing and leaves existing artifacts as
// they were. An EPUB failure keeps the new PDF and still fails the run.
//
// The returned Report is never nil. A non-nil error is a *StageError
// wrapping one of ErrCapture, ErrAsset, ErrSerialization, ErrPackaging,
// ErrWriteArtifact or a validation error.
func (p *Publisher) Run(ctx context.Context, job Job) (*Report, error) {
	r := &run{p: p, job: job, report: &Report{State: StateIdle}}
	r.job.Book = job.Book.Clone()
	return r.report, r.execute(ctx)
}

// run is the state of one Run call.
type run struct {
	p      *Publisher
	job    Job
	report *Report

	cover *coverImage
	raw   []byte
}

func (r *run) execute(ctx context.Context) error {
	if err := r.preflight(); err != nil {
		return r.fail(StateIdle, err)
	}
	for _, st := range []struct {
		state State
		fn    func(context.Context) error
	}{
		{StateCapturing, r.capture},
		{StateAssemblingPDF, r.assemblePDF},
		{StateAssemblingEPUB, r.assembleEPUB},
	} {
		if err := r.stage(ctx, st.state, st.fn); err != nil {
			return err
		}
	}
	r.transition(StateDone)
	r.p.logger.Info("book published", "pdf", r.report.PDFPath, "epub", r.report.EPUBPath)
	return nil
}

// preflight validates the job and decodes the cover, so a missing or
// corrupt cover never costs a browser launch.
func (r *run) preflight() error {
	if err := r.job.Validate(); err != nil {
		return err
	}
	data, err := readAsset("cover", r.job.Assets.Cover)
	if err != nil {
		return err
	}
	cover, err := decodeCover(data)
	if err != nil {
		return &AssetError{Kind: "cover", Path: r.job.Assets.Cover, Err: err}
	}
	r.cover = cover
	return nil
}

func (r *run) stage(ctx context.Context, state State, fn func(context.Context) error) error {
	r.transition(state)
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	r.report.Stages = append(r.report.Stages, StageResult{Stage: state, Duration: elapsed, Err: err})
	if err != nil {
		return r.fail(state, err)
	}
	r.p.logger.Debug("stage finished", "stage", state.String(), "duration", elapsed)
	return nil
}

func (r *run) capture(ctx context.Context) error {
	footer, err := renderFooter(r.p.loader, r.job.Assets.Font)
	if err != nil {
		return err
	}
	raw, err := r.p.capturer.Capture(ctx, r.job.URL, CaptureOptions{
		Page:           r.job.Page,
		FooterTemplate: footer,
		Timeout:        r.job.captureTimeout(),
	})
	if err != nil {
		return err
	}
	r.raw = raw
	return nil
}

func (r *run) assemblePDF(_ context.Context) error {
	out, err := NewPDFAssembler(r.job.Page.Format, r.p.logger).assemble(r.raw, r.cover, r.job.Book)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(r.job.Output.PDF, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteArtifact, r.job.Output.PDF, err)
	}
	r.report.PDFPath = r.job.Output.PDF
	return nil
}

func (r *run) assembleEPUB(ctx context.Context) error {
	html, err := readAsset("html source", r.job.HTMLPath)
	if err != nil {
		return err
	}
	in := EPUBInput{
		HTML:        html,
		Book:        r.job.Book,
		Cover:       r.job.Assets.Cover,
		Font:        r.job.Assets.Font,
		TOCTemplate: r.job.Assets.TOCTemplate,
	}
	if err := NewEPUBAssembler(r.p.loader, r.p.logger).Assemble(ctx, in, r.job.Output.EPUB); err != nil {
		return err
	}
	r.report.EPUBPath = r.job.Output.EPUB
	return nil
}

func (r *run) transition(to State) {
	from := r.report.State
	r.report.State = to
	r.p.logger.Info("state", "from", from.String(), "to", to.String())
	if r.p.observer != nil {
		r.p.observer(to)
	}
}

func (r *run) fail(stage State, err error) error {
	r.p.logger.Debug("stage failed", "stage", stage.String(), "error", err)
	r.transition(StateFailed)
	return &StageError{Stage: stage, Err: err}
}

// readAsset reads a required input file, reporting failures as *AssetError.
func readAsset(kind, path string) ([]byte, error) {
	if err := fileutil.CheckFile(path); err != nil {
		return nil, &AssetError{Kind: kind, Path: path, Err: err}
	}
	data, err := os.ReadFile(path) // #nosec G304 -- configured input
	if err != nil {
		return nil, &AssetError{Kind: kind, Path: path, Err: err}
	}
	return data, nil
}
