package html2book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2book/internal/process"
)

// Capturer renders a live URL to paginated PDF bytes.
type Capturer interface {
	Capture(ctx context.Context, url string, opts CaptureOptions) ([]byte, error)
}

// Compile-time interface check.
var _ Capturer = (*RodCapturer)(nil)

// CaptureOptions controls one capture.
type CaptureOptions struct {
	Page           PageSettings
	FooterTemplate string        // Chrome footer fragment; empty disables header and footer
	Timeout        time.Duration // bound on navigation plus network settlement
}

// RodCapturer captures pages with headless Chrome through go-rod. Every
// Capture launches its own browser and tears it down before returning, so
// no browser outlives a run whatever the outcome.
// Rod downloads Chromium on first use when no browser is found.
type RodCapturer struct {
	logger *slog.Logger
}

// NewRodCapturer creates a RodCapturer. A nil logger discards.
func NewRodCapturer(logger *slog.Logger) *RodCapturer {
	if logger == nil {
		logger = discardLogger()
	}
	return &RodCapturer{logger: logger}
}

// Capture navigates to url, waits for the network to settle (no more than two
// connections in flight for 500ms) for the navigated document, then prints.
// Waiting is bounded by opts.Timeout; expiry returns ErrCaptureTimeout.
// Cancellation of ctx returns an error wrapping both ErrCapture and ctx.Err().
func (c *RodCapturer) Capture(ctx context.Context, url string, opts CaptureOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCaptureTimeout
	}

	session, err := launchBrowser(ctx, c.logger)
	if err != nil {
		return nil, err
	}
	defer session.close()

	page, err := session.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	if err := c.settle(ctx, page, url, opts.Timeout); err != nil {
		return nil, err
	}

	reader, err := page.Context(ctx).PDF(buildPrintOptions(opts))
	if err != nil {
		return nil, classifyBrowserError(ctx, err, ErrPDFGeneration)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: browser returned an empty document", ErrPDFGeneration)
	}

	c.logger.Debug("page captured", "url", url, "bytes", len(data))
	return data, nil
}

// settle navigates and waits under one bounded context for the navigated
// document's networkAlmostIdle. Lifecycle events are subscribed before
// navigating and filtered by loader: Chrome replays the blank page's events
// when they are enabled.
func (c *RodCapturer) settle(ctx context.Context, page *rod.Page, url string, timeout time.Duration) error {
	bounded := page.Context(ctx).Timeout(timeout)
	defer bounded.CancelTimeout()

	start := time.Now()
	if err := (proto.PageSetLifecycleEventsEnabled{Enabled: true}).Call(bounded); err != nil {
		return classifyBrowserError(ctx, err, ErrPageLoad)
	}

	var nav *proto.PageNavigateResult
	wait := bounded.EachEvent(func(e *proto.PageLifecycleEvent) bool {
		return isNetworkSettled(nav, e)
	})

	nav, err := proto.PageNavigate{URL: url}.Call(bounded)
	if err != nil {
		return classifyBrowserError(ctx, err, ErrPageLoad)
	}
	if nav.ErrorText != "" {
		return fmt.Errorf("%w: %s", ErrPageLoad, nav.ErrorText)
	}

	wait()
	// wait() returns silently on expiry; the bounded context records it.
	if err := bounded.GetContext().Err(); err != nil {
		return classifyBrowserError(ctx, err, ErrPageLoad)
	}

	c.logger.Debug("page settled", "url", url, "loader", nav.LoaderID, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// isNetworkSettled reports whether e is networkAlmostIdle for the document
// nav loaded. A same-document navigation has no loader id; the frame decides.
func isNetworkSettled(nav *proto.PageNavigateResult, e *proto.PageLifecycleEvent) bool {
	if nav == nil || e.Name != proto.PageLifecycleEventNameNetworkAlmostIdle || e.FrameID != nav.FrameID {
		return false
	}
	return nav.LoaderID == "" || e.LoaderID == nav.LoaderID
}

// classifyBrowserError maps a rod error to the capture taxonomy: caller
// cancellation first, then our own deadline, then the stage fallback.
func classifyBrowserError(parent context.Context, err, fallback error) error {
	if perr := parent.Err(); perr != nil {
		return fmt.Errorf("%w: %w", ErrCapture, perr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrCaptureTimeout, err)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

// buildPrintOptions maps page settings to Chrome's print parameters.
// Chrome takes inches; margins are configured in CSS pixels.
func buildPrintOptions(opts CaptureOptions) *proto.PagePrintToPDF {
	format := opts.Page.Format
	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(format.WidthInches()),
		PaperHeight:     floatPtr(format.HeightInches()),
		MarginTop:       floatPtr(opts.Page.MarginTop / cssPixelsPerInch),
		MarginBottom:    floatPtr(opts.Page.MarginBottom / cssPixelsPerInch),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PrintBackground: true,
	}

	if opts.FooterTemplate != "" {
		pdfOpts.DisplayHeaderFooter = true
		// An empty header template makes Chrome print its default header.
		pdfOpts.HeaderTemplate = "<span></span>"
		pdfOpts.FooterTemplate = opts.FooterTemplate
	}
	return pdfOpts
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// browserSession is a launched browser and the launcher that owns its process.
type browserSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	logger   *slog.Logger
}

// launchBrowser starts Chrome and connects to it. On failure nothing is left running.
func launchBrowser(ctx context.Context, logger *slog.Logger) (*browserSession, error) {
	l := launcher.New().Context(ctx)

	// Pre-installed browser (Docker/containerized environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if sandboxDisabled(os.Getenv) {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		if l.PID() != 0 {
			l.Kill()
		}
		return nil, classifyBrowserError(ctx, err, ErrBrowserConnect)
	}

	s := &browserSession{launcher: l, logger: logger}
	s.browser = rod.New().Context(ctx).ControlURL(u)
	if err := s.browser.Connect(); err != nil {
		s.browser = nil
		s.close()
		return nil, classifyBrowserError(ctx, err, ErrBrowserConnect)
	}

	logger.Debug("browser launched", "pid", l.PID())
	return s, nil
}

// sandboxDisabled reports whether Chrome must run without its sandbox:
// in CI, with a custom binary (usually a container image), or on request.
func sandboxDisabled(getenv func(string) string) bool {
	return getenv("CI") == "true" ||
		getenv("ROD_BROWSER_BIN") != "" ||
		getenv("ROD_NO_SANDBOX") == "1"
}

// close releases the browser and its process tree. Safe after partial setup.
func (s *browserSession) close() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Debug("browser close failed, killing", "error", err)
		}
	}
	pid := s.launcher.PID()
	process.KillTree(pid)
	s.launcher.Kill()
	if pid != 0 {
		s.launcher.Cleanup()
	}
	s.logger.Debug("browser released", "pid", pid)
}
