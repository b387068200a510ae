package html2book

import (
	"errors"
	"fmt"
)

// Error classes. Every stage error wraps exactly one of these, so callers can
// dispatch with errors.Is without knowing which stage failed.
var (
	ErrCapture       = errors.New("page capture failed")
	ErrAsset         = errors.New("asset unavailable")
	ErrSerialization = errors.New("PDF serialization failed")
	ErrPackaging     = errors.New("EPUB packaging failed")
)

// Capture errors. All wrap ErrCapture.
var (
	ErrCaptureTimeout = fmt.Errorf("%w: page did not settle before the timeout", ErrCapture)
	ErrBrowserConnect = fmt.Errorf("%w: failed to connect to browser", ErrCapture)
	ErrPageCreate     = fmt.Errorf("%w: failed to create browser page", ErrCapture)
	ErrPageLoad       = fmt.Errorf("%w: failed to load page", ErrCapture)
	ErrPDFGeneration  = fmt.Errorf("%w: browser PDF generation failed", ErrCapture)
)

// Serialization errors. All wrap ErrSerialization.
var (
	ErrPDFLoad          = fmt.Errorf("%w: captured PDF is malformed", ErrSerialization)
	ErrEmptyCapture     = fmt.Errorf("%w: captured PDF has no pages", ErrSerialization)
	ErrPageSizeMismatch = fmt.Errorf("%w: captured page size differs from the configured format", ErrSerialization)
	ErrCoverDecode      = fmt.Errorf("%w: cover image could not be decoded", ErrSerialization)
)

// ErrWriteArtifact reports a failure to publish a finished artifact to disk.
var ErrWriteArtifact = errors.New("failed to write artifact")

// Validation errors for a Job.
var (
	ErrInvalidJob        = errors.New("invalid job")
	ErrInvalidPageFormat = errors.New("invalid page format")
	ErrInvalidMargin     = errors.New("invalid margin")
	ErrInvalidMetadata   = errors.New("invalid book metadata")
)

// AssetError names the asset that could not be read.
type AssetError struct {
	Kind string // "cover", "font", "toc template", "html source"
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrAsset, e.Kind, e.Path, e.Err)
}

// Is makes errors.Is(err, ErrAsset) hold for every AssetError.
func (e *AssetError) Is(target error) bool { return target == ErrAsset }

func (e *AssetError) Unwrap() error { return e.Err }

// StageError records which pipeline stage failed.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
