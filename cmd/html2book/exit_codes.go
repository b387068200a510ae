package main

import (
	"errors"
	"os"

	html2book "github.com/alnah/go-html2book"
	"github.com/alnah/go-html2book/internal/assets"
	"github.com/alnah/go-html2book/internal/config"
)

// Exit codes for the html2book CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess       = 0 // Both artifacts written
	ExitGeneral       = 1 // General/unexpected error
	ExitUsage         = 2 // Invalid flags, config, or validation
	ExitIO            = 3 // Missing asset, unwritable output
	ExitBrowser       = 4 // Browser/capture errors
	ExitSerialization = 5 // PDF assembly errors
	ExitPackaging     = 6 // EPUB packaging errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Asset errors come first: a missing file is an I/O problem whichever
	// stage found it.
	if errors.Is(err, html2book.ErrAsset) ||
		errors.Is(err, html2book.ErrWriteArtifact) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, html2book.ErrCapture) {
		return ExitBrowser
	}
	if errors.Is(err, html2book.ErrSerialization) {
		return ExitSerialization
	}
	if errors.Is(err, html2book.ErrPackaging) {
		return ExitPackaging
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRequired) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, html2book.ErrInvalidJob) ||
		errors.Is(err, html2book.ErrInvalidPageFormat) ||
		errors.Is(err, html2book.ErrInvalidMargin) ||
		errors.Is(err, html2book.ErrInvalidMetadata) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, errUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
