package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	html2book "github.com/alnah/go-html2book"
	"github.com/alnah/go-html2book/internal/assets"
)

// Publisher runs one publishing job.
type Publisher interface {
	Run(ctx context.Context, job html2book.Job) (*html2book.Report, error)
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Getenv       func(string) string
	NewPublisher func(logger *slog.Logger, loader assets.AssetLoader) Publisher
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		NewPublisher: func(logger *slog.Logger, loader assets.AssetLoader) Publisher {
			return html2book.NewPublisher(
				html2book.WithLogger(logger),
				html2book.WithAssetLoader(loader),
			)
		},
	}
}

// newLogger builds the stderr text logger: info by default, debug with
// --verbose, errors only with --quiet.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
