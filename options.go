package html2book

import (
	"log/slog"

	"github.com/alnah/go-html2book/internal/assets"
)

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the structured logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCapturer replaces the headless browser capturer.
func WithCapturer(c Capturer) Option {
	return func(p *Publisher) {
		p.capturer = c
	}
}

// WithAssetLoader sets the template store. The default serves the embedded
// footer, TOC template and EPUB stylesheet.
func WithAssetLoader(loader assets.AssetLoader) Option {
	return func(p *Publisher) {
		p.loader = loader
	}
}

// WithStateObserver registers fn to be called on every state transition,
// including the terminal one.
func WithStateObserver(fn func(State)) Option {
	return func(p *Publisher) {
		p.observer = fn
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewAssetLoader returns a template store reading overrides from basePath
// (styles/*.css, templates/*.html) and falling back to the embedded
// defaults. An empty basePath serves the embedded assets only.
func NewAssetLoader(basePath string) (assets.AssetLoader, error) {
	r, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, err
	}
	return r, nil
}
