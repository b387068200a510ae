package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	html2book "github.com/alnah/go-html2book"
	"github.com/alnah/go-html2book/internal/assets"
	"github.com/alnah/go-html2book/internal/config"
	"github.com/alnah/go-html2book/internal/hints"
)

// runPublishCmd builds both artifacts and returns an exit code.
func runPublishCmd(args []string, env *Environment) int {
	flags, err := parsePublishFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	cfg, err := resolveConfig(flags.common.config)
	if err == nil {
		mergeFlags(flags, cfg)
		err = cfg.Validate()
	}
	if err != nil {
		printError(env.Stderr, err, "")
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runPublish(ctx, cfg, flags.common, env); err != nil {
		printError(env.Stderr, err, cfg.Source.URL)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runPublish runs the publisher for a validated config and reports.
func runPublish(ctx context.Context, cfg *config.Config, common commonFlags, env *Environment) error {
	job, err := buildJob(cfg)
	if err != nil {
		return err
	}

	loader, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, common)
	start := env.Now()
	report, err := env.NewPublisher(logger, loader).Run(ctx, job)
	if err != nil {
		return err
	}

	if !common.quiet {
		fmt.Fprintf(env.Stdout, "PDF:  %s\n", report.PDFPath)
		fmt.Fprintf(env.Stdout, "EPUB: %s\n", report.EPUBPath)
		if common.verbose {
			for _, s := range report.Stages {
				fmt.Fprintf(env.Stdout, "  %-16s %v\n", s.Stage, s.Duration.Round(time.Millisecond))
			}
			fmt.Fprintf(env.Stdout, "Done in %v\n", env.Now().Sub(start).Round(time.Millisecond))
		}
	}
	return nil
}

// resolveConfig returns the built-in book when no config is named.
func resolveConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(name)
}

// mergeFlags applies flag overrides on top of cfg. Flags always win.
func mergeFlags(flags *publishFlags, cfg *config.Config) {
	if flags.source.url != "" {
		cfg.Source.URL = flags.source.url
	}
	if flags.source.html != "" {
		cfg.Source.HTML = flags.source.html
	}
	if flags.output.dir != "" {
		cfg.Output.Dir = flags.output.dir
	}
	if flags.timeout != "" {
		cfg.Capture.Timeout = flags.timeout
	}
	if flags.pageSize != "" {
		cfg.Page.Size = flags.pageSize
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
}

// buildJob converts a validated config into a publishing job.
func buildJob(cfg *config.Config) (html2book.Job, error) {
	format, err := html2book.LookupFormat(cfg.Page.Size)
	if err != nil {
		return html2book.Job{}, err
	}
	return html2book.Job{
		URL:      cfg.Source.URL,
		HTMLPath: cfg.Source.HTML,
		Book: html2book.BookMetadata{
			Title:    cfg.Book.Title,
			Author:   cfg.Book.Author,
			Subject:  cfg.Book.Subject,
			Keywords: append([]string(nil), cfg.Book.Keywords...),
			Language: cfg.Book.Language,
		},
		Page: html2book.PageSettings{
			Format:       format,
			MarginTop:    cfg.Page.MarginTop,
			MarginBottom: cfg.Page.MarginBottom,
		},
		Assets: html2book.Assets{
			Cover: cfg.Assets.Cover,
			Font: html2book.FontAsset{
				File:       cfg.Assets.Font.File,
				Family:     cfg.Assets.Font.Family,
				LocalNames: append([]string(nil), cfg.Assets.Font.LocalNames...),
				URL:        cfg.Assets.Font.URL,
			},
			TOCTemplate: cfg.Assets.TOCTemplate,
		},
		Output: html2book.OutputPaths{
			PDF:  filepath.Clean(cfg.PDFPath()),
			EPUB: filepath.Clean(cfg.EPUBPath()),
		},
		CaptureTimeout: cfg.CaptureTimeout(),
	}, nil
}

// printError writes err followed by a hint when one applies.
func printError(w io.Writer, err error, url string) {
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err, url))
}

func hintFor(err error, url string) string {
	var assetErr *html2book.AssetError
	var notFound *config.NotFoundError
	switch {
	case errors.Is(err, html2book.ErrCoverDecode) && errors.As(err, &assetErr):
		return hints.ForCorruptCover(assetErr.Path)
	case errors.As(err, &assetErr):
		return hints.ForMissingAsset(assetErr.Path)
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, html2book.ErrCaptureTimeout):
		return hints.ForCaptureTimeout(url)
	case errors.Is(err, html2book.ErrPageLoad):
		return hints.ForPageLoad(url)
	case errors.Is(err, html2book.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, html2book.ErrEmptyCapture), errors.Is(err, html2book.ErrPDFLoad):
		return hints.ForCorruptCapture()
	case errors.Is(err, html2book.ErrWriteArtifact):
		return hints.ForOutputDirectory()
	}
	return ""
}
