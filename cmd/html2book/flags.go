package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// errUsage marks flag parsing failures.
var errUsage = errors.New("usage error")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags override where the book is read from.
type sourceFlags struct {
	url  string
	html string
}

// outputFlags override where the artifacts land.
type outputFlags struct {
	dir string
}

// publishFlags holds all flags for the publish command.
type publishFlags struct {
	common    commonFlags
	source    sourceFlags
	output    outputFlags
	timeout   string
	pageSize  string
	assetPath string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "book config name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show stage timing and full error detail")
}

// addSourceFlags adds source override flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVarP(&f.url, "url", "u", "", "page captured to PDF")
	fs.StringVar(&f.html, "html", "", "HTML file packaged into the EPUB")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "output directory")
}

// parsePublishFlags parses publish command flags. Positional arguments are
// rejected. A request for help returns flag.ErrHelp after printing usage.
func parsePublishFlags(args []string, stderr io.Writer) (*publishFlags, error) {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &publishFlags{}

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addOutputFlags(fs, &f.output)
	fs.StringVarP(&f.timeout, "timeout", "t", "", "capture timeout (e.g., 30s, 2m)")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded templates and styles")

	fs.Usage = func() { printPublishUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	if f.common.quiet && f.common.verbose {
		return nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", errUsage)
	}
	return f, nil
}
