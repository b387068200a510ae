package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2book [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  publish    Capture the site to PDF and package the HTML to EPUB (default)")
	fmt.Fprintln(w, "  doctor     Check browser, environment and book inputs")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'html2book help <command>' for details on a specific command.")
}

// printPublishUsage prints usage for the publish command.
func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2book [publish] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture the rendered site to book.pdf, then package the HTML source")
	fmt.Fprintln(w, "to book.epub. The EPUB is built only once the PDF is written.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source:")
	fmt.Fprintln(w, "  -u, --url <url>           Page captured to PDF")
	fmt.Fprintln(w, "      --html <path>         HTML file packaged into the EPUB")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Bound on page settlement (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "  -c, --config <name>       Book config name or path")
	fmt.Fprintln(w, "      --asset-path <dir>    Override embedded templates and styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show stage timing and full error detail")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general, 2 usage/config, 3 I/O or asset,")
	fmt.Fprintln(w, "  4 browser/capture, 5 PDF serialization, 6 EPUB packaging")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2book doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, the environment and the configured book inputs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Book config name or path")
	fmt.Fprintln(w, "      --json                Machine-readable output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "publish":
		printPublishUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: html2book version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: html2book help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
