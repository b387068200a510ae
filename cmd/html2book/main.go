package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
// Without a command it publishes, so a bare `html2book` builds the book.
func runMain(args []string, env *Environment) int {
	cmd, rest := "publish", args[1:]
	if len(rest) > 0 && !isFlag(rest[0]) {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "publish":
		return runPublishCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "html2book %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

// hasVerboseFlag scans raw args before any parsing happens.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
