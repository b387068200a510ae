// Package hints turns common publishing failures into one actionable line.
// Every hint is formatted as "\n  hint: <text>" so callers can append it to
// an error message as-is.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-html2book/internal/fileutil"
)

// IsInContainer reports whether we run inside Docker. Overridable in tests.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests sandbox and binary overrides when Chrome fails to start.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "run 'html2book doctor'")

	return formatHints(hints)
}

// ForCaptureTimeout points at the two usual causes of a page that never settles.
func ForCaptureTimeout(url string) string {
	return format("make sure the site at " + url + " is being served, or raise --timeout")
}

// ForPageLoad reminds the user that the site generator must be running.
func ForPageLoad(url string) string {
	return format("start the site server (e.g. 'gatsby serve') so " + url + " responds")
}

// ForConfigNotFound suggests --config or the user config location among searchedPaths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/book.yaml"

	marker := filepath.Join(".config", "go-html2book")
	for _, p := range searchedPaths {
		if strings.Contains(p, marker) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMissingAsset explains where relative asset paths are resolved from.
func ForMissingAsset(path string) string {
	if filepath.IsAbs(path) {
		return format("check " + path + " exists and is readable")
	}
	return format("relative asset paths resolve from the working directory; run html2book from the project root")
}

// ForCorruptCover names the image formats a cover may use.
func ForCorruptCover(path string) string {
	return format(path + " must be a PNG or JPEG image")
}

// ForOutputDirectory returns hints for artifact write errors.
func ForOutputDirectory() string {
	return format("check the output directory is writable")
}

// ForCorruptCapture explains empty or malformed captures.
func ForCorruptCapture() string {
	return format("the browser produced no usable pages; open the URL in Chrome and check it renders")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
