package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-html2book/internal/config"
	"github.com/alnah/go-html2book/internal/fileutil"
)

// sourceProbeTimeout bounds the reachability check of the source URL.
const sourceProbeTimeout = 3 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Book     bookInfo   `json:"book"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// bookInfo holds the checks of the configured book inputs.
type bookInfo struct {
	Assets        []assetCheck `json:"assets"`
	SourceURL     string       `json:"source_url"`
	SourceReached bool         `json:"source_reachable"`
}

// assetCheck is one configured input file.
type assetCheck struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Found bool   `json:"found"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "machine-readable output")
	configName := fs.StringP("config", "c", "", "book config name or path")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	cfg, err := resolveConfig(*configName)
	if err != nil {
		printError(env.Stderr, err, "")
		return exitCodeFor(err)
	}

	result := runDoctor(cfg, env.Getenv, http.DefaultClient)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, getenv func(string) string, client *http.Client) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result, getenv)
	checkSystem(result)
	checkBook(result, cfg)
	checkSource(result, cfg.Source.URL, client)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			// Not fatal: rod downloads a Chromium on first capture.
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; a browser will be downloaded on first run. Set ROD_BROWSER_BIN to use your own")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- browser path from env or rod lookup
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1" && result.Env.BrowserBin == ""
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("HTML2BOOK_CONTAINER") == "1" {
		return true, "HTML2BOOK_CONTAINER=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "html2book-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// checkBook verifies every configured input file exists.
func checkBook(result *doctorResult, cfg *config.Config) {
	checks := []assetCheck{
		{Kind: "html source", Path: cfg.Source.HTML},
		{Kind: "cover", Path: cfg.Assets.Cover},
		{Kind: "font", Path: cfg.Assets.Font.File},
	}
	if cfg.Assets.TOCTemplate != "" {
		checks = append(checks, assetCheck{Kind: "toc template", Path: cfg.Assets.TOCTemplate})
	}
	for i := range checks {
		checks[i].Found = fileutil.CheckFile(checks[i].Path) == nil
		if !checks[i].Found {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s not found: %s", checks[i].Kind, checks[i].Path))
		}
	}
	result.Book.Assets = checks
}

// checkSource probes the URL the capture will load. An unreachable site is
// a warning: it is usually started right before publishing.
func checkSource(result *doctorResult, url string, client *http.Client) {
	result.Book.SourceURL = url
	ctx, cancel := context.WithTimeout(context.Background(), sourceProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid source URL %q: %v", url, err))
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Source %s not reachable; start the site server before publishing", url))
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Source %s answered %s", url, resp.Status))
		return
	}
	result.Book.SourceReached = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "html2book doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Book")
	for _, a := range r.Book.Assets {
		if a.Found {
			fmt.Fprintf(w, "  [OK] %s: %s\n", a.Kind, a.Path)
		} else {
			fmt.Fprintf(w, "  [ERROR] %s: %s (missing)\n", a.Kind, a.Path)
		}
	}
	if r.Book.SourceReached {
		fmt.Fprintf(w, "  [OK] Source: %s\n", r.Book.SourceURL)
	} else {
		fmt.Fprintf(w, "  [WARN] Source: %s (not reachable)\n", r.Book.SourceURL)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to publish")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
