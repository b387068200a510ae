//go:build windows

// Package process tears down the browser process tree a capture leaves behind.
package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and its children with taskkill (/F force, /T tree).
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort; the launcher's own Kill runs afterwards.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
