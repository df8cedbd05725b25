// Package vcs looks up best-effort repository metadata for archived findings.
package vcs

import (
	"os/exec"
	"strings"
)

// Info holds the VCS metadata attached to every archived item.
// Repo falls back to "local" and Commit to "unknown" when the project is not
// a git repository or git is unavailable.
type Info struct {
	Repo   string
	Commit string
}

// Lookup runs git in the project root to resolve the remote URL and current
// commit. Failures are absorbed into the fallbacks — metadata is best-effort
// and never blocks a scan.
func Lookup(projectRoot string) Info {
	info := Info{Repo: "local", Commit: "unknown"}

	if out, err := runGit(projectRoot, "config", "--get", "remote.origin.url"); err == nil && out != "" {
		info.Repo = out
	}
	if out, err := runGit(projectRoot, "rev-parse", "HEAD"); err == nil && out != "" {
		info.Commit = out
	}
	return info
}

// runGit executes a git subcommand in the given directory and returns its
// trimmed stdout.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
