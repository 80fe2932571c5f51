// Package version provides build version information and runtime metadata.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// These are set via ldflags at build time
	Version = ""
	Commit  = ""
	Date    = ""

	resolvedVersion string
	resolvedCommit  string
	resolvedDate    string

	once sync.Once

	execCommand = exec.CommandContext
)

const gitTimeout = 2 * time.Second

func ensureInitialized() {
	once.Do(func() {
		resolvedVersion, resolvedCommit, resolvedDate = Version, Commit, Date
		if resolvedDate == "" {
			resolvedDate = time.Now().UTC().Format("2006-01-02")
		}
		if resolvedCommit == "" {
			resolvedCommit = getGitCommit()
		}
		if resolvedVersion == "" {
			resolvedVersion = getGitVersion()
		}
	})
}

// Reset clears resolved values so the next call re-detects them.
func Reset() {
	once = sync.Once{}
	resolvedVersion, resolvedCommit, resolvedDate = "", "", ""
}

func runGit(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := execCommand(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func getGitCommit() string {
	commit, err := runGit("describe", "--always", "--dirty")
	if err != nil || commit == "" {
		return "unknown"
	}
	return commit
}

func getGitVersion() string {
	v, err := runGit("describe", "--tags", "--abbrev=0")
	if err == nil && v != "" {
		return strings.TrimPrefix(v, "v")
	}
	return "dev"
}

// GetVersion returns the release version, "dev" when untagged.
func GetVersion() string {
	ensureInitialized()
	return resolvedVersion
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	ensureInitialized()
	return resolvedCommit
}

// GetDate returns the build date.
func GetDate() string {
	ensureInitialized()
	return resolvedDate
}

// Info returns a one-line version banner.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("pkgstats %s (commit: %s, built: %s, %s/%s)",
		resolvedVersion, resolvedCommit, resolvedDate, runtime.GOOS, runtime.GOARCH)
}
