// Package main is the entry point for the Packagist download stats collector.
// It loads configuration, records today's download counters and redraws the chart.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grazulex/packagist-stats/internal/collector"
	"github.com/grazulex/packagist-stats/internal/config"
	"github.com/grazulex/packagist-stats/internal/logger"
	"github.com/grazulex/packagist-stats/internal/packagist"
	"github.com/grazulex/packagist-stats/internal/ui/styles"
	"github.com/grazulex/packagist-stats/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage(os.Stdout)
		os.Exit(0)
	}

	os.Exit(run(os.Stdout, os.Stderr))
}

// run contains the main application logic and returns the process exit code.
func run(stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}
	logger.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := collector.New(cfg, collector.WithOutput(stdout))

	if cfg.Schedule != "" {
		if err := c.Schedule(ctx, cfg.Schedule); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	_, err = c.Run(ctx)
	return exitCode(stdout, stderr, c.PackageURL(), err)
}

// exitCode reports err and maps it to the process exit status.
func exitCode(stdout, stderr io.Writer, url string, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, packagist.ErrUnexpectedStatus) {
		fmt.Fprintln(stdout, styles.StatusLine("Error: unable to fetch data from "+url, false))
		logger.Debug("fetch failed", "error", err)
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// printUsage prints the command-line usage information.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, `pkgstats - Packagist download history collector

Usage:
  pkgstats [flags]

Fetches today's download counters for one package, stores them in a JSON
history keyed by UTC date and redraws a PNG chart of total downloads.

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Environment Variables:
  PKGSTATS_VENDOR         Package vendor (default: grazulex)
  PKGSTATS_PACKAGE        Package name (default: laravel-arc)
  PKGSTATS_REGISTRY_URL   Registry base URL (default: https://packagist.org)
  PKGSTATS_BASE_DIR       Root for stats/ and images/ (default: parent of the binary's directory)
  PKGSTATS_HISTORY_PATH   History JSON path (default: <base>/stats/<package>.json)
  PKGSTATS_IMAGE_PATH     Chart PNG path (default: <base>/images/<package>.png)
  PKGSTATS_SNAPSHOT_DB    SQLite archive of every fetch (default: disabled)
  PKGSTATS_SCHEDULE       Cron expression; keeps running and collects on schedule
  PKGSTATS_HTTP_TIMEOUT   Registry request timeout (default: 30s)
  PKGSTATS_PREVIEW        Print a terminal chart after each run (default: false)
  PKGSTATS_DEBUG          Enable debug logging (default: false)

Configuration:
  The collector looks for .env files in the following locations:
  - Current directory
  - ~/.config/pkgstats/.env

  The default base directory is derived from the executable's location. Under
  "go run" the binary lives in a temporary build directory, and under
  "go install" it lives in $GOBIN, so set PKGSTATS_BASE_DIR in those cases.`)
}
