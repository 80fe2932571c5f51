// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the collector configuration.
type Config struct {
	Vendor      string
	Package     string
	RegistryURL string
	HistoryPath string
	ImagePath   string
	SnapshotDB  string
	Schedule    string
	HTTPTimeout time.Duration
	Preview     bool
	Debug       bool
}

// Default values
const (
	DefaultVendor      = "grazulex"
	DefaultPackage     = "laravel-arc"
	DefaultRegistryURL = "https://packagist.org"

	defaultHTTPTimeout = 30 * time.Second
)

// Default returns the fixed configuration rooted at baseDir: the history goes
// to <baseDir>/stats/<package>.json and the chart to <baseDir>/images/<package>.png.
func Default(baseDir string) *Config {
	return &Config{
		Vendor:      DefaultVendor,
		Package:     DefaultPackage,
		RegistryURL: DefaultRegistryURL,
		HistoryPath: HistoryPathFor(baseDir, DefaultPackage),
		ImagePath:   ImagePathFor(baseDir, DefaultPackage),
		HTTPTimeout: defaultHTTPTimeout,
	}
}

// HistoryPathFor returns the history file location for pkg under baseDir.
func HistoryPathFor(baseDir, pkg string) string {
	return filepath.Join(baseDir, "stats", pkg+".json")
}

// ImagePathFor returns the chart location for pkg under baseDir.
func ImagePathFor(baseDir, pkg string) string {
	return filepath.Join(baseDir, "images", pkg+".png")
}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	baseDir := getEnvString("PKGSTATS_BASE_DIR", getDefaultBaseDir())
	pkg := getEnvString("PKGSTATS_PACKAGE", DefaultPackage)

	cfg := &Config{
		Vendor:      getEnvString("PKGSTATS_VENDOR", DefaultVendor),
		Package:     pkg,
		RegistryURL: getEnvString("PKGSTATS_REGISTRY_URL", DefaultRegistryURL),
		HistoryPath: getEnvString("PKGSTATS_HISTORY_PATH", HistoryPathFor(baseDir, pkg)),
		ImagePath:   getEnvString("PKGSTATS_IMAGE_PATH", ImagePathFor(baseDir, pkg)),
		SnapshotDB:  getEnvString("PKGSTATS_SNAPSHOT_DB", ""),
		Schedule:    getEnvString("PKGSTATS_SCHEDULE", ""),
		HTTPTimeout: getEnvDuration("PKGSTATS_HTTP_TIMEOUT", defaultHTTPTimeout),
		Preview:     getEnvBool("PKGSTATS_PREVIEW", false),
		Debug:       getEnvBool("PKGSTATS_DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Vendor) == "" {
		errs = append(errs, errors.New("vendor is required"))
	}
	if strings.TrimSpace(c.Package) == "" {
		errs = append(errs, errors.New("package is required"))
	}
	if c.HistoryPath == "" {
		errs = append(errs, errors.New("history path is required"))
	}
	if c.ImagePath == "" {
		errs = append(errs, errors.New("image path is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// PackageName returns "vendor/package".
func (c *Config) PackageName() string {
	return c.Vendor + "/" + c.Package
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pkgstats", ".env"))
	}

	return paths
}

// getDefaultBaseDir returns the parent of the directory holding the executable,
// so a binary in <project>/bin writes to <project>/stats and <project>/images.
func getDefaultBaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe))
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
