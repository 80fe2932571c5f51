package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	t.Setenv(key, val)

	assert.Equal(t, val, getEnvString(key, "default"))
	assert.Equal(t, "default", getEnvString("NON_EXISTENT", "default"))
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			assert.Equal(t, tt.want, getEnvDuration(key, tt.defaultVal))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		name   string
		envVal string
		def    bool
		want   bool
	}{
		{"True", "true", false, true},
		{"One", "1", false, true},
		{"False", "false", true, false},
		{"Invalid", "maybe", true, true},
		{"Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			assert.Equal(t, tt.want, getEnvBool(key, tt.def))
		})
	}
}

func TestDefault(t *testing.T) {
	base := filepath.Join("srv", "pkgstats")
	cfg := Default(base)

	assert.Equal(t, "grazulex/laravel-arc", cfg.PackageName())
	assert.Equal(t, filepath.Join(base, "stats", "laravel-arc.json"), cfg.HistoryPath)
	assert.Equal(t, filepath.Join(base, "images", "laravel-arc.png"), cfg.ImagePath)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Vendor = " "
	cfg.Package = ""

	assert.Error(t, cfg.Validate(), "empty vendor and package are rejected")
}

func TestLoad_Defaults(t *testing.T) {
	base := t.TempDir()
	t.Setenv("PKGSTATS_BASE_DIR", base)
	for _, key := range []string{
		"PKGSTATS_VENDOR", "PKGSTATS_PACKAGE", "PKGSTATS_REGISTRY_URL",
		"PKGSTATS_HISTORY_PATH", "PKGSTATS_IMAGE_PATH", "PKGSTATS_SNAPSHOT_DB",
		"PKGSTATS_SCHEDULE", "PKGSTATS_HTTP_TIMEOUT", "PKGSTATS_PREVIEW", "PKGSTATS_DEBUG",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(base), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	base := t.TempDir()
	t.Setenv("PKGSTATS_BASE_DIR", base)
	t.Setenv("PKGSTATS_VENDOR", "acme")
	t.Setenv("PKGSTATS_PACKAGE", "widgets")
	t.Setenv("PKGSTATS_REGISTRY_URL", "http://localhost:9000")
	t.Setenv("PKGSTATS_HISTORY_PATH", "")
	t.Setenv("PKGSTATS_IMAGE_PATH", "/tmp/w.png")
	t.Setenv("PKGSTATS_SNAPSHOT_DB", "/tmp/w.db")
	t.Setenv("PKGSTATS_SCHEDULE", "@daily")
	t.Setenv("PKGSTATS_HTTP_TIMEOUT", "5")
	t.Setenv("PKGSTATS_PREVIEW", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "acme/widgets", cfg.PackageName())
	assert.Equal(t, filepath.Join(base, "stats", "widgets.json"), cfg.HistoryPath)
	assert.Equal(t, "/tmp/w.png", cfg.ImagePath)
	assert.Equal(t, "/tmp/w.db", cfg.SnapshotDB)
	assert.Equal(t, "http://localhost:9000", cfg.RegistryURL)
	assert.Equal(t, "@daily", cfg.Schedule)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.Preview)
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	require.NotEmpty(t, paths)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Contains(t, paths, filepath.Join(cwd, ".env"))
}

func TestGetDefaultBaseDir(t *testing.T) {
	assert.NotEmpty(t, getDefaultBaseDir())
}
