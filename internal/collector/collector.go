// Package collector runs the fetch, merge, persist and plot pipeline for one package.
package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/grazulex/packagist-stats/internal/chart"
	"github.com/grazulex/packagist-stats/internal/config"
	"github.com/grazulex/packagist-stats/internal/db"
	"github.com/grazulex/packagist-stats/internal/history"
	"github.com/grazulex/packagist-stats/internal/logger"
	"github.com/grazulex/packagist-stats/internal/models"
	"github.com/grazulex/packagist-stats/internal/packagist"
	"github.com/grazulex/packagist-stats/internal/ui/styles"
)

// Preview dimensions for the terminal chart.
const (
	previewWidth  = 60
	previewHeight = 10
)

// Archive stores every successful fetch and summarizes it per day.
type Archive interface {
	InsertSnapshot(ctx context.Context, s *models.Snapshot) error
	DailyTotals(ctx context.Context, vendor, pkg string) ([]models.DailyTotal, error)
}

// Result describes a completed run.
type Result struct {
	Date        string
	HistoryPath string
	ImagePath   string
	Counters    models.Counters
	Entries     int
}

// Collector fetches a package's download counters and records them.
type Collector struct {
	cfg        *config.Config
	httpClient *http.Client
	client     *packagist.Client
	archive    Archive
	out        io.Writer
	now        func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithHTTPClient sets the client used for the registry request.
func WithHTTPClient(c *http.Client) Option {
	return func(col *Collector) {
		col.httpClient = c
	}
}

// WithClock sets the time source used to pick the history date.
func WithClock(now func() time.Time) Option {
	return func(col *Collector) {
		col.now = now
	}
}

// WithOutput sets where the status line and preview are written.
func WithOutput(w io.Writer) Option {
	return func(col *Collector) {
		col.out = w
	}
}

// WithArchive sets the snapshot archive, overriding Config.SnapshotDB.
func WithArchive(a Archive) Option {
	return func(col *Collector) {
		col.archive = a
	}
}

// New creates a collector for cfg.
func New(cfg *config.Config, opts ...Option) *Collector {
	c := &Collector{
		cfg: cfg,
		out: os.Stdout,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	c.client = packagist.NewClient(cfg.RegistryURL, c.httpClient)

	return c
}

// PackageURL returns the registry endpoint queried by Run.
func (c *Collector) PackageURL() string {
	return c.client.PackageURL(c.cfg.Vendor, c.cfg.Package)
}

// Run performs one collection: fetch, merge today's counters into the
// history, save it and redraw the chart. A failed fetch leaves the history
// untouched.
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	if err := c.ensureDirs(); err != nil {
		return nil, err
	}

	fetchedAt := c.now()
	counters, err := c.client.FetchDownloads(ctx, c.cfg.Vendor, c.cfg.Package)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats for %s: %w", c.cfg.PackageName(), err)
	}

	prior, err := history.Load(c.cfg.HistoryPath)
	if err != nil {
		return nil, err
	}

	date := models.DateKey(fetchedAt)
	updated := models.Merge(prior, date, counters)

	if err := history.Save(c.cfg.HistoryPath, updated); err != nil {
		return nil, err
	}
	logger.Info("history updated",
		"package", c.cfg.PackageName(),
		"date", date,
		"total", counters.Total,
		"entries", len(updated),
	)

	series := updated.Series()
	if err := chart.Render(c.cfg.ImagePath, series, chart.Title(c.cfg.Vendor, c.cfg.Package)); err != nil {
		return nil, err
	}

	daily := c.archiveSnapshot(ctx, fetchedAt, date, counters)

	fmt.Fprintln(c.out, styles.StatusLine(statusMessage(c.cfg.ImagePath, counters, prior), true))
	if c.cfg.Preview {
		fmt.Fprintln(c.out, chart.Preview(series, previewWidth, previewHeight, c.cfg.PackageName()))
		if daily != nil {
			fmt.Fprintln(c.out, archiveSummary(daily))
		}
	}

	return &Result{
		Date:        date,
		HistoryPath: c.cfg.HistoryPath,
		ImagePath:   c.cfg.ImagePath,
		Counters:    counters,
		Entries:     len(updated),
	}, nil
}

func (c *Collector) ensureDirs() error {
	for _, p := range []string{c.cfg.HistoryPath, c.cfg.ImagePath} {
		if err := history.EnsureDir(filepath.Dir(p)); err != nil {
			return err
		}
	}
	return nil
}

// statusMessage reports the chart location and the change in total downloads
// against the latest entry recorded before this run.
func statusMessage(imagePath string, counters models.Counters, prior models.History) string {
	msg := "Chart generated: " + imagePath
	prevDate, prev, ok := prior.Latest()
	if !ok {
		return fmt.Sprintf("%s (total %d)", msg, counters.Total)
	}
	return fmt.Sprintf("%s (total %d, %+d since %s)", msg, counters.Total, counters.Total-prev.Total, prevDate)
}

// archiveSummary renders per-day sample counts from the snapshot archive.
func archiveSummary(daily []models.DailyTotal) string {
	if len(daily) == 0 {
		return "Archive: no snapshots"
	}

	snapshots := 0
	for _, d := range daily {
		snapshots += d.Samples
	}
	last := daily[len(daily)-1]

	return fmt.Sprintf("Archive: %d snapshots over %d days (%s: %d samples, total %d)",
		snapshots, len(daily), last.Date, last.Samples, last.Total)
}

// archiveSnapshot records the fetch in the snapshot archive, if one is
// configured, and returns the archive's per-day totals when a preview is
// requested. Archive failures are logged and do not fail the run.
func (c *Collector) archiveSnapshot(ctx context.Context, fetchedAt time.Time, date string, counters models.Counters) []models.DailyTotal {
	archive := c.archive
	if archive == nil {
		if c.cfg.SnapshotDB == "" {
			return nil
		}
		database, err := db.New(c.cfg.SnapshotDB)
		if err != nil {
			logger.Warn("snapshot archive unavailable", "path", c.cfg.SnapshotDB, "error", err)
			return nil
		}
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close snapshot archive", "error", err)
			}
		}()
		logger.Debug("snapshot archive opened", "path", database.Path())
		archive = database
	}

	snapshot := &models.Snapshot{
		FetchedAt: fetchedAt,
		Vendor:    c.cfg.Vendor,
		Package:   c.cfg.Package,
		Date:      date,
		Counters:  counters,
	}
	if err := archive.InsertSnapshot(ctx, snapshot); err != nil {
		logger.Warn("failed to archive snapshot", "error", err)
		return nil
	}
	logger.Debug("snapshot archived", "id", snapshot.ID)

	if !c.cfg.Preview {
		return nil
	}
	daily, err := archive.DailyTotals(ctx, c.cfg.Vendor, c.cfg.Package)
	if err != nil {
		logger.Warn("failed to read archive totals", "error", err)
		return nil
	}
	return daily
}
