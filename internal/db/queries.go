package db

import (
	"context"
	"fmt"
	"time"

	"github.com/grazulex/packagist-stats/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// InsertSnapshot archives one fetch result. A zero FetchedAt is set to now.
func (db *DB) InsertSnapshot(ctx context.Context, s *models.Snapshot) error {
	query := `
		INSERT INTO download_snapshots (
			fetched_at, vendor, package, date, daily, monthly, total
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	fetchedAt := s.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	date := s.Date
	if date == "" {
		date = models.DateKey(fetchedAt)
	}

	result, err := db.ExecContext(ctx, query,
		fetchedAt.UTC().Format(timestampLayout),
		s.Vendor,
		s.Package,
		date,
		s.Counters.Daily,
		s.Counters.Monthly,
		s.Counters.Total,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		s.ID = id
	}
	s.Date = date

	return nil
}

// DailyTotals returns, per date, the total of the last snapshot taken that
// day and how many snapshots were recorded. Dates are ascending.
func (db *DB) DailyTotals(ctx context.Context, vendor, pkg string) ([]models.DailyTotal, error) {
	query := `
		SELECT s.date, s.total, c.samples
		FROM download_snapshots s
		JOIN (
			SELECT date, MAX(id) AS last_id, COUNT(*) AS samples
			FROM download_snapshots
			WHERE vendor = ? AND package = ?
			GROUP BY date
		) c ON s.id = c.last_id
		ORDER BY s.date ASC
	`

	rows, err := db.QueryContext(ctx, query, vendor, pkg)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []models.DailyTotal
	for rows.Next() {
		var dt models.DailyTotal
		if err := rows.Scan(&dt.Date, &dt.Total, &dt.Samples); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		totals = append(totals, dt)
	}

	return totals, rows.Err()
}
