package models

import "time"

// Snapshot is a single archived fetch result.
type Snapshot struct {
	FetchedAt time.Time
	Vendor    string
	Package   string
	Date      string
	Counters  Counters
	ID        int64
}

// DailyTotal is the last total recorded for a date in the snapshot archive.
type DailyTotal struct {
	Date    string
	Total   int64
	Samples int
}
