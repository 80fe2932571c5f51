// Package models defines data structures and domain types.
package models

import (
	"maps"
	"slices"
	"time"
)

// DateLayout is the key format of a History, always interpreted in UTC.
const DateLayout = "2006-01-02"

// Counters holds the download figures reported by the registry for one day.
type Counters struct {
	Daily   int64 `json:"daily"`
	Monthly int64 `json:"monthly"`
	Total   int64 `json:"total"`
}

// History maps a UTC calendar date to the counters recorded on that day.
type History map[string]Counters

// DateKey returns the History key for t.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Merge returns a copy of h with date set to c. An existing entry for the
// same date is overwritten. h is never modified.
func Merge(h History, date string, c Counters) History {
	out := make(History, len(h)+1)
	maps.Copy(out, h)
	out[date] = c
	return out
}

// Dates returns the history keys in ascending order. This is the order in
// which encoding/json persists the map.
func (h History) Dates() []string {
	return slices.Sorted(maps.Keys(h))
}

// Series is the chart input derived from a History.
type Series struct {
	Dates  []string
	Totals []float64
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.Dates)
}

// Series extracts the total downloads per date, in Dates order.
func (h History) Series() Series {
	dates := h.Dates()
	totals := make([]float64, len(dates))
	for i, d := range dates {
		totals[i] = float64(h[d].Total)
	}
	return Series{Dates: dates, Totals: totals}
}

// Latest returns the most recent entry, or false if h is empty.
func (h History) Latest() (string, Counters, bool) {
	if len(h) == 0 {
		return "", Counters{}, false
	}
	dates := h.Dates()
	last := dates[len(dates)-1]
	return last, h[last], true
}
