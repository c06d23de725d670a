package domain

import "time"

// RunSummary totals the sources evaluated in a session.
type RunSummary struct {
	Total    int
	Fresh    int
	Stale    int
	Failed   int
	Duration time.Duration
}
