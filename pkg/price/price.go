package price

import (
	"time"
)

// Interval is one fixed block of time with an electricity price.
// Start is inclusive, End exclusive.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Price float64   `json:"price"`
}

// Contains reports whether t falls inside the interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Schedule maps RFC3339 start time to the interval starting then. The
// cloud replaces it wholesale on every fetch, we only read it.
type Schedule map[string]Interval
