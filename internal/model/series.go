package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the civil-date format used in files, reports and config.
const DateLayout = "2006-01-02"

// Observation is a single daily closing price.
type Observation struct {
	Date  time.Time
	Price decimal.Decimal
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a civil date.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
