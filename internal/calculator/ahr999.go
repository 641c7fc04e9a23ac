package calculator

import (
	"math"
	"time"

	"AHRSentinel/internal/model"
)

// Power-law calibration of the long-horizon fair-value curve.
const (
	DefaultCurveA = 5.84
	DefaultCurveB = 17.01
)

// GenesisDate is the Bitcoin genesis block date.
var GenesisDate = time.Date(2009, 1, 3, 0, 0, 0, 0, time.UTC)

// DaysSince returns the number of whole calendar days from genesis to date.
func DaysSince(date, genesis time.Time) int {
	return int(model.Day(date).Sub(model.Day(genesis)).Hours() / 24)
}

// FairValue evaluates 10^(a*log10(days) - b). Absent at or before genesis.
func FairValue(date, genesis time.Time, a, b float64) model.Optional {
	days := DaysSince(date, genesis)
	if days <= 0 {
		return model.None()
	}
	return model.Some(math.Pow(10, a*math.Log10(float64(days))-b))
}

// AHR999 combines price with both estimates: (price/avg) * (price/fair).
// Absent if either estimate is absent or zero.
func AHR999(price float64, avg, fair model.Optional) model.Optional {
	a, ok := avg.Get()
	if !ok || a == 0 {
		return model.None()
	}
	f, ok := fair.Get()
	if !ok || f == 0 {
		return model.None()
	}
	return model.Some((price / a) * (price / f))
}
