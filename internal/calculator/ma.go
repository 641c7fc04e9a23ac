package calculator

import (
	"errors"

	"AHRSentinel/internal/model"
)

// DefaultWindow is the trailing-average length in daily observations.
const DefaultWindow = 200

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// TrailingAverage returns the mean of the window prices ending at index inclusive.
// Absent when fewer than window prices are available; partial windows are never averaged.
func TrailingAverage(prices []float64, index, window int) model.Optional {
	if window <= 0 || index < 0 || index >= len(prices) || index+1 < window {
		return model.None()
	}
	avg, err := CalculateSMA(prices[:index+1], window)
	if err != nil {
		return model.None()
	}
	return model.Some(avg)
}

// SlidingAverage keeps a running sum over a fixed window of pushed prices.
type SlidingAverage struct {
	window int
	buf    []float64 // circular
	idx    int
	count  int
	sum    float64
}

// NewSlidingAverage creates a window of the given size. window must be positive.
func NewSlidingAverage(window int) *SlidingAverage {
	return &SlidingAverage{window: window, buf: make([]float64, window)}
}

// Push adds the next price and returns the average of the current window,
// or absent until window prices have been seen.
func (s *SlidingAverage) Push(price float64) model.Optional {
	if s.count >= s.window {
		s.sum -= s.buf[s.idx]
	}
	s.buf[s.idx] = price
	s.sum += price
	s.idx = (s.idx + 1) % s.window
	s.count++

	if s.count < s.window {
		return model.None()
	}
	return model.Some(s.sum / float64(s.window))
}
