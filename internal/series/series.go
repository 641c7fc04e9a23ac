// Package series holds the date-unique daily price history.
package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"AHRSentinel/internal/model"
)

// Series is an ascending, date-unique list of observations.
type Series struct {
	obs []model.Observation
}

// New builds a series from observations in any order. Later entries for the
// same date replace earlier ones.
func New(obs []model.Observation) (*Series, error) {
	s := &Series{}
	for _, o := range obs {
		if err := s.Upsert(o.Date, o.Price); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Upsert inserts a price for date, or replaces the existing price for that date.
func (s *Series) Upsert(date time.Time, price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("price for %s must be positive, got %s", date.Format(model.DateLayout), price)
	}
	d := model.Day(date)
	i := sort.Search(len(s.obs), func(i int) bool { return !s.obs[i].Date.Before(d) })
	if i < len(s.obs) && s.obs[i].Date.Equal(d) {
		s.obs[i].Price = price
		return nil
	}
	s.obs = append(s.obs, model.Observation{})
	copy(s.obs[i+1:], s.obs[i:])
	s.obs[i] = model.Observation{Date: d, Price: price}
	return nil
}

// Observations returns a copy of the series in ascending date order.
func (s *Series) Observations() []model.Observation {
	out := make([]model.Observation, len(s.obs))
	copy(out, s.obs)
	return out
}

// Len returns the number of distinct dates.
func (s *Series) Len() int { return len(s.obs) }

// Last returns the most recent observation.
func (s *Series) Last() (model.Observation, bool) {
	if len(s.obs) == 0 {
		return model.Observation{}, false
	}
	return s.obs[len(s.obs)-1], true
}
