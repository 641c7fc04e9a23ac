package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Optional is a float64 that may be absent. The zero value is absent.
type Optional struct {
	value float64
	ok    bool
}

// Some wraps a present value.
func Some(v float64) Optional { return Optional{value: v, ok: true} }

// None returns an absent value.
func None() Optional { return Optional{} }

// Get returns the value and whether it is present.
func (o Optional) Get() (float64, bool) { return o.value, o.ok }

// Present reports whether a value is set.
func (o Optional) Present() bool { return o.ok }

// OrElse returns the value, or def when absent.
func (o Optional) OrElse(def float64) float64 {
	if !o.ok {
		return def
	}
	return o.value
}

// MarshalJSON emits null for absent values.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON accepts a number or null.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// IndicatorPoint is the AHR999 derivation for one observation.
type IndicatorPoint struct {
	Date            time.Time       `json:"-"`
	Price           decimal.Decimal `json:"price"`
	TrailingAverage Optional        `json:"ma_200d"`
	FairValue       Optional        `json:"ma_200w_fit"`
	Value           Optional        `json:"ahr999"`
}

type indicatorPointJSON struct {
	Date string `json:"date"`
	*indicatorPointAlias
}

type indicatorPointAlias IndicatorPoint

// MarshalJSON writes the date as YYYY-MM-DD.
func (p IndicatorPoint) MarshalJSON() ([]byte, error) {
	a := indicatorPointAlias(p)
	return json.Marshal(indicatorPointJSON{Date: p.Date.Format(DateLayout), indicatorPointAlias: &a})
}

// UnmarshalJSON reads the YYYY-MM-DD date form.
func (p *IndicatorPoint) UnmarshalJSON(data []byte) error {
	aux := indicatorPointJSON{indicatorPointAlias: (*indicatorPointAlias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d, err := ParseDay(aux.Date)
	if err != nil {
		return err
	}
	p.Date = d
	return nil
}
