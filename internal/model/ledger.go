package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is one simulated buy. Never modified once appended to a ledger.
type Purchase struct {
	Date        time.Time       `json:"date"`
	Price       decimal.Decimal `json:"price"`
	AmountSpent decimal.Decimal `json:"usd_invested"`
	Quantity    decimal.Decimal `json:"btc_bought"`
	Indicator   float64         `json:"ahr999"`
}

// ThresholdLedger is the purchase log of a single threshold.
type ThresholdLedger struct {
	Threshold float64
	Purchases []Purchase
}

// CumulativeSpent sums AmountSpent over the log.
func (l ThresholdLedger) CumulativeSpent() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Purchases {
		total = total.Add(p.AmountSpent)
	}
	return total
}

// CumulativeQuantity sums Quantity over the log.
func (l ThresholdLedger) CumulativeQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Purchases {
		total = total.Add(p.Quantity)
	}
	return total
}
