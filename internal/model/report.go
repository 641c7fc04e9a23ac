package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationSummary is the mark-to-market state of one threshold ledger.
type ValuationSummary struct {
	Threshold          float64         `json:"threshold"`
	PurchaseCount      int             `json:"purchase_count"`
	CumulativeSpent    decimal.Decimal `json:"total_invested"`
	CumulativeQuantity decimal.Decimal `json:"total_btc"`
	MarketValue        decimal.Decimal `json:"current_value"`
	Profit             decimal.Decimal `json:"profit"`
	ReturnRatio        decimal.Decimal `json:"return_ratio"`
	Purchases          []Purchase      `json:"purchases"`
}

// Zone is a valuation band of the indicator.
type Zone struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	Max   float64 `json:"max"`
}

// PriceRange is the high/low of the report's history window.
type PriceRange struct {
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Position float64 `json:"position"` // 0.0 ~ 1.0
}

// Report is the single artifact handed to renderers and persisted each run.
type Report struct {
	AsOf             time.Time          `json:"last_updated"`
	CurrentPrice     decimal.Decimal    `json:"current_price"`
	CurrentIndicator Optional           `json:"current_ahr999"`
	CurrentZone      Zone               `json:"current_zone"`
	StrategyStart    time.Time          `json:"investment_start_date"`
	Summaries        []ValuationSummary `json:"summary"`
	History          []IndicatorPoint   `json:"ahr999_history"`
	Range            PriceRange         `json:"price_range"`
}
