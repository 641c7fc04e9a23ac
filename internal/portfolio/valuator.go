// Package portfolio marks threshold ledgers to market.
package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"AHRSentinel/internal/model"
)

// Valuate computes the summary of one ledger at currentPrice.
// A ledger with nothing spent has a zero return ratio.
func Valuate(ledger model.ThresholdLedger, currentPrice decimal.Decimal) model.ValuationSummary {
	spent := ledger.CumulativeSpent()
	qty := ledger.CumulativeQuantity()
	market := qty.Mul(currentPrice)
	profit := market.Sub(spent)

	ratio := decimal.Zero
	if spent.IsPositive() {
		ratio = profit.Div(spent)
	}

	purchases := make([]model.Purchase, len(ledger.Purchases))
	copy(purchases, ledger.Purchases)

	return model.ValuationSummary{
		Threshold:          ledger.Threshold,
		PurchaseCount:      len(ledger.Purchases),
		CumulativeSpent:    spent,
		CumulativeQuantity: qty,
		MarketValue:        market,
		Profit:             profit,
		ReturnRatio:        ratio,
		Purchases:          purchases,
	}
}

// ValuateAll values every ledger and orders the result by descending threshold.
func ValuateAll(ledgers []model.ThresholdLedger, currentPrice decimal.Decimal) []model.ValuationSummary {
	out := make([]model.ValuationSummary, 0, len(ledgers))
	for _, l := range ledgers {
		out = append(out, Valuate(l, currentPrice))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Threshold > out[j].Threshold })
	return out
}
