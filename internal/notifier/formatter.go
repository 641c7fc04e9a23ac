package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"AHRSentinel/internal/model"
	"AHRSentinel/internal/report"
)

func formatIndicator(o model.Optional) string {
	v, ok := o.Get()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", v)
}

func formatPct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// FormatDailyReport formats the headline of a report into a Telegram message.
func FormatDailyReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>AHR999 日报</b> | %s\n\n", r.AsOf.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("BTC 价格: $%s\n", report.FormatMoney(r.CurrentPrice)))
	b.WriteString(fmt.Sprintf("AHR999: %s (%s)\n", formatIndicator(r.CurrentIndicator), r.CurrentZone.Label))
	if r.Range.High > 0 {
		b.WriteString(fmt.Sprintf("365日区间: $%.0f ~ $%.0f (位置 %.0f%%)\n", r.Range.Low, r.Range.High, r.Range.Position*100))
	}
	b.WriteString("\n")
	b.WriteString(FormatSummaries(r))
	return b.String()
}

// FormatSummaries lists every threshold's simulated position.
func FormatSummaries(r *model.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💰 <b>阈值定投</b> (自 %s)\n", r.StrategyStart.Format(model.DateLayout)))
	for _, s := range r.Summaries {
		b.WriteString(fmt.Sprintf("  ≤%v: %d次 投入$%s 市值$%s ROI %s\n",
			s.Threshold, s.PurchaseCount, report.FormatMoney(s.CumulativeSpent),
			report.FormatMoney(s.MarketValue), formatPct(s.ReturnRatio)))
	}
	return b.String()
}

// FormatBuySignal announces the thresholds the latest day triggered, or "" if none.
func FormatBuySignal(r *model.Report) string {
	var hit []string
	for _, s := range r.Summaries {
		n := len(s.Purchases)
		if n > 0 && s.Purchases[n-1].Date.Equal(r.AsOf) {
			hit = append(hit, fmt.Sprintf("≤%v", s.Threshold))
		}
	}
	if len(hit) == 0 {
		return ""
	}
	return fmt.Sprintf("🟢 <b>买入信号</b> | AHR999=%s\n触发阈值: %s\n",
		formatIndicator(r.CurrentIndicator), strings.Join(hit, ", "))
}
