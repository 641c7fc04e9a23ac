package report

import (
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"AHRSentinel/internal/model"
	"AHRSentinel/internal/strategy"
)

// RecentPurchases is how many purchases each threshold card lists.
const RecentPurchases = 10

var funcs = template.FuncMap{
	"money": FormatMoney,
	"btc":   func(d decimal.Decimal) string { return d.StringFixed(8) },
	"pct":   func(d decimal.Decimal) string { return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%" },
	"opt": func(o model.Optional) string {
		v, ok := o.Get()
		if !ok {
			return "N/A"
		}
		return decimal.NewFromFloat(v).StringFixed(4)
	},
	"ind":  func(v float64) string { return decimal.NewFromFloat(v).StringFixed(4) },
	"day":  func(t time.Time) string { return t.Format(model.DateLayout) },
	"zone": func(t float64) model.Zone { return strategy.ClassifyZone(model.Some(t)) },
	"gain": func(d decimal.Decimal) bool { return d.IsPositive() },
	"recent": func(ps []model.Purchase) []model.Purchase {
		n := len(ps)
		from := n - RecentPurchases
		if from < 0 {
			from = 0
		}
		out := make([]model.Purchase, 0, n-from)
		for i := n - 1; i >= from; i-- {
			out = append(out, ps[i])
		}
		return out
	},
}

var dashboard = template.Must(template.New("dashboard").Funcs(funcs).Parse(dashboardHTML))

// RenderHTML writes the static dashboard for r.
func RenderHTML(w io.Writer, r *model.Report) error {
	return dashboard.Execute(w, r)
}

// FormatMoney renders d with two decimals and thousands separators.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Bitcoin AHR999 Investment Dashboard</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; margin: 0; padding: 20px; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); gap: 16px; }
.card { background: #1e1e2e; border-radius: 10px; padding: 16px; }
table { width: 100%; border-collapse: collapse; font-size: 0.85rem; }
td, th { padding: 4px; text-align: right; }
.up { color: #00ff00; } .down { color: #ff4500; }
</style>
</head>
<body>
<header>
<h1>Bitcoin AHR999 Dashboard</h1>
<p>Last updated {{day .AsOf}} · Strategy start {{day .StrategyStart}}</p>
</header>
<section class="cards">
<div class="card"><h2>BTC Price</h2><div>${{money .CurrentPrice}}</div>
<small>365d range ${{printf "%.0f" .Range.Low}} – ${{printf "%.0f" .Range.High}}</small></div>
<div class="card"><h2>AHR999</h2><div style="color: {{.CurrentZone.Color}}">{{opt .CurrentIndicator}}</div>
<div>{{.CurrentZone.Label}}</div></div>
</section>
<h2>Threshold strategies</h2>
<section class="cards">
{{range .Summaries}}
<div class="card">
<h3 style="color: {{(zone .Threshold).Color}}">AHR999 ≤ {{.Threshold}}</h3>
<p>Purchases: {{.PurchaseCount}} · Invested: ${{money .CumulativeSpent}} · BTC: {{btc .CumulativeQuantity}}</p>
<p>Value: ${{money .MarketValue}} · P/L: <span class="{{if gain .Profit}}up{{else}}down{{end}}">${{money .Profit}}</span>
· ROI: <span class="{{if gain .Profit}}up{{else}}down{{end}}">{{pct .ReturnRatio}}</span></p>
{{with recent .Purchases}}
<table>
<thead><tr><th>Date</th><th>BTC Price</th><th>BTC Bought</th><th>USD Invested</th><th>AHR999</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{day .Date}}</td><td>${{money .Price}}</td><td>{{btc .Quantity}}</td><td>${{money .AmountSpent}}</td><td>{{ind .Indicator}}</td></tr>
{{end}}</tbody>
</table>
{{else}}
<p>No purchases yet at this threshold.</p>
{{end}}
</div>
{{end}}
</section>
<h2>Recent history</h2>
<table>
<thead><tr><th>Date</th><th>Price</th><th>200d MA</th><th>Fair value</th><th>AHR999</th></tr></thead>
<tbody>
{{range .History}}<tr><td>{{day .Date}}</td><td>${{money .Price}}</td><td>{{opt .TrailingAverage}}</td><td>{{opt .FairValue}}</td><td>{{opt .Value}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`
