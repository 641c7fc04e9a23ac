package strategy

import "AHRSentinel/internal/model"

// Zones maps indicator ceilings to valuation bands, cheapest first.
var Zones = []model.Zone{
	{Label: "Excellent Buy Zone", Color: "#00ff00", Max: 0.45},
	{Label: "Good Buy Zone", Color: "#7cfc00", Max: 0.7},
	{Label: "Moderate Buy", Color: "#ffd700", Max: 1.0},
	{Label: "Hold", Color: "#ffa500", Max: 1.5},
}

// OvervaluedZone applies above the last ceiling.
var OvervaluedZone = model.Zone{Label: "Overvalued", Color: "#ff4500"}

// UnknownZone applies when there is no indicator value yet.
var UnknownZone = model.Zone{Label: "N/A", Color: "#666"}

// ClassifyZone maps an indicator value to its valuation band.
func ClassifyZone(v model.Optional) model.Zone {
	value, ok := v.Get()
	if !ok {
		return UnknownZone
	}
	return mapZone(value)
}

func mapZone(value float64) model.Zone {
	for _, z := range Zones {
		if value <= z.Max {
			return z
		}
	}
	return OvervaluedZone
}
