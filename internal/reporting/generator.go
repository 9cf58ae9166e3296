package reporting

import (
	"time"

	"wax-dex-monitor/internal/consolidator"
	"wax-dex-monitor/internal/domain"
)

// Generator produces reports from a consolidated market map.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report from the market map.
func (g *Generator) Generate(market domain.MarketMap) *Report {
	report := &Report{
		GeneratedAt: g.now(),
		Pairs:       make(map[string]map[string]PairSourceEntry),
	}

	for _, pairID := range market.Pairs() {
		bySource := make(map[string]PairSourceEntry)
		for _, source := range market.Sources(pairID) {
			rec := market[pairID][source]
			bySource[source] = PairSourceEntry{
				Price:      rec.Price,
				Active:     rec.Active,
				LastUpdate: rec.LastUpdate,
				Reserve0:   rec.Reserve0,
				Reserve1:   rec.Reserve1,
			}
			report.RecordCount++
		}
		report.Pairs[pairID] = bySource
		report.PairCount++

		if best, ok := consolidator.BestPrice(market, pairID); ok {
			report.BestPrices = append(report.BestPrices, BestPriceRow{
				PairID:      pairID,
				Source:      best.Source,
				Price:       best.Price,
				SourceCount: len(bySource),
				LastUpdate:  best.LastUpdate,
			})
		}
	}

	return report
}
