package portfolio

import (
	"math"
	"sort"
	"strings"

	"portfoliotracker/internal/backend"
	"portfoliotracker/internal/quote"
)

// Holding pairs an investment with the latest quote for its symbol.
// Quote may be the zero value when no quote was resolved.
type Holding struct {
	backend.Investment
	Quote quote.Quote
}

// Summary aggregates current value and gain/loss across holdings.
type Summary struct {
	TotalValue      float64 `json:"total_value"`
	TotalInvested   float64 `json:"total_invested"`
	TotalGainLoss   float64 `json:"total_gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
}

// Allocation is the share of portfolio value held in one asset class.
type Allocation struct {
	AssetType backend.AssetType `json:"asset_type"`
	Value     float64           `json:"value"`
	Percent   float64           `json:"percent"`
}

// Enrich matches quotes to investments by symbol. A live (non-demo) quote
// price supersedes the backend's stored current price for valuation;
// demo quotes are attached for display but do not reprice the holding.
func Enrich(investments []backend.Investment, quotes []quote.Quote) []Holding {
	bySymbol := make(map[string]quote.Quote, len(quotes))
	for _, q := range quotes {
		bySymbol[strings.ToUpper(q.Symbol)] = q
	}

	holdings := make([]Holding, 0, len(investments))
	for _, inv := range investments {
		h := Holding{Investment: inv}
		if q, ok := bySymbol[strings.ToUpper(inv.Symbol)]; ok {
			h.Quote = q
			if !q.IsDemo && q.Price > 0 {
				h.CurrentPrice = q.Price
			}
		}
		holdings = append(holdings, h)
	}
	return holdings
}

// Summarize totals value and cost basis over holdings.
func Summarize(holdings []Holding) Summary {
	var s Summary
	for _, h := range holdings {
		s.TotalValue += h.Quantity * h.CurrentPrice
		s.TotalInvested += h.Quantity * h.AveragePurchasePrice
	}
	s.TotalGainLoss = s.TotalValue - s.TotalInvested
	if s.TotalInvested > 0 {
		s.GainLossPercent = round2(s.TotalGainLoss / s.TotalInvested * 100)
	}
	s.TotalValue = round2(s.TotalValue)
	s.TotalInvested = round2(s.TotalInvested)
	s.TotalGainLoss = round2(s.TotalGainLoss)
	return s
}

// Allocate buckets holdings by asset type, largest bucket first.
// Percentages are of total portfolio value and sum to ~100 for non-empty
// holdings.
func Allocate(holdings []Holding) []Allocation {
	byType := make(map[backend.AssetType]float64)
	var total float64
	for _, h := range holdings {
		v := h.Quantity * h.CurrentPrice
		byType[h.AssetType] += v
		total += v
	}

	out := make([]Allocation, 0, len(byType))
	for t, v := range byType {
		a := Allocation{AssetType: t, Value: round2(v)}
		if total > 0 {
			a.Percent = round2(v / total * 100)
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].AssetType < out[j].AssetType
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
