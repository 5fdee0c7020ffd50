package quote

import "errors"

// Quote is the normalized quote shape served to all consumers.
// IsDemo marks quotes synthesized locally instead of fetched from the
// provider; consumers must treat a missing value as false.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previousClose"`
	// LastUpdated is the provider's latest trading day, or the generation
	// date for demo quotes, formatted YYYY-MM-DD.
	LastUpdated string `json:"lastUpdated"`
	IsDemo      bool   `json:"isDemo"`
}

// TimeSeriesPoint is one OHLCV bar of a historical series.
type TimeSeriesPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Interval selects the resolution of a historical series.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// MarketStatus describes the open/closed state of one market region.
type MarketStatus struct {
	MarketType       string `json:"market_type"`
	Region           string `json:"region"`
	PrimaryExchanges string `json:"primary_exchanges"`
	LocalOpen        string `json:"local_open"`
	LocalClose       string `json:"local_close"`
	CurrentStatus    string `json:"current_status"`
	Notes            string `json:"notes"`
}

// SymbolMatch is one result of a symbol search.
type SymbolMatch struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Region     string `json:"region"`
	Currency   string `json:"currency"`
	MatchScore string `json:"matchScore"`
}

// Sentinel errors reported by the provider client. The quote service maps
// all of them to the demo fallback; time-series callers see them directly.
var (
	// ErrInvalidSymbol means the provider does not know the ticker.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrRateLimited means the provider refused the call due to its own
	// request quota, distinct from the local rate-limit gate.
	ErrRateLimited = errors.New("provider rate limited")
	// ErrNoQuote means the payload carried no quote data at all.
	ErrNoQuote = errors.New("empty quote payload")
)
