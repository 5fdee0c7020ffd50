package demo

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"portfoliotracker/internal/quote"
)

// basePrices holds plausible recent price levels for common tickers so
// synthetic quotes stay in a believable range.
var basePrices = map[string]float64{
	"AAPL":  175,
	"MSFT":  340,
	"GOOGL": 130,
	"AMZN":  145,
	"TSLA":  250,
	"NVDA":  450,
	"META":  325,
	"SPY":   445,
	"QQQ":   370,
	"DIA":   340,
	"IWM":   200,
	"VTI":   240,
	"VOO":   420,
}

// Generate produces a synthetic quote for symbol. The daily move is drawn
// uniformly from ±3% around the base price; unknown symbols get a random
// base in [100, 300). Monetary fields are rounded to cents and the quote
// always satisfies price = previousClose + change.
func Generate(symbol string) quote.Quote {
	sym := strings.ToUpper(symbol)
	base, ok := basePrices[sym]
	if !ok {
		base = round2(100 + rand.Float64()*200)
	}

	changePercent := (rand.Float64() - 0.5) * 6
	// Round the move first so price, change and previousClose stay
	// consistent after their own 2-decimal rounding.
	change := round2(base * changePercent / 100)
	price := round2(base + change)

	return quote.Quote{
		Symbol:        sym,
		Price:         price,
		Change:        change,
		ChangePercent: round2(changePercent),
		Volume:        int64(rand.Float64()*10_000_000) + 1_000_000,
		High:          round2(price + rand.Float64()*5),
		Low:           round2(price - rand.Float64()*5),
		Open:          round2(price + (rand.Float64()-0.5)*2),
		PreviousClose: round2(price - change),
		LastUpdated:   time.Now().Format("2006-01-02"),
		IsDemo:        true,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
