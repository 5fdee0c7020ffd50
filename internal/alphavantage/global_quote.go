package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"portfoliotracker/internal/quote"
)

type globalQuoteResponse struct {
	envelope
	GlobalQuote globalQuotePayload `json:"Global Quote"`
}

// globalQuotePayload mirrors the numeric-prefixed field names Alpha
// Vantage uses for GLOBAL_QUOTE. Everything arrives as a string.
type globalQuotePayload struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

// GlobalQuote fetches the latest quote for symbol. Provider sentinel
// conditions surface as quote.ErrInvalidSymbol, quote.ErrRateLimited or
// quote.ErrNoQuote so callers can branch with errors.Is.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (quote.Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	res, err := c.get(ctx, params)
	if err != nil {
		return quote.Quote{}, err
	}
	defer res.Body.Close()

	var body globalQuoteResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return quote.Quote{}, fmt.Errorf("decoding quote response: %w", err)
	}

	if body.ErrorMessage != "" {
		return quote.Quote{}, fmt.Errorf("symbol %q: %w", symbol, quote.ErrInvalidSymbol)
	}
	if body.Note != "" || body.Information != "" {
		return quote.Quote{}, quote.ErrRateLimited
	}
	if body.GlobalQuote == (globalQuotePayload{}) {
		return quote.Quote{}, quote.ErrNoQuote
	}

	return parseGlobalQuote(body.GlobalQuote)
}

func parseGlobalQuote(p globalQuotePayload) (quote.Quote, error) {
	price, err := parseFloat("price", p.Price)
	if err != nil {
		return quote.Quote{}, err
	}
	change, err := parseFloat("change", p.Change)
	if err != nil {
		return quote.Quote{}, err
	}
	changePercent, err := parseFloat("change percent", strings.TrimSuffix(p.ChangePercent, "%"))
	if err != nil {
		return quote.Quote{}, err
	}
	high, err := parseFloat("high", p.High)
	if err != nil {
		return quote.Quote{}, err
	}
	low, err := parseFloat("low", p.Low)
	if err != nil {
		return quote.Quote{}, err
	}
	open, err := parseFloat("open", p.Open)
	if err != nil {
		return quote.Quote{}, err
	}
	previousClose, err := parseFloat("previous close", p.PreviousClose)
	if err != nil {
		return quote.Quote{}, err
	}
	volume, err := strconv.ParseInt(p.Volume, 10, 64)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("parsing volume %q: %w", p.Volume, err)
	}

	return quote.Quote{
		Symbol:        p.Symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        volume,
		High:          high,
		Low:           low,
		Open:          open,
		PreviousClose: previousClose,
		LastUpdated:   p.LatestTradingDay,
		IsDemo:        false,
	}, nil
}

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return v, nil
}
