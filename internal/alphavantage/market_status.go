package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"portfoliotracker/internal/quote"
)

type marketStatusResponse struct {
	envelope
	Markets []quote.MarketStatus `json:"markets"`
}

// MarketStatus reports the current open/closed state of the major trading
// venues.
func (c *Client) MarketStatus(ctx context.Context) ([]quote.MarketStatus, error) {
	params := url.Values{}
	params.Set("function", "MARKET_STATUS")

	res, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var body marketStatusResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding market status response: %w", err)
	}
	if body.Note != "" || body.Information != "" {
		return nil, quote.ErrRateLimited
	}
	return body.Markets, nil
}
