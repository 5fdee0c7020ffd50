package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"portfoliotracker/internal/quote"
)

type symbolSearchResponse struct {
	envelope
	BestMatches []symbolMatchPayload `json:"bestMatches"`
}

type symbolMatchPayload struct {
	Symbol     string `json:"1. symbol"`
	Name       string `json:"2. name"`
	Type       string `json:"3. type"`
	Region     string `json:"4. region"`
	Currency   string `json:"8. currency"`
	MatchScore string `json:"9. matchScore"`
}

// SymbolSearch looks up tickers matching the given keywords.
func (c *Client) SymbolSearch(ctx context.Context, keywords string) ([]quote.SymbolMatch, error) {
	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", keywords)

	res, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var body symbolSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding symbol search response: %w", err)
	}
	if body.Note != "" || body.Information != "" {
		return nil, quote.ErrRateLimited
	}

	matches := make([]quote.SymbolMatch, 0, len(body.BestMatches))
	for _, m := range body.BestMatches {
		matches = append(matches, quote.SymbolMatch{
			Symbol:     m.Symbol,
			Name:       m.Name,
			Type:       m.Type,
			Region:     m.Region,
			Currency:   m.Currency,
			MatchScore: m.MatchScore,
		})
	}
	return matches, nil
}
