package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfoliotracker/internal/quote"
)

// stubMarket scripts what the handlers see.
type stubMarket struct {
	quote     quote.Quote
	quotes    []quote.Quote
	series    []quote.TimeSeriesPoint
	seriesErr error
	statuses  []quote.MarketStatus
	matches   []quote.SymbolMatch
}

func (s *stubMarket) GetQuote(ctx context.Context, symbol string) quote.Quote {
	return s.quote
}

func (s *stubMarket) GetMultipleQuotes(ctx context.Context, symbols []string) []quote.Quote {
	return s.quotes
}

func (s *stubMarket) GetTimeSeries(ctx context.Context, symbol string, interval quote.Interval) ([]quote.TimeSeriesPoint, error) {
	return s.series, s.seriesErr
}

func (s *stubMarket) GetMarketStatus(ctx context.Context) []quote.MarketStatus {
	return s.statuses
}

func (s *stubMarket) SearchSymbols(ctx context.Context, keywords string) []quote.SymbolMatch {
	return s.matches
}

func TestHandleQuote(t *testing.T) {
	svc := &stubMarket{quote: quote.Quote{Symbol: "AAPL", Price: 150.25}}

	req := httptest.NewRequest(http.MethodGet, "/api/quote?symbol=AAPL", nil)
	rec := httptest.NewRecorder()
	handleQuote(rec, req, svc)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got quote.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.Symbol != "AAPL" || got.Price != 150.25 {
		t.Fatalf("unexpected quote: %+v", got)
	}
}

func TestHandleQuote_MissingSymbol(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/quote", nil)
	rec := httptest.NewRecorder()
	handleQuote(rec, req, &stubMarket{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleQuote_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/quote?symbol=AAPL", nil)
	rec := httptest.NewRecorder()
	handleQuote(rec, req, &stubMarket{})

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleQuotes(t *testing.T) {
	svc := &stubMarket{quotes: []quote.Quote{{Symbol: "SPY"}, {Symbol: "QQQ"}}}

	req := httptest.NewRequest(http.MethodGet, "/api/quotes?symbols=SPY,QQQ", nil)
	rec := httptest.NewRecorder()
	handleQuotes(rec, req, svc)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got quotesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(got.Quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(got.Quotes))
	}
}

func TestHandleQuotes_TooManySymbols(t *testing.T) {
	symbols := make([]string, maxSymbolsPerRequest+1)
	for i := range symbols {
		symbols[i] = "AAPL"
	}
	req := httptest.NewRequest(http.MethodGet, "/api/quotes?symbols="+strings.Join(symbols, ","), nil)
	rec := httptest.NewRecorder()
	handleQuotes(rec, req, &stubMarket{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleTimeSeries_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid symbol", err: quote.ErrInvalidSymbol, want: http.StatusNotFound},
		{name: "rate limited", err: quote.ErrRateLimited, want: http.StatusTooManyRequests},
		{name: "upstream failure", err: context.DeadlineExceeded, want: http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/timeseries?symbol=AAPL", nil)
			rec := httptest.NewRecorder()
			handleTimeSeries(rec, req, &stubMarket{seriesErr: tc.err})

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestHandleTimeSeries(t *testing.T) {
	svc := &stubMarket{series: []quote.TimeSeriesPoint{{Date: "2024-03-15", Close: 191.20}}}

	req := httptest.NewRequest(http.MethodGet, "/api/timeseries?symbol=IBM&interval=daily", nil)
	rec := httptest.NewRecorder()
	handleTimeSeries(rec, req, svc)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []quote.TimeSeriesPoint
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(got) != 1 || got[0].Date != "2024-03-15" {
		t.Fatalf("unexpected series: %+v", got)
	}
}

func TestHandleSearch_MissingKeywords(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	handleSearch(rec, req, &stubMarket{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleMarketStatus(t *testing.T) {
	svc := &stubMarket{statuses: []quote.MarketStatus{{Region: "United States", CurrentStatus: "open"}}}

	req := httptest.NewRequest(http.MethodGet, "/api/market-status", nil)
	rec := httptest.NewRecorder()
	handleMarketStatus(rec, req, svc)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []quote.MarketStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(got) != 1 || got[0].CurrentStatus != "open" {
		t.Fatalf("unexpected statuses: %+v", got)
	}
}
