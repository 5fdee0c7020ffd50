package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"portfoliotracker/internal/quote"
)

type quotesResponse struct {
	Quotes []quote.Quote `json:"quotes"`
}

func handleQuote(w http.ResponseWriter, r *http.Request, svc marketAPI) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		http.Error(w, "missing symbol query param", http.StatusBadRequest)
		return
	}
	writeJSON(w, svc.GetQuote(r.Context(), symbol))
}

func handleQuotes(w http.ResponseWriter, r *http.Request, svc marketAPI) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	symbols := splitCSV(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		http.Error(w, "missing symbols query param", http.StatusBadRequest)
		return
	}
	if len(symbols) > maxSymbolsPerRequest {
		http.Error(w, "too many symbols", http.StatusBadRequest)
		return
	}
	writeJSON(w, quotesResponse{Quotes: svc.GetMultipleQuotes(r.Context(), symbols)})
}

func handleTimeSeries(w http.ResponseWriter, r *http.Request, svc marketAPI) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		http.Error(w, "missing symbol query param", http.StatusBadRequest)
		return
	}
	interval := quote.Interval(r.URL.Query().Get("interval"))
	if interval == "" {
		interval = quote.IntervalDaily
	}

	points, err := svc.GetTimeSeries(r.Context(), symbol, interval)
	switch {
	case err == nil:
	case errors.Is(err, quote.ErrInvalidSymbol):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, quote.ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
		return
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, points)
}

func handleMarketStatus(w http.ResponseWriter, r *http.Request, svc marketAPI) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, svc.GetMarketStatus(r.Context()))
}

func handleSearch(w http.ResponseWriter, r *http.Request, svc marketAPI) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	keywords := strings.TrimSpace(r.URL.Query().Get("keywords"))
	if keywords == "" {
		http.Error(w, "missing keywords query param", http.StatusBadRequest)
		return
	}
	writeJSON(w, svc.SearchSymbols(r.Context(), keywords))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
