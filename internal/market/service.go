package market

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfoliotracker/internal/quote"
	"portfoliotracker/internal/quote/cache"
	"portfoliotracker/internal/quote/demo"
	"portfoliotracker/internal/quote/ratelimit"
)

// DefaultBatchDelay is the pause between symbols in GetMultipleQuotes so a
// batch does not burn through the shared rate-limit gate at once.
const DefaultBatchDelay = 3 * time.Second

// Provider is the quote source the service orchestrates. Satisfied by
// *alphavantage.Client.
type Provider interface {
	GlobalQuote(ctx context.Context, symbol string) (quote.Quote, error)
	TimeSeries(ctx context.Context, symbol string, interval quote.Interval) ([]quote.TimeSeriesPoint, error)
	MarketStatus(ctx context.Context) ([]quote.MarketStatus, error)
	SymbolSearch(ctx context.Context, keywords string) ([]quote.SymbolMatch, error)
}

// Service resolves quotes through cache → rate-limit gate → provider,
// degrading to synthetic data whenever the live path is unavailable.
// One instance is shared by all consumers; construct it at the
// application root and pass it down.
type Service struct {
	provider Provider
	cache    *cache.Cache
	limiter  ratelimit.Limiter

	batchDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option is a configuration option for the service.
type Option func(*Service)

// WithBatchDelay overrides the pause between symbols in GetMultipleQuotes.
func WithBatchDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.batchDelay = d
		}
	}
}

func NewService(p Provider, c *cache.Cache, l ratelimit.Limiter, options ...Option) *Service {
	s := &Service{
		provider:   p,
		cache:      c,
		limiter:    l,
		batchDelay: DefaultBatchDelay,
		sleep:      sleepCtx,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// GetQuote resolves a quote for symbol. It never fails: transport errors,
// provider rate limits, unknown symbols and empty payloads all degrade to
// a freshly generated demo quote, which is cached like a real one.
func (s *Service) GetQuote(ctx context.Context, symbol string) quote.Quote {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	if q, ok := s.cache.Get(sym); ok {
		zap.L().Debug("quote served from cache", zap.String("symbol", sym), zap.Bool("demo", q.IsDemo))
		return q
	}

	if !s.limiter.Allow() {
		zap.L().Warn("call interval not elapsed, serving demo quote", zap.String("symbol", sym))
		return s.fallback(sym)
	}

	q, err := s.provider.GlobalQuote(ctx, sym)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrInvalidSymbol):
			zap.L().Warn("symbol unknown to provider, serving demo quote", zap.String("symbol", sym))
		case errors.Is(err, quote.ErrRateLimited):
			zap.L().Warn("provider rate limit reached, serving demo quote", zap.String("symbol", sym))
		case errors.Is(err, quote.ErrNoQuote):
			zap.L().Warn("provider returned no data, serving demo quote", zap.String("symbol", sym))
		default:
			zap.L().Warn("quote fetch failed, serving demo quote",
				zap.String("symbol", sym),
				zap.Error(err))
		}
		return s.fallback(sym)
	}

	q.IsDemo = false
	s.cache.Put(sym, q)
	zap.L().Info("quote fetched",
		zap.String("symbol", sym),
		zap.Float64("price", q.Price),
		zap.String("trading_day", q.LastUpdated))
	return q
}

// GetMultipleQuotes resolves symbols one at a time with a fixed delay
// between calls, sharing the cache and gate with every other consumer.
// Intentionally serialized; a cancelled context returns what has been
// collected so far.
func (s *Service) GetMultipleQuotes(ctx context.Context, symbols []string) []quote.Quote {
	quotes := make([]quote.Quote, 0, len(symbols))
	for i, sym := range symbols {
		if i > 0 {
			if err := s.sleep(ctx, s.batchDelay); err != nil {
				return quotes
			}
		}
		quotes = append(quotes, s.GetQuote(ctx, sym))
	}
	return quotes
}

// GetTimeSeries fetches historical bars. Unlike GetQuote it has no demo
// fallback: invalid symbols and provider limits surface as errors.
func (s *Service) GetTimeSeries(ctx context.Context, symbol string, interval quote.Interval) ([]quote.TimeSeriesPoint, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	points, err := s.provider.TimeSeries(ctx, sym, interval)
	if err != nil {
		zap.L().Warn("time series fetch failed",
			zap.String("symbol", sym),
			zap.String("interval", string(interval)),
			zap.Error(err))
		return nil, err
	}
	return points, nil
}

// GetMarketStatus reports market open/closed states, or an empty list
// when the provider cannot be reached.
func (s *Service) GetMarketStatus(ctx context.Context) []quote.MarketStatus {
	statuses, err := s.provider.MarketStatus(ctx)
	if err != nil {
		zap.L().Warn("market status fetch failed", zap.Error(err))
		return []quote.MarketStatus{}
	}
	return statuses
}

// SearchSymbols looks up tickers by keywords, or an empty list when the
// provider cannot be reached.
func (s *Service) SearchSymbols(ctx context.Context, keywords string) []quote.SymbolMatch {
	matches, err := s.provider.SymbolSearch(ctx, keywords)
	if err != nil {
		zap.L().Warn("symbol search failed", zap.String("keywords", keywords), zap.Error(err))
		return []quote.SymbolMatch{}
	}
	return matches
}

func (s *Service) fallback(sym string) quote.Quote {
	q := demo.Generate(sym)
	s.cache.Put(sym, q)
	return q
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
