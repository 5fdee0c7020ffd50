package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portfoliotracker/internal/alphavantage"
	"portfoliotracker/internal/config"
	"portfoliotracker/internal/httpx"
	"portfoliotracker/internal/logging"
	"portfoliotracker/internal/market"
	"portfoliotracker/internal/poll"
	"portfoliotracker/internal/quote"
	"portfoliotracker/internal/quote/cache"
	"portfoliotracker/internal/quote/ratelimit"
)

// maxSymbolsPerRequest keeps a batch, serialized with the inter-call
// delay, well inside the server write timeout.
const maxSymbolsPerRequest = 10

// marketAPI is the slice of *market.Service the handlers need.
type marketAPI interface {
	GetQuote(ctx context.Context, symbol string) quote.Quote
	GetMultipleQuotes(ctx context.Context, symbols []string) []quote.Quote
	GetTimeSeries(ctx context.Context, symbol string, interval quote.Interval) ([]quote.TimeSeriesPoint, error)
	GetMarketStatus(ctx context.Context) []quote.MarketStatus
	SearchSymbols(ctx context.Context, keywords string) []quote.SymbolMatch
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		zap.S().Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		zap.S().Fatalf("logging: %v", err)
	}
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	if cfg.Provider.APIKey == "" {
		zap.L().Warn("no provider API key configured; all quotes will be demo data")
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	httpClient := httpx.New(timeout)

	avClient, err := alphavantage.NewClient(
		cfg.Provider.APIKey,
		alphavantage.WithBaseURL(cfg.Provider.Endpoint),
		alphavantage.WithHTTPClient(httpClient.HTTP),
	)
	if err != nil {
		zap.L().Fatal("provider client", zap.Error(err))
	}

	// Prefer a token bucket with burst if RPM is set, otherwise gate on
	// the minimum call interval.
	var limiter ratelimit.Limiter
	if cfg.Provider.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.Provider.MaxRequestsPerMinute) / 60.0
		burst := cfg.Provider.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = ratelimit.NewTokenBucket(rate, burst)
	} else {
		limiter = ratelimit.NewMinInterval(time.Duration(cfg.Provider.MinCallIntervalSec) * time.Second)
	}

	quotes := cache.New(time.Duration(cfg.Provider.QuoteCacheTTLSec) * time.Second)
	svc := market.NewService(avClient, quotes, limiter,
		market.WithBatchDelay(time.Duration(cfg.Provider.BatchDelaySec)*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the cache for the market-overview symbols in the background so
	// dashboard loads rarely pay for a live call.
	if len(cfg.Overview.Symbols) > 0 && cfg.Overview.RefreshSec > 0 {
		warmer := poll.Staggered(ctx,
			time.Duration(cfg.Overview.RefreshSec)*time.Second,
			time.Duration(cfg.Overview.StaggerSec)*time.Second,
			cfg.Overview.Symbols,
			func(ctx context.Context, sym string) { svc.GetQuote(ctx, sym) },
		)
		defer warmer.Stop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/quote", func(w http.ResponseWriter, r *http.Request) {
		handleQuote(w, r, svc)
	})
	mux.HandleFunc("/api/quotes", func(w http.ResponseWriter, r *http.Request) {
		handleQuotes(w, r, svc)
	})
	mux.HandleFunc("/api/timeseries", func(w http.ResponseWriter, r *http.Request) {
		handleTimeSeries(w, r, svc)
	})
	mux.HandleFunc("/api/market-status", func(w http.ResponseWriter, r *http.Request) {
		handleMarketStatus(w, r, svc)
	})
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		handleSearch(w, r, svc)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(withGzip(recoverPanic(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zap.L().Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
