package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portfoliotracker/internal/alphavantage"
	"portfoliotracker/internal/backend"
	"portfoliotracker/internal/config"
	"portfoliotracker/internal/httpx"
	"portfoliotracker/internal/logging"
	"portfoliotracker/internal/market"
	"portfoliotracker/internal/portfolio"
	"portfoliotracker/internal/quote/cache"
	"portfoliotracker/internal/quote/ratelimit"
)

func main() {
	_ = godotenv.Load()

	var username, password, configPath string
	var noQuotes bool
	flag.StringVar(&username, "username", os.Getenv("PORTFOLIO_USERNAME"), "backend username (omit to reuse stored token)")
	flag.StringVar(&password, "password", os.Getenv("PORTFOLIO_PASSWORD"), "backend password")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.BoolVar(&noQuotes, "no-quotes", false, "skip live quote enrichment")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	httpClient := httpx.New(timeout)
	tokens := backend.NewTokenStore(cfg.Backend.TokenFile)
	api := backend.NewClient(cfg.Backend.URL, httpClient, tokens)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if username != "" {
		if _, err := api.Login(ctx, username, password); err != nil {
			zap.L().Fatal("login failed", zap.Error(err))
		}
	}

	user, err := api.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			zap.L().Fatal("not logged in; pass -username and -password")
		}
		zap.L().Fatal("fetching user failed", zap.Error(err))
	}

	investments, err := api.Investments(ctx)
	if err != nil {
		zap.L().Fatal("fetching investments failed", zap.Error(err))
	}

	holdings := portfolio.Enrich(investments, nil)
	if !noQuotes && len(investments) > 0 {
		avClient, err := alphavantage.NewClient(
			cfg.Provider.APIKey,
			alphavantage.WithBaseURL(cfg.Provider.Endpoint),
			alphavantage.WithHTTPClient(httpClient.HTTP),
		)
		if err != nil {
			zap.L().Fatal("provider client", zap.Error(err))
		}
		svc := market.NewService(
			avClient,
			cache.New(time.Duration(cfg.Provider.QuoteCacheTTLSec)*time.Second),
			ratelimit.NewMinInterval(time.Duration(cfg.Provider.MinCallIntervalSec)*time.Second),
			market.WithBatchDelay(time.Duration(cfg.Provider.BatchDelaySec)*time.Second),
		)

		symbols := make([]string, 0, len(investments))
		seen := make(map[string]struct{}, len(investments))
		for _, inv := range investments {
			if _, ok := seen[inv.Symbol]; ok {
				continue
			}
			seen[inv.Symbol] = struct{}{}
			symbols = append(symbols, inv.Symbol)
		}
		holdings = portfolio.Enrich(investments, svc.GetMultipleQuotes(ctx, symbols))
	}

	fmt.Printf("Portfolio of %s\n\n", user.Username)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tTYPE\tQTY\tPRICE\tVALUE\tGAIN/LOSS\t")
	for _, h := range holdings {
		value := h.Quantity * h.CurrentPrice
		gain := value - h.Quantity*h.AveragePurchasePrice
		mark := ""
		if h.Quote.IsDemo {
			mark = " (demo)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f%s\t%.2f\t%+.2f\t\n",
			h.Symbol, h.Name, h.AssetType, h.Quantity, h.CurrentPrice, mark, value, gain)
	}
	w.Flush()

	summary := portfolio.Summarize(holdings)
	fmt.Printf("\nTotal value:    %12.2f\n", summary.TotalValue)
	fmt.Printf("Total invested: %12.2f\n", summary.TotalInvested)
	fmt.Printf("Gain/loss:      %+12.2f (%+.2f%%)\n", summary.TotalGainLoss, summary.GainLossPercent)

	fmt.Println("\nAllocation:")
	for _, a := range portfolio.Allocate(holdings) {
		fmt.Printf("  %-12s %6.2f%%  (%.2f)\n", a.AssetType, a.Percent, a.Value)
	}
}
