package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jirong-gao/stocks/internal/config"
	"github.com/jirong-gao/stocks/internal/coordinator"
	"github.com/jirong-gao/stocks/internal/ratelimit"
	"github.com/jirong-gao/stocks/internal/store"
	"github.com/jirong-gao/stocks/internal/tencent"
	"github.com/jirong-gao/stocks/internal/watchlist"
)

func main() {
	os.Exit(run())
}

// run is main without os.Exit so deferred cleanup actually runs.
// Exit codes: 0 on success (including an empty watchlist), 1 on
// configuration or precondition failure and when saving the output fails.
func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	// The output directory may not exist yet on a fresh machine.
	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("Failed to create output directory %s: %v", dir, err)
			return 1
		}
	}

	// Precondition: the watchlist must exist before any network activity.
	codes, err := watchlist.Load(cfg.WatchlistPath)
	if err != nil {
		log.Printf("Environment check failed: %v", err)
		log.Printf("Create %s with one query code per line (e.g. sh600519) and rerun.", cfg.WatchlistPath)
		return 1
	}
	if len(codes) == 0 {
		log.Printf("Watchlist %s is empty; add query codes to refresh. Nothing to do.", cfg.WatchlistPath)
		return 0
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	limiter := ratelimit.New(cfg.CallInterval)
	client := tencent.NewClient(cfg.QuoteBaseURL, limiter, tencent.Options{
		RetryCount:       cfg.RetryCount,
		Timeout:          cfg.HTTPTimeout,
		CallInterval:     cfg.CallInterval,
		MaxCodesPerQuery: cfg.MaxCodesPerQuery,
	})
	defer client.Close()

	coord := coordinator.New(client, cfg.MaxCodesPerQuery)

	// Add timeout to prevent hanging indefinitely
	fetchCtx, fetchCancel := context.WithTimeout(ctx, 2*time.Minute)
	defer fetchCancel()

	fmt.Println("Fetching quotes from the Tencent quote API...")
	fmt.Println("=============================================")
	rows, err := coord.Run(fetchCtx, codes)
	if err != nil {
		log.Printf("Refresh failed: %v", err)
		return 1
	}

	if err := store.Save(cfg.OutputPath, rows); err != nil {
		log.Printf("Failed to save quotes: %v", err)
		return 1
	}

	fmt.Println("=============================================")
	// Two rows are the header and the timestamp sentinel.
	fmt.Printf("Saved %d quotes to %s; the spreadsheet can refresh now.\n", len(rows)-2, cfg.OutputPath)
	return 0
}
