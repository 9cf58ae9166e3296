// Package main provides the WAX DEX price monitor entry point.
// Executes: pool snapshots → transfer history → memo parsing → consolidation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wax-dex-monitor/internal/config"
	"wax-dex-monitor/internal/fetcher"
	"wax-dex-monitor/internal/hyperion"
	"wax-dex-monitor/internal/memoparse"
	"wax-dex-monitor/internal/observability"
	"wax-dex-monitor/internal/pipeline"
	"wax-dex-monitor/internal/pools"
	"wax-dex-monitor/internal/storage"
	chstore "wax-dex-monitor/internal/storage/clickhouse"
	"wax-dex-monitor/internal/storage/memory"
	"wax-dex-monitor/internal/storage/migrations"
	"wax-dex-monitor/internal/storage/postgres"
	"wax-dex-monitor/internal/stream"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	once := flag.Bool("once", false, "Run a single collection cycle and exit")
	interval := flag.Duration("interval", 0, "Collection interval (overrides config)")
	outputDir := flag.String("output-dir", "", "Directory for report output (empty disables reports)")
	sources := flag.String("sources", "", "Comma-separated DEX contract accounts (overrides config)")
	poolsDir := flag.String("pools-dir", "", "Directory of pool snapshot files (overrides config)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := log.New(os.Stdout, "[monitor] ", log.LstdFlags)

	cfg, err := loadConfig(*configPath, *sources, *poolsDir, *interval)
	if err != nil {
		logger.Fatalf("Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	marketStore, historyStore, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	client := hyperion.NewClient(cfg.Hyperion.Endpoint,
		hyperion.WithTimeout(cfg.Hyperion.Timeout),
		hyperion.WithMaxRetries(cfg.Hyperion.MaxRetries),
		hyperion.WithRetryDelay(cfg.Hyperion.RetryDelay),
	)

	f := fetcher.New(client, cfg.Sources, cfg.Fetch.Window,
		fetcher.WithLimit(cfg.Fetch.Limit))
	normalizer := pools.NewNormalizer(cfg.Pools.MinReserve)

	runner := pipeline.NewRunner(f, normalizer, cfg.Pools.Dir).
		WithMarketStore(marketStore).
		WithHistoryStore(historyStore)
	if *outputDir != "" {
		runner = runner.WithOutputDir(*outputDir)
	}

	if *once {
		if err := runCycle(ctx, runner, logger, *verbose); err != nil {
			logger.Fatalf("Run failed: %v", err)
		}
		return
	}

	// Continuous mode: metrics endpoint, optional live stream, timed cycles.
	go serveMetrics(cfg, logger)

	if cfg.Stream.URL != "" {
		go watchStream(ctx, cfg, logger)
	}

	logger.Printf("Monitoring %d sources every %v", len(cfg.Sources), cfg.Monitor.Interval)

	ticker := time.NewTicker(cfg.Monitor.Interval)
	defer ticker.Stop()

	if err := runCycle(ctx, runner, logger, *verbose); err != nil {
		logger.Printf("Run failed: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			logger.Println("Shutdown complete")
			return
		case <-ticker.C:
			if err := runCycle(ctx, runner, logger, *verbose); err != nil {
				logger.Printf("Run failed: %v", err)
			}
		}
	}
}

// loadConfig reads the config file and applies flag overrides. A missing
// file at the default path falls back to built-in defaults so the monitor
// can run from flags alone.
func loadConfig(path, sources, poolsDir string, interval time.Duration) (*config.Config, error) {
	var cfg *config.Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = config.Default()
	} else {
		cfg, err = config.LoadWithDefaults(path)
		if err != nil {
			return nil, err
		}
	}

	if sources != "" {
		cfg.Sources = splitList(sources)
	}
	if poolsDir != "" {
		cfg.Pools.Dir = poolsDir
	}
	if interval > 0 {
		cfg.Monitor.Interval = interval
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// createStores builds the market and history stores from the configured
// DSNs, falling back to in-memory implementations when a DSN is absent.
func createStores(ctx context.Context, cfg *config.Config) (storage.MarketStore, storage.PriceHistoryStore, func(), error) {
	var (
		market   storage.MarketStore
		history  storage.PriceHistoryStore
		cleanups []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.Database.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		cleanups = append(cleanups, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		market = postgres.NewMarketStore(pool)
	} else {
		market = memory.NewMarketStore()
	}

	if cfg.Database.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.Database.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		cleanups = append(cleanups, func() { conn.Close() })
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		history = chstore.NewPriceHistoryStore(conn)
	} else {
		history = memory.NewPriceHistoryStore()
	}

	return market, history, cleanup, nil
}

func runCycle(ctx context.Context, runner *pipeline.Runner, logger *log.Logger, verbose bool) error {
	result, market, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	logger.Printf("Cycle complete: %d pairs, %d records (%d pool, %d swap quotes) in %v",
		result.Pairs, result.Records, result.PoolsLoaded, result.SwapsParsed, result.Duration)
	if result.SourceFailures > 0 {
		logger.Printf("Warning: %d source(s) failed this cycle", result.SourceFailures)
	}

	if verbose {
		for _, pairID := range market.Pairs() {
			for _, source := range market.Sources(pairID) {
				rec := market[pairID][source]
				logger.Printf("  %s @ %s: %.8f (active=%t)", pairID, source, rec.Price, rec.Active)
			}
		}
	}
	return nil
}

// serveMetrics exposes Prometheus metrics until the process exits.
func serveMetrics(cfg *config.Config, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, observability.Handler())

	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	logger.Printf("Serving metrics on %s%s", addr, cfg.Metrics.Path)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("Metrics server error: %v", err)
	}
}

// watchStream consumes live transfer actions and logs parsed swaps. The
// periodic pipeline remains the source of truth; the stream is a live tape.
func watchStream(ctx context.Context, cfg *config.Config, logger *log.Logger) {
	streamCfg := stream.DefaultConfig()
	streamCfg.ReconnectDelay = cfg.Stream.ReconnectBaseDelay
	streamCfg.MaxReconnectDelay = cfg.Stream.ReconnectMaxDelay
	streamCfg.ReadTimeout = cfg.Stream.ReadTimeout

	client, err := stream.NewClient(ctx, cfg.Stream.URL, cfg.Sources, &streamCfg)
	if err != nil {
		logger.Printf("Stream unavailable: %v", err)
		return
	}
	defer client.Close()

	parser := memoparse.NewParser()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-client.Events():
			if !ok {
				return
			}
			observability.DefaultMetrics.StreamMessages.Inc()
			if fact, ok := parser.ParseEvent(&event); ok {
				logger.Printf("live: %s @ %s price=%.8f tx=%s",
					fact.PairID, fact.Source, fact.Price, fact.TxID)
			}
		}
	}
}
