package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"casa-italia/internal/config"
	"casa-italia/internal/db"
	"casa-italia/internal/observability"
	"casa-italia/internal/scraper"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DatabasePath, "Path to SQLite database")
	delay := flag.Duration("delay", cfg.RequestDelay, "Delay between requests")
	strategy := flag.String("strategy", cfg.Strategy, "Parse strategy: dom or regex")
	useBrowser := flag.Bool("browser", false, "Fetch pages through headless Chrome")
	headless := flag.Bool("headless", true, "Run browser in headless mode (set false to see browser)")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	urls := flag.Args()
	if len(urls) == 0 {
		logger.Error("no listing URLs given; pass them as arguments")
		os.Exit(1)
	}

	database, err := db.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	observability.Start(cfg.MetricsPort)

	opts := scraper.DefaultFetchOptions()
	opts.UserAgent = cfg.UserAgent
	opts.Timeout = cfg.FetchTimeout

	profile := config.DefaultSiteProfile()

	var fetcher scraper.Fetcher
	if *useBrowser {
		bf := scraper.NewBrowserFetcher(*headless, opts, profile)
		if err := bf.Start(); err != nil {
			logger.Error("failed to start browser", "error", err)
			os.Exit(1)
		}
		defer bf.Stop()
		fetcher = bf
	} else {
		fetcher = scraper.NewHTTPFetcher(opts)
	}

	svc := scraper.NewService(fetcher, profile, *strategy, logger)
	runner := scraper.NewRunner(svc, database, scraper.RunConfig{
		URLs:         urls,
		DelayBetween: *delay,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	if err := runner.Run(ctx); err != nil {
		logger.Error("scrape run aborted", "error", err)
		os.Exit(1)
	}
}
