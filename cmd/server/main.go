package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"casa-italia/internal/api"
	"casa-italia/internal/config"
	"casa-italia/internal/db"
	"casa-italia/internal/observability"
	"casa-italia/internal/scraper"
)

func main() {
	cfg := config.Load()

	port := flag.Int("port", 8080, "Port to listen on")
	dbPath := flag.String("db", cfg.DatabasePath, "Path to SQLite database")
	strategy := flag.String("strategy", cfg.Strategy, "Parse strategy: dom or regex")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

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

	fetcher := scraper.NewHTTPFetcher(opts)
	svc := scraper.NewService(fetcher, config.DefaultSiteProfile(), *strategy, logger)

	router := api.NewRouter(database, svc)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("server listening", "addr", addr, "db", *dbPath)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
