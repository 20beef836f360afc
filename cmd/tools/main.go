package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"casa-italia/internal/config"
	"casa-italia/internal/db"
	"casa-italia/internal/models"
	"casa-italia/internal/scraper"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	cmd := os.Args[1]
	os.Args = os.Args[1:]

	switch cmd {
	case "extract":
		extractOne(logger)
	case "parse":
		parseFile(logger)
	case "seed":
		seedSampleData(logger)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: tools <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  extract  Scrape a single listing URL and print the result as JSON")
	fmt.Println("  parse    Extract a record from a local HTML file, no network")
	fmt.Println("  seed     Seed database with sample data")
}

func extractOne(logger *slog.Logger) {
	pageURL := flag.String("url", "", "Listing URL to scrape")
	strategy := flag.String("strategy", scraper.StrategyDOM, "Parse strategy: dom or regex")
	flag.Parse()

	if *pageURL == "" {
		logger.Error("missing -url")
		os.Exit(1)
	}

	cfg := config.Load()

	opts := scraper.DefaultFetchOptions()
	opts.UserAgent = cfg.UserAgent
	opts.Timeout = cfg.FetchTimeout

	svc := scraper.NewService(scraper.NewHTTPFetcher(opts), config.DefaultSiteProfile(), *strategy, logger)

	result, err := svc.ScrapeProperty(context.Background(), *pageURL)
	if err != nil {
		logger.Error("scrape failed", "error", err)
	}
	printJSON(result)
}

func parseFile(logger *slog.Logger) {
	path := flag.String("file", "", "Local HTML file to parse")
	pageURL := flag.String("url", "file://local", "URL to record in the output")
	strategy := flag.String("strategy", scraper.StrategyRegex, "Parse strategy: dom or regex")
	flag.Parse()

	if *path == "" {
		logger.Error("missing -file")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		logger.Error("failed to read file", "path", *path, "error", err)
		os.Exit(1)
	}

	profile := config.DefaultSiteProfile()
	var doc scraper.Document
	if *strategy == scraper.StrategyRegex {
		doc = scraper.NewTextDocument(string(raw))
	} else {
		doc = scraper.NewDOMDocument(string(raw))
	}

	property := scraper.NewExtractor(profile).ExtractProperty(doc, *pageURL)
	printJSON(property)
}

func seedSampleData(logger *slog.Logger) {
	dbPath := flag.String("db", "data/casa-italia.db", "Path to SQLite database")
	flag.Parse()

	database, err := db.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	lat, lng := 41.9028, 12.4964
	now := time.Now().UTC()
	samples := []models.Property{
		{
			OriginalURL: "https://www.idealista.it/imovel/100001/",
			Title:       "Apartamento T3 no centro de Roma",
			Description: "Apartamento espaçoso com varanda e vista para a cidade.",
			Price:       250000,
			Location:    "Roma",
			Bedrooms:    3,
			Bathrooms:   2,
			Area:        95,
			Features:    []string{"varanda", "elevador", "2 banheiros"},
			Images:      []string{"https://img4.idealista.it/blur/WEB_DETAIL_TOP-XL-L/0/id.pro.it.image.master/sample1.jpg"},
			Latitude:    &lat,
			Longitude:   &lng,
			RealEstate:  "Imobiliária Roma Centro",
			IsAvailable: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			OriginalURL: "https://www.idealista.it/imovel/100002/",
			Title:       "Moradia com jardim em Milão",
			Price:       480000,
			Location:    "Milão",
			Bedrooms:    4,
			Bathrooms:   3,
			Area:        180,
			Features:    []string{"jardim", "garagem"},
			IsAvailable: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	for i := range samples {
		if err := database.UpsertProperty(&samples[i]); err != nil {
			logger.Error("failed to seed property", "url", samples[i].OriginalURL, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("seeded sample data", "count", len(samples))
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
