package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"casa-italia/internal/config"
	"casa-italia/internal/models"
	"casa-italia/internal/observability"
)

// Strategy selects how a downloaded page is parsed.
const (
	StrategyDOM   = "dom"
	StrategyRegex = "regex"
)

// globalsFetcher is implemented by fetchers that can read the structured
// listing globals off the rendered page in addition to the HTML.
type globalsFetcher interface {
	DownloadWithGlobals(ctx context.Context, url string) (string, map[string]any, error)
}

// Service turns a listing URL into a ScrapeResult. A scrape attempt always
// produces an envelope; the error return carries the classified failure for
// callers that branch on it.
type Service struct {
	fetcher   Fetcher
	extractor *Extractor
	profile   config.SiteProfile
	strategy  string
	logger    *slog.Logger
}

// NewService creates a scrape service. Unknown strategy values fall back to
// the DOM parser.
func NewService(fetcher Fetcher, profile config.SiteProfile, strategy string, logger *slog.Logger) *Service {
	if strategy != StrategyRegex {
		strategy = StrategyDOM
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:   fetcher,
		extractor: NewExtractor(profile),
		profile:   profile,
		strategy:  strategy,
		logger:    logger,
	}
}

// ScrapeProperty validates, downloads and extracts one listing. The domain
// check runs before any network I/O. A panic anywhere in the pipeline is
// recovered into a failure envelope so one malformed page cannot take down a
// batch run.
func (s *Service) ScrapeProperty(ctx context.Context, pageURL string) (result *models.ScrapeResult, err error) {
	result = &models.ScrapeResult{
		URL:       pageURL,
		ScrapedAt: time.Now().UTC(),
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scrape panicked", "url", pageURL, "panic", r)
			observability.ScrapeFailures.Inc()
			result.Success = false
			result.Property = nil
			result.Error = fmt.Sprintf("extraction panicked: %v", r)
			err = nil
		}
	}()

	if !s.allowedDomain(pageURL) {
		derr := &DomainMismatchError{URL: pageURL}
		result.Error = derr.Error()
		observability.ScrapeFailures.Inc()
		return result, derr
	}

	html, globals, ferr := s.download(ctx, pageURL)
	if ferr != nil {
		s.logger.Warn("download failed", "url", pageURL, "error", ferr)
		observability.ScrapeFailures.Inc()
		result.Error = ferr.Error()
		return result, ferr
	}
	result.HTMLSize = len(html)

	doc := s.buildDocument(html, globals)
	result.Property = s.extractor.ExtractProperty(doc, pageURL)
	result.Success = true
	observability.PropertiesScraped.Inc()

	s.logger.Info("scraped listing",
		"url", pageURL,
		"htmlSize", result.HTMLSize,
		"title", result.Property.Title,
		"price", result.Property.Price,
	)
	return result, nil
}

func (s *Service) download(ctx context.Context, pageURL string) (string, map[string]any, error) {
	if gf, ok := s.fetcher.(globalsFetcher); ok {
		return gf.DownloadWithGlobals(ctx, pageURL)
	}
	html, err := s.fetcher.Download(ctx, pageURL)
	return html, nil, err
}

func (s *Service) buildDocument(html string, globals map[string]any) Document {
	if s.strategy == StrategyRegex {
		return NewTextDocument(html)
	}
	return NewDOMDocumentWithGlobals(html, globals)
}

func (s *Service) allowedDomain(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	host = strings.TrimPrefix(host, "www.")
	for _, d := range s.profile.AllowedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Store persists extracted records. Satisfied by db.DB.
type Store interface {
	UpsertProperty(p *models.Property) error
}

// RunConfig controls a batch run.
type RunConfig struct {
	URLs         []string
	DelayBetween time.Duration
}

// Runner walks a list of listing URLs, scraping and persisting each with a
// delay between requests.
type Runner struct {
	svc    *Service
	store  Store
	cfg    RunConfig
	logger *slog.Logger
}

// NewRunner creates a batch runner.
func NewRunner(svc *Service, store Store, cfg RunConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{svc: svc, store: store, cfg: cfg, logger: logger}
}

// Run scrapes every configured URL. Individual failures are logged and
// skipped; the run only aborts when the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	saved := 0

	for i, pageURL := range r.cfg.URLs {
		result, err := r.svc.ScrapeProperty(ctx, pageURL)
		if err != nil || !result.Success {
			r.logger.Warn("skipping listing", "url", pageURL, "error", result.Error)
		} else if r.store != nil {
			if err := r.store.UpsertProperty(result.Property); err != nil {
				r.logger.Error("failed to save listing", "url", pageURL, "error", err)
			} else {
				saved++
			}
		}

		if i == len(r.cfg.URLs)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.DelayBetween):
		}
	}

	r.logger.Info("batch run complete",
		"urls", len(r.cfg.URLs),
		"saved", saved,
		"duration", time.Since(start).String(),
	)
	return nil
}
