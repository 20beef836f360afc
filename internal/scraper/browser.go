package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"casa-italia/internal/config"
)

// BrowserFetcher downloads listing pages through headless Chrome. The site
// renders some data client-side and fingerprints plain HTTP clients, so the
// browser path both executes the page scripts and reads the listing globals
// straight off window before returning the HTML.
type BrowserFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	headless bool
	opts     FetchOptions
	profile  config.SiteProfile
}

// NewBrowserFetcher creates a browser-backed fetcher. Call Start before the
// first download and Stop when done.
func NewBrowserFetcher(headless bool, opts FetchOptions, profile config.SiteProfile) *BrowserFetcher {
	return &BrowserFetcher{
		headless: headless,
		opts:     opts,
		profile:  profile,
	}
}

// Start launches the browser allocator.
func (f *BrowserFetcher) Start() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		// Anti-detection flags
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-features", "IsolateOrigins,site-per-process"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-plugins-discovery", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("enable-features", "NetworkService,NetworkServiceInProcess"),
		// Window size to look like a real browser
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(f.opts.UserAgent),
	)

	f.allocCtx, f.cancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return nil
}

// Stop closes the browser.
func (f *BrowserFetcher) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Download fetches the fully rendered page HTML.
func (f *BrowserFetcher) Download(ctx context.Context, pageURL string) (string, error) {
	html, _, err := f.DownloadWithGlobals(ctx, pageURL)
	return html, err
}

// DownloadWithGlobals fetches the rendered HTML and the structured listing
// globals as the page scripts left them on window. The globals map carries an
// entry per configured global name; absent globals are omitted.
func (f *BrowserFetcher) DownloadWithGlobals(ctx context.Context, pageURL string) (string, map[string]any, error) {
	if f.allocCtx == nil {
		return "", nil, errors.New("browser fetcher not started")
	}

	taskCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, f.opts.Timeout)
	defer cancel()

	headers := network.Headers{
		"Accept-Language": "pt-PT,pt;q=0.9,en;q=0.8",
	}
	for k, v := range f.opts.ExtraHeaders {
		headers[k] = v
	}

	var html string
	var globalsJSON string

	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		// Mask the automation fingerprint before the page's own checks run.
		chromedp.Evaluate(`
			Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
			Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]});
			Object.defineProperty(navigator, 'languages', {get: () => ['pt-PT', 'pt', 'en']});
		`, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(
			`JSON.stringify({`+
				f.profile.MultimediaGlobal+`: window.`+f.profile.MultimediaGlobal+` || null, `+
				f.profile.ConfigGlobal+`: window.`+f.profile.ConfigGlobal+` || null})`,
			&globalsJSON,
		),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", nil, &TimeoutError{URL: pageURL}
		}
		return "", nil, &NetworkError{URL: pageURL, Cause: err}
	}

	globals := map[string]any{}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(globalsJSON), &decoded); err == nil {
		for name, v := range decoded {
			if v != nil {
				globals[name] = v
			}
		}
	}

	return html, globals, nil
}
