package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

const (
	DefaultWorkers   = 4
	DefaultTimeout   = 4 * time.Second
	DefaultMaxChars  = 6000
	DefaultCacheSize = 256

	maxBodyBytes = 2 << 20
)

// Hosts whose pages can never be read.
var restrictedHosts = map[string]struct{}{
	"chrome.google.com":         {},
	"chromewebstore.google.com": {},
}

// ErrNotHTML is returned for responses that are not HTML documents.
var ErrNotHTML = errors.New("response is not html")

// Stats counts tabs by how their content request went.
type Stats struct {
	Eligible   int
	Success    int
	Restricted int
}

// Result is the text found per tab id. Tabs without an entry have no
// content and cluster on their title alone.
type Result struct {
	Content map[int]string
	Stats   Stats
}

// Options configures a Fetcher. Zero values select the defaults.
type Options struct {
	Client    *http.Client
	Workers   int
	Timeout   time.Duration // per tab
	MaxChars  int
	CacheSize int
	UserAgent string
	Logger    *zap.Logger
}

// Fetcher downloads tab pages with bounded concurrency and extracts their
// main text. Extracted text is cached per URL.
type Fetcher struct {
	client    *http.Client
	workers   int
	timeout   time.Duration
	maxChars  int
	userAgent string
	cache     *lru.Cache[string, string]
	logger    *zap.Logger
}

// NewFetcher creates a fetcher.
func NewFetcher(opts Options) (*Fetcher, error) {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "tabtopic/1.0"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	cache, err := lru.New[string, string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create content cache: %w", err)
	}
	return &Fetcher{
		client:    opts.Client,
		workers:   opts.Workers,
		timeout:   opts.Timeout,
		maxChars:  opts.MaxChars,
		userAgent: opts.UserAgent,
		cache:     cache,
		logger:    opts.Logger,
	}, nil
}

// Eligible reports whether a tab's page may be read: http(s) only, and
// never the browser's extension store.
func Eligible(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	_, restricted := restrictedHosts[strings.ToLower(u.Hostname())]
	return !restricted
}

// Fetch reads every eligible tab. Per-tab failures and timeouts only leave
// that tab without content. When ctx is cancelled Fetch stops starting new
// requests and returns the content gathered so far with ctx's error.
func (f *Fetcher) Fetch(ctx context.Context, tabs []ingest.TabRecord) (Result, error) {
	res := Result{Content: make(map[int]string)}
	var eligible []ingest.TabRecord
	for _, tab := range tabs {
		switch {
		case Eligible(tab.URL):
			eligible = append(eligible, tab)
		case tab.URL != "":
			res.Stats.Restricted++
		}
	}
	res.Stats.Eligible = len(eligible)
	if len(eligible) == 0 {
		return res, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for _, tab := range eligible {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			text, err := f.fetchOne(gctx, tab.URL)
			if err != nil {
				f.logger.Debug("Content fetch failed",
					zap.Int("tab", tab.ID),
					zap.String("url", tab.URL),
					zap.Error(err))
				return nil
			}
			if text == "" {
				return nil
			}
			mu.Lock()
			res.Content[tab.ID] = text
			res.Stats.Success++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		f.logger.Info("Content fetch stopped",
			zap.Int("fetched", res.Stats.Success),
			zap.Int("eligible", res.Stats.Eligible))
		return res, err
	}
	return res, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, rawURL string) (string, error) {
	if text, ok := f.cache.Get(rawURL); ok {
		return text, nil
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", fmt.Errorf("%w: %s", ErrNotHTML, ct)
	}

	text, err := Extract(io.LimitReader(resp.Body, maxBodyBytes), f.maxChars)
	if err != nil {
		return "", err
	}
	f.cache.Add(rawURL, text)
	return text, nil
}
