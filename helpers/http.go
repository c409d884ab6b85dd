package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"travelscraper/offerworker/logger"
	scrapeerrors "travelscraper/offerworker/pkg/errors"
)

// Browser identification pool
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	}

	referers = []string{
		"https://www.google.pl/",
		"https://www.bing.com/",
	}
)

// DefaultTimeout is the per-request deadline
const DefaultTimeout = 30 * time.Second

const maxBodyBytes = 10 << 20

// Page is a fetched and UTF-8 decoded response
type Page struct {
	RequestURL  string
	FinalURL    string
	Status      int
	Redirects   int
	ContentType string
	Body        []byte
}

// Reader returns the page body as a reader
func (p *Page) Reader() io.Reader {
	return bytes.NewReader(p.Body)
}

// FetcherOptions configures a Fetcher
type FetcherOptions struct {
	Timeout time.Duration
	// RatePerSecond bounds requests across all agencies; zero disables it
	RatePerSecond float64
	Client        *http.Client
	Logger        *logger.Logger
}

// Fetcher issues GET requests with browser-like headers
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewFetcher creates a Fetcher
func NewFetcher(opts FetcherOptions) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Fetcher{
		client:  client,
		limiter: limiter,
		logger:  log.ForComponent("fetcher"),
	}
}

// Fetch sends a GET request and returns the body decoded as UTF-8.
// Non-2xx statuses, timeouts and transport errors are returned as
// transport errors; 429 and 430 as rate limit errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, params url.Values) (*Page, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, scrapeerrors.NewTransport("", "rate limiter wait", err)
		}
	}

	target := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, scrapeerrors.NewTransport("", "failed to create request", err)
	}
	f.setHeaders(req)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error().
			Err(err).
			Str("url", target).
			Dur("duration", time.Since(start)).
			Msg("Fetch failed")
		return nil, scrapeerrors.NewTransport("", "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	redirects := redirectChain(resp)
	finalURL := resp.Request.URL.String()

	f.logger.Info().
		Str("url", target).
		Str("final_url", finalURL).
		Int("status", resp.StatusCode).
		Int("redirects", len(redirects)).
		Strs("redirect_chain", redirects).
		Dur("duration", time.Since(start)).
		Msg("Fetched page")

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, scrapeerrors.NewRateLimit("", retryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, scrapeerrors.NewTransport("", fmt.Sprintf("fetch %s unexpected status code: %d", finalURL, resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, scrapeerrors.NewTransport("", "failed to read response body", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		f.logger.Warn().
			Str("url", finalURL).
			Str("content_type", contentType).
			Msg("Response is not HTML")
	}

	body, err := decodeUTF8(raw)
	if err != nil {
		return nil, scrapeerrors.NewParsing("", "failed to decode body", err)
	}

	if _, declared, _ := charset.DetermineEncoding(raw, contentType); declared != "utf-8" && f.logger.IsDebugEnabled() {
		f.logger.Debug().
			Str("url", finalURL).
			Str("declared_charset", declared).
			Msg("Ignoring declared charset, decoding as UTF-8")
	}

	return &Page{
		RequestURL:  target,
		FinalURL:    finalURL,
		Status:      resp.StatusCode,
		Redirects:   len(redirects),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "max-age=0")
	req.Header.Set("Referer", referers[rand.IntN(len(referers))])
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")
}

// redirectChain lists the URLs that redirected to the final response,
// oldest first.
func redirectChain(resp *http.Response) []string {
	var chain []string
	for r := resp.Request.Response; r != nil; r = r.Request.Response {
		chain = append([]string{r.Request.URL.String()}, chain...)
	}
	return chain
}

// decodeUTF8 forces UTF-8; the declared charsets of the agency sites
// are unreliable for Polish characters.
func decodeUTF8(raw []byte) ([]byte, error) {
	r, err := charset.NewReaderLabel("utf-8", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
