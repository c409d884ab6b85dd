package crawler

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"travelscraper/offerworker/config"
	"travelscraper/offerworker/helpers"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// stubFetcher serves canned pages keyed by URL and records requests
type stubFetcher struct {
	pages    map[string]string
	errs     map[string]error
	requests []string
}

func (f *stubFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) (*helpers.Page, error) {
	f.requests = append(f.requests, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	body, ok := f.pages[rawURL]
	if !ok {
		body = "<html><body></body></html>"
	}
	return &helpers.Page{
		RequestURL:  rawURL,
		FinalURL:    rawURL,
		Status:      200,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(body),
	}, nil
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func testConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.FlyURL = "http://fly.test/"
	return cfg
}
