package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okazarov/attest/internal/logger"
	"github.com/okazarov/attest/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.UserAgent = "test-agent"
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 100
	return cfg
}

func testClient(baseURL string) *Client {
	c := NewClient(testConfig(), nil, logger.Discard())
	c.baseURL = baseURL
	c.archiveBaseURL = baseURL
	return c
}

func TestCompanyFacts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Path != "/api/xbrl/companyfacts/CIK0000320193.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("user agent = %q", ua)
		}
		_, _ = fmt.Fprint(w, `{"entityName":"Apple Inc.","facts":{}}`)
	}))
	defer server.Close()

	data, err := testClient(server.URL).CompanyFacts(context.Background(), "320193")
	if err != nil {
		t.Fatalf("CompanyFacts failed: %v", err)
	}
	if !strings.Contains(string(data), "Apple Inc.") {
		t.Errorf("unexpected payload: %s", data)
	}
}

func TestFetch_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	origSleep := sleepFunc
	sleepFunc = func(time.Duration) {}
	defer func() { sleepFunc = origSleep }()

	if _, err := testClient(server.URL).CompanyFacts(context.Background(), "320193"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_PermanentFailureNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origSleep := sleepFunc
	sleepFunc = func(time.Duration) {}
	defer func() { sleepFunc = origSleep }()

	if _, err := testClient(server.URL).CompanyFacts(context.Background(), "320193"); err == nil {
		t.Fatal("expected error for 404")
	}
	if attempts.Load() != 1 {
		t.Errorf("404 must not be retried, got %d attempts", attempts.Load())
	}
}

func TestFetch_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	origSleep := sleepFunc
	sleepFunc = func(time.Duration) {}
	defer func() { sleepFunc = origSleep }()

	if _, err := testClient(server.URL).CompanyFacts(context.Background(), "320193"); err == nil {
		t.Fatal("expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestLatestFiling(t *testing.T) {
	const markup = `<html><body>Item 7. MD&A</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/robots.txt":
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/submissions/CIK0000320193.json":
			_, _ = fmt.Fprint(w, `{"filings":{"recent":{
				"accessionNumber":["0000320193-25-000001","0000320193-24-000123"],
				"form":["10-Q","10-K"],
				"filingDate":["2025-02-01","2024-11-01"],
				"primaryDocument":["q1.htm","aapl-10k.htm"]}}}`)
		case strings.HasSuffix(r.URL.Path, "/aapl-10k.htm"):
			if !strings.Contains(r.URL.Path, "/Archives/edgar/data/320193/000032019324000123/") {
				t.Errorf("unexpected archive path %s", r.URL.Path)
			}
			_, _ = fmt.Fprint(w, markup)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	body, err := testClient(server.URL).LatestFiling(context.Background(), "320193", model.FilingAnnual)
	if err != nil {
		t.Fatalf("LatestFiling failed: %v", err)
	}
	if body != markup {
		t.Errorf("body = %q", body)
	}
}

func TestLatestFiling_FormMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, `{"filings":{"recent":{"accessionNumber":[],"form":[],"filingDate":[],"primaryDocument":[]}}}`)
	}))
	defer server.Close()

	_, err := testClient(server.URL).LatestFiling(context.Background(), "320193", model.FilingQuarterly)
	if err == nil || !strings.Contains(err.Error(), "no 10-Q filing") {
		t.Errorf("err = %v, want missing-form error", err)
	}
}

func TestPadCIK(t *testing.T) {
	cases := map[string]string{
		"320193":     "0000320193",
		"1018724":    "0001018724",
		"0000320193": "0000320193",
		" 320193 ":   "0000320193",
	}
	for in, want := range cases {
		if got := padCIK(in); got != want {
			t.Errorf("padCIK(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLatestFilingRef_PicksFirstMatchingForm(t *testing.T) {
	raw := []byte(`{"filings":{"recent":{
		"accessionNumber":["a-1","a-2","a-3"],
		"form":["8-K","10-K","10-K"],
		"filingDate":["2025-01-02","2024-11-01","2023-11-03"],
		"primaryDocument":["x.htm","new.htm","old.htm"]}}}`)

	accession, document, err := latestFilingRef(raw, "10-K")
	if err != nil {
		t.Fatalf("latestFilingRef failed: %v", err)
	}
	if accession != "a-2" || document != "new.htm" {
		t.Errorf("got (%s, %s), want the most recent 10-K", accession, document)
	}

	if _, _, err := latestFilingRef([]byte("nope"), "10-K"); err == nil {
		t.Error("expected parse error")
	}
}
