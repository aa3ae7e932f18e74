package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://data.example.gov/api/facts"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different host has its own budget.
	if err := limiter.Wait(ctx, "https://www.example.gov/archives"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("http://a.example.com/x") {
		t.Error("first request to a.example.com should be allowed")
	}
	if limiter.Allow("http://a.example.com/y") {
		t.Error("second immediate request to a.example.com should be throttled")
	}
	if !limiter.Allow("http://b.example.com/x") {
		t.Error("request to b.example.com should not share a.example.com's budget")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(100, 10)
	limiter.SetHostRate("slow.example.com", 0.1, 1)

	if !limiter.Allow("http://slow.example.com/") {
		t.Error("first request should consume the single burst token")
	}
	if limiter.Allow("http://slow.example.com/") {
		t.Error("second request should be throttled at 0.1 rps")
	}
	if !limiter.Allow("http://fast.example.com/") {
		t.Error("other hosts keep the default rate")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(10, 1)

	if err := limiter.Wait(context.Background(), "://bad"); err == nil {
		t.Error("expected error for unparsable URL")
	}
	if limiter.Allow("://bad") {
		t.Error("unparsable URL should not be allowed")
	}
}
