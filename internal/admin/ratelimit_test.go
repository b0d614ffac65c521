package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiterAllowsUpToBurst(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3, CleanupInterval: time.Minute})

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("expected request %d within burst to be allowed", i)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("expected request beyond burst to be rejected")
	}
}

func TestIPRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Minute})

	if !rl.Allow("1.1.1.1") {
		t.Fatal("expected first request from 1.1.1.1 to be allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("expected first request from a different IP to be allowed independently")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("expected second request from 1.1.1.1 to be rejected")
	}
}

func TestIPRateLimiterMiddlewareRejectsWithTooManyRequests(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Minute})
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass through, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", second.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "5.6.7.8, 9.9.9.9")

	if ip := clientIP(req); ip != "5.6.7.8" {
		t.Fatalf("expected first forwarded address, got %q", ip)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.RemoteAddr = "127.0.0.1:5555"

	if ip := clientIP(req); ip != "127.0.0.1" {
		t.Fatalf("expected remote addr host, got %q", ip)
	}
}
