package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSecurityLoggingMiddleware_RateLimiting(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	middleware := SecurityLoggingMiddleware(nil, detector)

	// Create a handler that always returns OK
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ip := "192.168.1.100"
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = ip + ":1234"

	for i := 0; i < MaxRequestsPerWindow; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d failed with status %d", i, rec.Code)
		}
	}

	// Next request should be blocked
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429 Too Many Requests, got %d", rec.Code)
	}

	if count := detector.RequestCount(ip); count != MaxRequestsPerWindow+1 {
		t.Errorf("expected count %d, got %d", MaxRequestsPerWindow+1, count)
	}

	// Other clients keep their own budget
	other := httptest.NewRequest("GET", "/test", nil)
	other.RemoteAddr = "192.168.1.101:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("expected a different IP to pass, got %d", rec.Code)
	}
}

func TestSuspiciousActivityDetector_WindowResets(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	now := time.Unix(0, 0)
	detector.now = func() time.Time { return now }
	detector.requests = newWindowCounter(DetectorWindow, now)
	detector.failedAuth = newWindowCounter(DetectorWindow, now)

	for i := 0; i < MaxRequestsPerWindow; i++ {
		detector.RecordRequest("203.0.113.1")
	}
	detector.RecordFailedAuth("203.0.113.1")
	if detector.RecordRequest("203.0.113.1") {
		t.Fatal("expected the budget to be spent")
	}

	now = now.Add(DetectorWindow + time.Second)
	if !detector.RecordRequest("203.0.113.1") {
		t.Error("expected a fresh budget after the window")
	}
	if got := detector.FailedAuthCount("203.0.113.1"); got != 0 {
		t.Errorf("failed auth count should expire with the window, got %d", got)
	}
}
