package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware(t *testing.T) {
	apiKey := "secret-key"
	detector := NewSuspiciousActivityDetector()
	middleware := AuthMiddleware(apiKey, nil, detector)

	tests := []struct {
		name           string
		providedKey    string
		bearer         string
		path           string
		expectedStatus int
	}{
		{
			name:           "Bearer Token",
			bearer:         "Bearer " + apiKey,
			path:           "/api/v1/machines/classic",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Wrong Bearer Token",
			bearer:         "bearer nope",
			path:           "/api/v1/machines/classic",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid API Key",
			providedKey:    apiKey,
			path:           "/api/v1/machines/classic/spin",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid API Key",
			providedKey:    "wrong-key",
			path:           "/api/v1/machines/classic/spin",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing API Key",
			providedKey:    "",
			path:           "/api/v1/history",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Public Path - Healthz",
			providedKey:    "",
			path:           "/healthz",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Public Path - Metrics",
			providedKey:    "",
			path:           "/metrics",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Public Path - Event Stream",
			providedKey:    "",
			path:           "/api/v1/events",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			if tt.bearer != "" {
				req.Header.Set(HeaderAuthorization, tt.bearer)
			}
			rec := httptest.NewRecorder()

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}

	if failures := detector.FailedAuthCount("192.0.2.1"); failures != 2 {
		t.Errorf("expected 2 recorded auth failures, got %d", failures)
	}
}

func TestAuthMiddleware_DisabledWithoutKey(t *testing.T) {
	handler := AuthMiddleware("", nil, NewSuspiciousActivityDetector())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("POST", "/api/v1/machines/classic/spin", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected pass-through without a configured key, got %d", rec.Code)
	}
}

func TestProxySet_ClientIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []string
		want      string
	}{
		{"direct", "203.0.113.7:5555", "", nil, "203.0.113.7"},
		{"untrusted proxy header ignored", "203.0.113.7:5555", "198.51.100.1", nil, "203.0.113.7"},
		{"trusted proxy uses last hop", "10.0.0.2:80", "198.51.100.1, 198.51.100.9", []string{"10.0.0.2"}, "198.51.100.9"},
		{"trusted by CIDR", "10.1.2.3:80", "198.51.100.4", []string{"10.0.0.0/8"}, "198.51.100.4"},
		{"outside CIDR", "172.16.0.1:80", "198.51.100.4", []string{"10.0.0.0/8"}, "172.16.0.1"},
		{"trusted proxy without header", "10.0.0.2:80", "", []string{"10.0.0.2"}, "10.0.0.2"},
		{"invalid entries ignored", "10.0.0.2:80", "198.51.100.4", []string{"not-an-ip"}, "10.0.0.2"},
		{"ipv6 proxy", "[fd00::1]:443", "2001:db8::5", []string{"fd00::/8"}, "2001:db8::5"},
		{"unparseable remote", "garbage", "", nil, "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxies := NewProxySet(tt.trusted)
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			if got := proxies.ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
