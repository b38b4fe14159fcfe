package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/osse101/ReelSpin_Go/internal/logger"
	"github.com/osse101/ReelSpin_Go/internal/metrics"
)

// AuthMiddleware validates the X-API-Key header. An empty apiKey disables
// the check, which is how the local UI runs.
func AuthMiddleware(apiKey string, proxies *ProxySet, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			slog.Default().Warn(LogMsgAuthDisabled)
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := requestKey(r)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := proxies.ClientIP(r)
			detector.RecordFailedAuth(ip)
			metrics.HTTPRejected.WithLabelValues(RejectReasonAuth).Inc()

			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"path", r.URL.Path,
				"has_key", providedKey != "",
				"ip", ip)

			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// requestKey reads X-API-Key, falling back to an Authorization bearer token
func requestKey(r *http.Request) string {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return key
	}
	auth := r.Header.Get(HeaderAuthorization)
	if len(auth) > len(BearerPrefix) && strings.EqualFold(auth[:len(BearerPrefix)], BearerPrefix) {
		return strings.TrimSpace(auth[len(BearerPrefix):])
	}
	return ""
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// windowCounter counts per-IP hits in a fixed window. Not safe for
// concurrent use; the detector serializes access.
type windowCounter struct {
	counts map[string]int
	since  time.Time
	window time.Duration
}

func newWindowCounter(window time.Duration, now time.Time) *windowCounter {
	return &windowCounter{counts: make(map[string]int), since: now, window: window}
}

func (c *windowCounter) inc(ip string, now time.Time) int {
	if now.Sub(c.since) > c.window {
		clear(c.counts)
		c.since = now
	}
	c.counts[ip]++
	return c.counts[ip]
}

func (c *windowCounter) get(ip string, now time.Time) int {
	if now.Sub(c.since) > c.window {
		return 0
	}
	return c.counts[ip]
}

// SuspiciousActivityDetector tracks failed logins and request volume per IP
type SuspiciousActivityDetector struct {
	mu         sync.Mutex
	now        func() time.Time
	failedAuth *windowCounter
	requests   *windowCounter
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	now := time.Now()
	return &SuspiciousActivityDetector{
		now:        time.Now,
		failedAuth: newWindowCounter(DetectorWindow, now),
		requests:   newWindowCounter(DetectorWindow, now),
	}
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	n := s.failedAuth.inc(ip, s.now())
	s.mu.Unlock()

	if n >= FailedAuthAlertCount {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// RecordRequest counts a request and reports whether the IP is within budget
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	n := s.requests.inc(ip, s.now())
	s.mu.Unlock()

	if n <= MaxRequestsPerWindow {
		return true
	}
	if n%HighRateLogEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
	}
	return false
}

// FailedAuthCount returns the failures recorded for ip in the current window
func (s *SuspiciousActivityDetector) FailedAuthCount(ip string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failedAuth.get(ip, s.now())
}

// RequestCount returns the requests recorded for ip in the current window
func (s *SuspiciousActivityDetector) RequestCount(ip string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests.get(ip, s.now())
}

// SecurityLoggingMiddleware enforces the per-IP request budget
func SecurityLoggingMiddleware(proxies *ProxySet, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := proxies.ClientIP(r)
			if !detector.RecordRequest(ip) {
				metrics.HTTPRejected.WithLabelValues(RejectReasonRateLimit).Inc()
				logger.FromContext(r.Context()).Debug(LogMsgRateLimited, "ip", ip, "path", r.URL.Path)
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ProxySet holds the reverse proxies whose X-Forwarded-For is believed.
// Entries are single addresses or CIDR ranges. A nil set trusts nobody.
type ProxySet struct {
	prefixes []netip.Prefix
}

// NewProxySet parses entries, skipping (and logging) any that are invalid
func NewProxySet(entries []string) *ProxySet {
	ps := &ProxySet{}
	for _, e := range entries {
		if prefix, err := netip.ParsePrefix(e); err == nil {
			ps.prefixes = append(ps.prefixes, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(e); err == nil {
			ps.prefixes = append(ps.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		slog.Warn(LogMsgBadTrustedProxy, "entry", e)
	}
	return ps
}

func (ps *ProxySet) trusts(ip string) bool {
	if ps == nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range ps.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the caller's address. X-Forwarded-For is only read when the
// direct peer is a trusted proxy, and then only its rightmost hop, the one
// that proxy itself saw.
func (ps *ProxySet) ClientIP(r *http.Request) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if !ps.trusts(remoteIP) {
		return remoteIP
	}
	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			// Machine state changes every frame; the event stream sets its own policy
			if strings.HasPrefix(r.URL.Path, "/api/") {
				h.Set(HeaderCacheControl, HeaderValueNoStore)
			}
			next.ServeHTTP(w, r)
		})
	}
}
