package server

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter throttles expensive actions per client address with a
// one-minute sliding window.
type rateLimiter struct {
	mu        sync.Mutex
	perMinute int
	hits      map[string][]time.Time
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{
		perMinute: perMinute,
		hits:      make(map[string][]time.Time),
	}
}

func (l *rateLimiter) allow(key string, now time.Time) bool {
	if l.perMinute <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-time.Minute)
	recent := l.hits[key][:0]
	for _, hit := range l.hits[key] {
		if hit.After(cutoff) {
			recent = append(recent, hit)
		}
	}
	if len(recent) >= l.perMinute {
		l.hits[key] = recent
		return false
	}
	l.hits[key] = append(recent, now)
	return true
}

func (s *Server) enforceRateLimit(w http.ResponseWriter, r *http.Request, action string) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if s.limiter.allow(action+":"+host, time.Now()) {
		return true
	}
	writeError(w, http.StatusTooManyRequests, "slow down")
	return false
}
