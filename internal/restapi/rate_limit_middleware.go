package restapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"bahnboard.morphos.dev/internal/clock"
)

// rateLimitClient tracks the limiter and its last usage time, so inactive
// clients can be evicted without disrupting active ones.
type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware provides per-client rate limiting keyed by remote IP.
type RateLimitMiddleware struct {
	limiters  map[string]*rateLimitClient
	mu        sync.Mutex
	rateLimit rate.Limit
	burstSize int
	clock     clock.Clock

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewRateLimitMiddleware creates rate limiting middleware allowing
// ratePerSecond requests per client. A non-positive rate disables limiting.
func NewRateLimitMiddleware(ratePerSecond int, c clock.Clock) *RateLimitMiddleware {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	middleware := &RateLimitMiddleware{
		limiters:  make(map[string]*rateLimitClient),
		rateLimit: limit,
		burstSize: max(ratePerSecond, 1),
		clock:     c,
		stopChan:  make(chan struct{}),
	}

	go middleware.cleanupLoop()

	return middleware
}

// Handler wraps next with the rate limit check.
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop terminates the cleanup goroutine. Safe to call multiple times.
func (m *RateLimitMiddleware) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *RateLimitMiddleware) allow(key string) bool {
	m.mu.Lock()
	client, ok := m.limiters[key]
	if !ok {
		client = &rateLimitClient{
			limiter: rate.NewLimiter(m.rateLimit, m.burstSize),
		}
		m.limiters[key] = client
	}
	client.lastSeen = m.clock.Now()
	m.mu.Unlock()

	return client.limiter.Allow()
}

// cleanupLoop evicts limiters that have been idle for several minutes.
func (m *RateLimitMiddleware) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := m.clock.Now().Add(-5 * time.Minute)
			m.mu.Lock()
			for key, client := range m.limiters {
				if client.lastSeen.Before(cutoff) {
					delete(m.limiters, key)
				}
			}
			m.mu.Unlock()
		case <-m.stopChan:
			return
		}
	}
}

// clientKey extracts the remote IP, without the ephemeral port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
