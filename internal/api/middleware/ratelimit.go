package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

// RateLimiter ограничивает частоту запросов на клиента (X-User-ID или IP)
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter rps запросов в секунду с запасом burst.
// Неактивные клиенты забываются через ttl.
func NewRateLimiter(rps float64, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Middleware отвечает 429, если лимит клиента исчерпан
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientKey(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    http.StatusTooManyRequests,
				"message": msgRateLimited,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now

	l.evict(now)
	return e.limiter.AllowN(now, 1)
}

// evict удаляет лимитеры клиентов, не обращавшихся дольше ttl
func (l *RateLimiter) evict(now time.Time) {
	if l.ttl <= 0 {
		return
	}
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.limiters, key)
		}
	}
}

func clientKey(r *http.Request) string {
	if id := r.Header.Get(HeaderUserID); id != "" {
		return "user:" + id
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return "ip:" + strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
