package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dunamismax/folio/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter charges a client address against the contact form budget.
type RateLimiter interface {
	Allow(ctx context.Context, addr string) (ratelimit.Decision, error)
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !shouldRateLimit(r) {
			next.ServeHTTP(w, r)
			return
		}

		addr := clientAddr(r)
		decision, err := s.rateLimiter.Allow(r.Context(), addr)
		if err != nil {
			s.logger.Warn("rate limiter check failed", zap.String("client", addr), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if decision.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		if decision.Allowed {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter := int(decision.RetryAfter.Round(time.Second).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		s.metrics.rateLimitRejected.WithLabelValues(r.URL.Path).Inc()
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error": "rate limit exceeded",
		})
	})
}

// shouldRateLimit covers the public contact form only.
func shouldRateLimit(r *http.Request) bool {
	return r.Method == http.MethodPost && r.URL.Path == "/v1/contact"
}
