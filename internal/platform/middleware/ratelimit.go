// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/respond"
)

// # Rate Limiting

// RateLimitSettings configures the per-IP token bucket.
type RateLimitSettings struct {
	RPS   float64
	Burst int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors is the limiter table of one [RateLimit] instance.
type visitors struct {
	mu       sync.Mutex
	settings RateLimitSettings
	byIP     map[string]*visitor
}

// reserve takes one token for ip and returns how long the caller must wait when none is left.
func (table *visitors) reserve(ip string, now time.Time) time.Duration {
	table.mu.Lock()
	defer table.mu.Unlock()

	entry, found := table.byIP[ip]
	if !found {
		entry = &visitor{limiter: rate.NewLimiter(rate.Limit(table.settings.RPS), table.settings.Burst)}
		table.byIP[ip] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return delay
	}
	return 0
}

// sweep forgets visitors idle for longer than ttl.
func (table *visitors) sweep(now time.Time, ttl time.Duration) {
	table.mu.Lock()
	defer table.mu.Unlock()

	for ip, entry := range table.byIP {
		if now.Sub(entry.lastSeen) > ttl {
			delete(table.byIP, ip)
		}
	}
}

/*
RateLimit throttles each client IP with its own token bucket.

Exhausted clients get RATE_LIMITED with a Retry-After header. Idle entries are swept
every [constants.RateLimitCleanupInterval] until context is cancelled.
*/
func RateLimit(context context.Context, settings RateLimitSettings) func(http.Handler) http.Handler {
	table := &visitors{settings: settings, byIP: make(map[string]*visitor)}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				table.sweep(now, constants.RateLimitClientTTL)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if delay := table.reserve(RealIP(request), time.Now()); delay > 0 {
				retryAfter := max(1, int(math.Ceil(delay.Seconds())))
				writer.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
