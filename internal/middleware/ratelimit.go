package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/celustock-backend/internal/logger"
	"github.com/AnshRaj112/celustock-backend/pkg/clientip"
)

const (
	// AuthRateLimitWindow is the fixed window for login/register attempts
	AuthRateLimitWindow = 15 * time.Minute
	// AuthRateLimitMaxRequests is the number of attempts allowed per window
	AuthRateLimitMaxRequests = 10
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:auth:"
)

// AuthRateLimit counts attempts per IP in Redis. Redis failures let the
// request through.
func AuthRateLimit(client redis.Cmdable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			key := RateLimitKeyPrefix + clientip.RealClientIP(r)
			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("rate limit counter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := client.Expire(ctx, key, AuthRateLimitWindow).Err(); err != nil {
					logger.Warn("rate limit expiry not set", zap.String("key", key), zap.Error(err))
				}
			}

			remaining := AuthRateLimitMaxRequests - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(AuthRateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > AuthRateLimitMaxRequests {
				w.Header().Set("Retry-After", strconv.Itoa(int(AuthRateLimitWindow.Seconds())))
				writeError(w, http.StatusTooManyRequests, msgTooManyLogins)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
