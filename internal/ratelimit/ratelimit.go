// Package ratelimit implements a sliding window request limiter on Redis
// sorted sets: every admitted request is a member scored by its arrival time.
package ratelimit

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "ledger:ratelimit:"

const msgTooManyRequests = "Trop de tentatives, veuillez réessayer plus tard."

// Result describes one admission decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
	now    func() time.Time
}

// New creates a limiter admitting at most max requests per key in any
// window long period.
func New(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Allow records a request for key and reports whether it is admitted.
// Rejected requests do not count against the window.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := keyPrefix + key
	now := l.now()
	windowStart := now.Add(-l.window)

	member, err := uuid.NewV4()
	if err != nil {
		return Result{}, err
	}

	var count *redis.IntCmd
	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+strconv.FormatInt(windowStart.UnixMicro(), 10))
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMicro()), Member: member.String()})
		count = pipe.ZCard(ctx, redisKey)
		pipe.PExpire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	result := Result{Limit: l.max}
	if int(count.Val()) <= l.max {
		result.Allowed = true
		result.Remaining = l.max - int(count.Val())
		return result, nil
	}

	if err := l.client.ZRem(ctx, redisKey, member.String()).Err(); err != nil {
		return Result{}, err
	}

	oldest, err := l.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
	if err != nil {
		return Result{}, err
	}
	result.RetryAfter = l.window
	if len(oldest) == 1 {
		oldestAt := time.UnixMicro(int64(oldest[0].Score))
		result.RetryAfter = oldestAt.Add(l.window).Sub(now)
	}
	return result, nil
}

// Middleware limits requests per client IP. Paths in exempt bypass the
// limiter, and limiter failures let the request through.
func Middleware(limiter *Limiter, logger *logrus.Logger, exempt ...string) func(http.Handler) http.Handler {
	exemptPaths := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		exemptPaths[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if _, ok := exemptPaths[req.URL.Path]; ok || req.Method == http.MethodOptions {
				next.ServeHTTP(w, req)
				return
			}

			result, err := limiter.Allow(req.Context(), clientIP(req))
			if err != nil {
				logger.WithError(err).Warn("ratelimit.Middleware.limiterUnavailable")
				next.ServeHTTP(w, req)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			if result.Allowed {
				next.ServeHTTP(w, req)
				return
			}

			retrySeconds := int((result.RetryAfter + time.Second - 1) / time.Second)
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": msgTooManyRequests})
		})
	}
}

func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
