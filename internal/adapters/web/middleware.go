package web

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"verifybot/pkg/log"
)

// RateLimiter tracks requests per IP over a sliding window.
type RateLimiter struct {
	hits   map[string][]time.Time
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a new rate limiter. Close stops its cleanup loop.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go rl.cleanup(5 * time.Minute)
	return rl
}

// Allow records a request from ip and reports whether it is within the limit.
// Rejected requests are not recorded.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := pruned(rl.hits[ip], now.Add(-rl.window))
	if len(recent) >= rl.limit {
		rl.hits[ip] = recent
		return false
	}
	rl.hits[ip] = append(recent, now)
	return true
}

// Middleware returns a Fiber middleware answering 429 over the limit.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.limit <= 0 || rl.Allow(c.IP()) {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(rl.window.Seconds())))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
	}
}

// Close stops the cleanup loop.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup periodically removes old entries from the rate limiter.
func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.window)
	for ip, timestamps := range rl.hits {
		recent := pruned(timestamps, cutoff)
		if len(recent) == 0 {
			delete(rl.hits, ip)
		} else {
			rl.hits[ip] = recent
		}
	}
}

func pruned(timestamps []time.Time, cutoff time.Time) []time.Time {
	var recent []time.Time
	for _, t := range timestamps {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

// RequestIDConfig returns the configuration for Fiber's requestid middleware.
// Uses the X-Request-ID header and generates a UUID when it is absent.
func RequestIDConfig() requestid.Config {
	return requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: "requestid",
	}
}

// RequestIDToContextMiddleware copies Fiber's request id into the user
// context so pkg/log picks it up. Must be used AFTER requestid.New().
func RequestIDToContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			c.SetUserContext(log.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// RequestLoggerMiddleware logs one structured entry per request, at warn for
// 4xx and error for 5xx. Must be used AFTER RequestIDToContextMiddleware.
func RequestLoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// A returned error is turned into a response by the error handler
		// after this middleware, so take its code from the error itself.
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"route", c.Route().Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
			"user_agent", c.Get(fiber.HeaderUserAgent),
		}
		if err != nil {
			fields = append(fields, "error", err)
		}

		ctx := c.UserContext()
		switch {
		case status >= 500:
			log.ErrorCtx(ctx, "request completed", fields...)
		case status >= 400:
			log.WarnCtx(ctx, "request completed", fields...)
		default:
			log.InfoCtx(ctx, "request completed", fields...)
		}
		return err
	}
}
