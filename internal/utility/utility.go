package utility

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"PawPulse/internal/metrics"
)

// GetRealIP is a helper function to get the user's real IP address
// It checks proxy headers first.
func GetRealIP(c echo.Context) string {
	// 1. Check X-Forwarded-For first
	// This header can be a list: "client, proxy1, proxy2"
	xForwardedFor := c.Request().Header.Get("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	// 2. Check X-Real-IP
	xRealIP := c.Request().Header.Get("X-Real-IP")
	if xRealIP != "" {
		return xRealIP
	}

	// 3. Direct peer address
	return c.RealIP()
}

// GetLogger returns the request-scoped logger set by the logging middleware,
// or the global logger when none is set.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get("logger").(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return &log.Logger
}

/* ====================================================================
                   		Rate Limiting
==================================================================== */

// RateLimiter keeps a token bucket per client IP: maxAttempts requests per
// window, refilled evenly. Buckets idle for a full window are dropped, since
// they would be full again anyway.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	limit       rate.Limit
	window      time.Duration
	maxAttempts int
	lastSweep   time.Time
	now         func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	r := &RateLimiter{
		visitors:    make(map[string]*visitor),
		window:      window,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
	if maxAttempts > 0 && window > 0 {
		r.limit = rate.Every(window / time.Duration(maxAttempts))
	}
	return r
}

// Allow records an attempt for ip and reports whether it is within the limit.
func (r *RateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	v, ok := r.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.maxAttempts)}
		r.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Len reports how many IPs currently hold a bucket.
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// sweep drops idle buckets, at most once per window. Callers hold r.mu.
func (r *RateLimiter) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < r.window {
		return
	}
	r.lastSweep = now
	for ip, v := range r.visitors {
		if now.Sub(v.lastSeen) >= r.window {
			delete(r.visitors, ip)
		}
	}
}

// retryAfter is the time for one token to refill, in whole seconds.
func (r *RateLimiter) retryAfter() int {
	if r.maxAttempts <= 0 {
		return int(r.window.Seconds())
	}
	interval := r.window / time.Duration(r.maxAttempts)
	secs := int(math.Ceil(interval.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Middleware rejects requests over the limit with 429. A non-positive limit
// disables limiting.
func (r *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if r.maxAttempts <= 0 {
			return next(c)
		}
		ip := GetRealIP(c)
		if !r.Allow(ip) {
			metrics.RateLimited.Inc()
			GetLogger(c).Warn().Str("ip", ip).Msg("Rate limit exceeded")
			c.Response().Header().Set("Retry-After", strconv.Itoa(r.retryAfter()))
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests, please try again later"})
		}
		return next(c)
	}
}

/* ====================================================================
                   		pgtype Helpers
==================================================================== */

func PgtypeUUIDToString(pgtypeUUID pgtype.UUID) (string, error) {
	if !pgtypeUUID.Valid {
		return "", fmt.Errorf("invalid UUID")
	}

	// Convert bytes to google UUID
	UUID, err := uuid.FromBytes(pgtypeUUID.Bytes[:])
	if err != nil {
		return "", fmt.Errorf("failed to parse UUID: %w", err)
	}

	return UUID.String(), nil
}

// StringToPgtypeUUID parses s into a pgtype.UUID.
func StringToPgtypeUUID(s string) (pgtype.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("failed to parse UUID: %w", err)
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

// FloatToNumeric converts f to a two-decimal pgtype.Numeric.
func FloatToNumeric(f float64) pgtype.Numeric {
	var n pgtype.Numeric
	if err := n.Scan(strconv.FormatFloat(f, 'f', 2, 64)); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// NumericToFloat returns 0 for NULL.
func NumericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0
	}
	return f.Float64
}

// TextOrNull maps an empty string to SQL NULL.
func TextOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
