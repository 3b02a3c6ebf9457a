package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// attempt is what a single delivery of a grade payload came back with
type attempt struct {
	status     int
	retryAfter time.Duration // zero when the receiver sent no hint
}

// delivered reports whether the receiver has recorded the grade. 409 means
// a grade with the same idempotency key is already stored.
func (a attempt) delivered() bool {
	return (a.status >= 200 && a.status < 300) || a.status == http.StatusConflict
}

// retryable reports whether resending the same grade could succeed
func (a attempt) retryable() bool {
	switch a.status {
	case 0, // transport error
		http.StatusRequestTimeout,
		http.StatusTooEarly,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// nextDelay picks the wait before retry number n (1-based). A Retry-After
// hint from the receiver wins over the exponential schedule, both capped at
// MaxDelay.
func nextDelay(n int, prev attempt, config *RetryConfig) time.Duration {
	if n <= 0 {
		return 0
	}
	if prev.retryAfter > 0 {
		return min(prev.retryAfter, config.MaxDelay)
	}

	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(n-1))
	delay = math.Min(delay, float64(config.MaxDelay))

	// ±10% jitter
	delay += (rand.Float64()*2 - 1) * delay * 0.1
	return time.Duration(delay)
}

// parseRetryAfter reads a Retry-After header in either delta-seconds or
// HTTP-date form. Unparseable or past values yield zero.
func parseRetryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	when, err := http.ParseTime(header)
	if err != nil || !when.After(now) {
		return 0
	}
	return when.Sub(now)
}

// idempotencyKey identifies a grade payload so that a retried or re-run
// delivery of the same result is recorded once
func idempotencyKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:16])
}
