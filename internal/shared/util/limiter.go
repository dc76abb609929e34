package util

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket used to cap watcher-driven wake-ups.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter allows perSecond events on average with bursts of burst.
// A burst below one is raised to one so Allow can succeed at all.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{inner: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (l *Limiter) Allow(n int) bool {
	return l.inner.AllowN(time.Now(), n)
}
