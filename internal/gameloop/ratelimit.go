package gameloop

import (
	"golang.org/x/time/rate"
)

// sessionLimiters hands out one token-bucket limiter per session, burst
// sized to the per-frame admission cap and refilled at a rate that
// delivers that many tokens per tick on average. Adapted from the
// teacher's internal/api/ratelimit.go IPRateLimiter (per-key limiter map),
// generalized from per-IP HTTP throttling to per-session message
// admission.
type sessionLimiters struct {
	limiters map[uint64]*rate.Limiter
	perTick  float64
	interval float64 // ticks per second
}

func newSessionLimiters(updateFrequency float64) *sessionLimiters {
	return &sessionLimiters{
		limiters: make(map[uint64]*rate.Limiter),
		perTick:  maxSessionMessagesPerFrame,
		interval: updateFrequency,
	}
}

func (sl *sessionLimiters) allow(sessionID uint64) bool {
	l, ok := sl.limiters[sessionID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(sl.perTick*sl.interval), maxSessionMessagesPerFrame)
		sl.limiters[sessionID] = l
	}
	return l.Allow()
}

func (sl *sessionLimiters) remove(sessionID uint64) {
	delete(sl.limiters, sessionID)
}
