package resilience

import "time"

// BreakerConfig tunes the upstream-call circuit breaker. The zero value is
// unusable; callers go through Normalize first.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxCalls int
}

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
	defaultHalfOpenMaxCalls = 1
)

func (c BreakerConfig) Normalize() BreakerConfig {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.HalfOpenMaxCalls <= 0 {
		c.HalfOpenMaxCalls = defaultHalfOpenMaxCalls
	}
	return c
}
