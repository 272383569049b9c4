package resilience

import "time"

// Config tunes an Executor.
type Config struct {
	Retry   RetryPolicy
	Breaker BreakerPolicy
}

// RetryPolicy bounds repeated attempts of one call. Attempts 1 means no retries.
type RetryPolicy struct {
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// BreakerPolicy configures the per-operation circuit breaker. The breaker
// trips once at least MinRequests calls were made in the current window and
// the failure share reaches FailureRatio.
type BreakerPolicy struct {
	Enabled          bool
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

// DefaultConfig makes a single attempt per call behind an enabled breaker.
// Classification requests are interactive; callers own retry decisions.
func DefaultConfig() Config {
	return Config{
		Retry: RetryPolicy{
			Attempts:       1,
			InitialBackoff: 50 * time.Millisecond,
			MaxBackoff:     250 * time.Millisecond,
			Multiplier:     2,
		},
		Breaker: BreakerPolicy{
			Enabled:          true,
			MinRequests:      10,
			FailureRatio:     0.5,
			OpenTimeout:      30 * time.Second,
			HalfOpenMaxCalls: 2,
		},
	}
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	return Config{
		Retry:   c.Retry.normalize(def.Retry),
		Breaker: c.Breaker.normalize(def.Breaker),
	}
}

func (p RetryPolicy) normalize(def RetryPolicy) RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = def.Attempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = max(def.MaxBackoff, p.InitialBackoff)
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// wait returns the pause after the given failed attempt (1-based).
func (p RetryPolicy) wait(attempt int) time.Duration {
	d := float64(p.InitialBackoff)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
		if d >= float64(p.MaxBackoff) {
			return p.MaxBackoff
		}
	}
	return time.Duration(d)
}

// Enabled is kept as given; a zero BreakerPolicy means no breaker.
func (p BreakerPolicy) normalize(def BreakerPolicy) BreakerPolicy {
	if p.MinRequests == 0 {
		p.MinRequests = def.MinRequests
	}
	if p.FailureRatio <= 0 || p.FailureRatio > 1 {
		p.FailureRatio = def.FailureRatio
	}
	if p.OpenTimeout <= 0 {
		p.OpenTimeout = def.OpenTimeout
	}
	if p.HalfOpenMaxCalls == 0 {
		p.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	return p
}

func (p BreakerPolicy) shouldTrip(requests, failures uint32) bool {
	if requests < p.MinRequests {
		return false
	}
	return float64(failures)/float64(requests) >= p.FailureRatio
}
