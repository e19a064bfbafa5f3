package captcha

import (
	"math/rand"
	"time"
)

// BackoffConfig controls retry timing for transport faults on poll requests.
// This is separate from the fixed inter-poll delay: a retried poll request
// does not consume extra poll attempts.
type BackoffConfig struct {
	// MaxRetries is the number of extra tries after the first failed request.
	MaxRetries int

	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	JitterPct   float64
}

// Duration returns the wait before retry number attempt (0-based).
func (b BackoffConfig) Duration(attempt int) time.Duration {
	wait := float64(b.InitialWait)
	for i := 0; i < attempt; i++ {
		wait *= b.Multiplier
		if wait >= float64(b.MaxWait) {
			wait = float64(b.MaxWait)
			break
		}
	}
	if b.JitterPct > 0 {
		jitter := wait * b.JitterPct
		wait += jitter * (2*rand.Float64() - 1)
	}
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
