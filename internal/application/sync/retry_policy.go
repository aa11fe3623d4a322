package sync

import "time"

// RetryPolicy controls automatic retries of POS sync tasks.
// Delays grow exponentially from BaseDelay: 15s, 30s, 60s with the defaults.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns the standard three-attempt policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   15 * time.Second,
	}
}

// Delay returns the backoff delay after the given attempt number (1-based)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// NextRunAt returns the wall-clock time of the next attempt
func (p RetryPolicy) NextRunAt(now time.Time, attempt int) time.Time {
	return now.Add(p.Delay(attempt))
}
