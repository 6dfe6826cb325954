package worker

import (
	"math"
	"math/rand/v2"
	"time"
)

// backoff is 1s * 2^(attempts-1), capped at maxBackoff.
func backoff(attempts int, maxBackoff time.Duration) time.Duration {
	if attempts <= 0 {
		return 0
	}
	d := time.Duration(math.Pow(2, float64(attempts-1)) * float64(time.Second))
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}

// jitter is uniform in [0, maxJitter].
func jitter(maxJitter time.Duration) time.Duration {
	if maxJitter <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(maxJitter) + 1)) //nolint:gosec
}
