package http

import (
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// WithRateLimit makes Do wait for a token before sending. rps <= 0 disables
// limiting. A wait cut short by the context fails with KindOther.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// BreakerConfig configures WithCircuitBreaker.
type BreakerConfig struct {
	Name string
	// ConsecutiveFailures trips the breaker. Defaults to 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open. Defaults to 30s.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of trial requests allowed while half-open. Defaults to 1.
	HalfOpenRequests uint32
	OnStateChange    func(name string, from, to gobreaker.State)
}

// WithCircuitBreaker guards Do with a circuit breaker. Only connect faults
// and 5xx responses count as failures. While the breaker is open Do fails
// fast with KindOther.
func WithCircuitBreaker(bc BreakerConfig) ClientOption {
	return func(c *Client) {
		if bc.Name == "" {
			bc.Name = "swretail"
		}
		if bc.ConsecutiveFailures == 0 {
			bc.ConsecutiveFailures = 5
		}
		if bc.OpenTimeout <= 0 {
			bc.OpenTimeout = 30 * time.Second
		}
		if bc.HalfOpenRequests == 0 {
			bc.HalfOpenRequests = 1
		}
		threshold := bc.ConsecutiveFailures
		c.breaker = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
			Name:        bc.Name,
			MaxRequests: bc.HalfOpenRequests,
			Timeout:     bc.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.logger.WarnF("circuit breaker %s: %s -> %s", name, from, to)
				if bc.OnStateChange != nil {
					bc.OnStateChange(name, from, to)
				}
			},
			IsSuccessful: func(err error) bool {
				switch KindOf(err) {
				case KindConnect, KindServer:
					return false
				default:
					return true
				}
			},
		})
	}
}
