// Package circuitbreaker builds sony/gobreaker breakers with the defaults
// used for remote cart storage.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

type Options struct {
	Name string
	// ConsecutiveFailures trips the breaker. Default 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before half-open.
	// Default 30s.
	OpenTimeout time.Duration
	// IsSuccessful decides which errors are not failures. nil counts every
	// non-nil error.
	IsSuccessful func(err error) bool
	Logger       *slog.Logger
}

var (
	ErrOpenState       = gobreaker.ErrOpenState
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

func New[T any](opts Options) *gobreaker.CircuitBreaker[T] {
	failures := opts.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	timeout := opts.OpenTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: opts.IsSuccessful,
	})
}
