package config

import (
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

var storeCircuitBreaker *gobreaker.CircuitBreaker

func init() {
	settings := gobreaker.Settings{
		Name:        "StoreCircuitBreaker",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	}
	storeCircuitBreaker = gobreaker.NewCircuitBreaker(settings)
}

// StoreWithCircuitBreaker wraps a store write. There is no retry loop:
// a failed run aborts and is reported, the breaker only protects the
// cluster from a run hammering a down store.
func StoreWithCircuitBreaker(fn func() error) error {
	var permanent error
	_, err := storeCircuitBreaker.Execute(func() (interface{}, error) {
		err := fn()
		if IsPermanentError(err) {
			// permanent error, don't trip CB
			permanent = err
			return nil, nil
		}
		return nil, err // transient errors trip CB
	})
	if err != nil {
		return err
	}
	return permanent
}

func IsPermanentError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	// Error patterns that indicate bad data rather than a sick store
	if strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "document is nil") ||
		strings.Contains(msg, "cannot be null") {
		return true
	}

	// Otherwise, assume transient error (connection, timeout, election, etc.)
	return false
}
