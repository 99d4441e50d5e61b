// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package resilience wraps outbound calls to third-party services in circuit
// breakers that report their state to Prometheus.
package resilience

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// BreakerSettings tunes a Breaker. Zero fields take the defaults below.
// Errors marked by Abandoned are treated as successful whatever
// IsSuccessful says.
type BreakerSettings struct {
	MaxRequests     uint32        // concurrent probes in half-open state (3)
	Interval        time.Duration // closed-state count reset (1m)
	Timeout         time.Duration // open -> half-open delay (2m)
	MinRequests     uint32        // requests before the ratio is considered (10)
	FailureRatio    float64       // trip threshold (0.6)
	IsSuccessful    func(err error) bool
	OnStateChangeFn func(name string, from, to gobreaker.State)
}

// Breaker is a named circuit breaker around calls returning T.
type Breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// NewBreaker creates a breaker and initialises its metrics.
func NewBreaker[T any](name string, s BreakerSettings) *Breaker[T] {
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.Interval == 0 {
		s.Interval = time.Minute
	}
	if s.Timeout == 0 {
		s.Timeout = 2 * time.Minute
	}
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}

	isSuccessful := s.IsSuccessful
	if isSuccessful == nil {
		isSuccessful = func(err error) bool { return err == nil }
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:         name,
		MaxRequests:  s.MaxRequests,
		Interval:     s.Interval,
		Timeout:      s.Timeout,
		IsSuccessful: func(err error) bool {
			return IsAbandoned(err) || isSuccessful(err)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := StateString(from), StateString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
			if s.OnStateChangeFn != nil {
				s.OnStateChangeFn(name, from, to)
			}
		},
	})
	return &Breaker[T]{cb: cb, name: name}
}

// Name returns the breaker name.
func (b *Breaker[T]) Name() string { return b.name }

// State returns the current state.
func (b *Breaker[T]) State() gobreaker.State { return b.cb.State() }

// Execute runs fn through the breaker.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		switch {
		case IsRejected(err):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Debug().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		case IsAbandoned(err):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "abandoned").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return result, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// ExecuteContext runs fn through the breaker on behalf of a caller whose
// context may end first. A call that is already cancelled never reaches the
// breaker, and a failure that coincides with the caller's context ending is
// returned as abandoned and not held against the upstream. Deadlines fn
// derives for itself still count.
func (b *Breaker[T]) ExecuteContext(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "abandoned").Inc()
		return zero, Abandoned(err)
	}
	return b.Execute(func() (T, error) {
		result, err := fn(ctx)
		if err != nil && ctx.Err() != nil {
			return result, Abandoned(err)
		}
		return result, err
	})
}

type abandonedError struct{ err error }

func (e *abandonedError) Error() string { return "call abandoned: " + e.err.Error() }

func (e *abandonedError) Unwrap() error { return e.err }

// Abandoned marks err as caused by the caller going away.
func Abandoned(err error) error {
	if err == nil || IsAbandoned(err) {
		return err
	}
	return &abandonedError{err: err}
}

// IsAbandoned reports whether err was marked by Abandoned.
func IsAbandoned(err error) bool {
	var a *abandonedError
	return errors.As(err, &a)
}

// IsRejected reports whether err came from the breaker itself rather than
// the wrapped call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// StateString converts a breaker state for logs and metric labels.
func StateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
