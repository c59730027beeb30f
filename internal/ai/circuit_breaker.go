package ai

import (
	"fmt"

	"o1ready/internal/config"
	"o1ready/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// Breaker wraps one category of provider call with a typed circuit breaker.
// A nil Breaker means the breaker is disabled and calls pass straight
// through.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// NewOperationBreaker builds the breaker guarding generation calls, tripping
// at the operation's configured failure ratio.
func NewOperationBreaker[T any](operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *Breaker[T] {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}
	trip := func(counts gobreaker.Counts) bool {
		ratio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= cfg.CircuitBreaker.MinRequests &&
			ratio >= cfg.CircuitBreaker.FailureThreshold
	}
	return newBreaker[T](fmt.Sprintf("AI-%s", operationType), cfg, trip, logger)
}

// NewModelBreaker builds the breaker guarding model-info lookups. Those are
// advisory, so it trips only on sustained failure.
func NewModelBreaker[T any](operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *Breaker[T] {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}
	trip := func(counts gobreaker.Counts) bool {
		ratio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 5 && ratio >= 0.8
	}
	return newBreaker[T](fmt.Sprintf("AI-Model-%s", operationType), cfg, trip, logger)
}

func newBreaker[T any](name string, cfg *config.OperationAIConfig, trip func(gobreaker.Counts) bool, logger *errors.Logger) *Breaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String())
			}
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn under the breaker, or directly when the breaker is
// disabled.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Healthy reports whether the breaker is closed (or disabled).
func (b *Breaker[T]) Healthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}

// Stats exposes breaker state for the health and stats endpoints.
func (b *Breaker[T]) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}
