package service

import (
	"context"
	"errors"
	"time"

	"github.com/fridgechef/backend/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
var CircuitBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "fridgechef_circuit_breaker_state",
		Help: "Circuit breaker state per AI collaborator (0 closed, 1 half-open, 2 open)",
	},
	[]string{"name"},
)

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// newBreaker opens after FailureThreshold consecutive failures. A call the
// caller abandoned does not count against the collaborator.
func newBreaker[T any](name string, cfg config.BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	maxRequests := cfg.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	CircuitBreakerState.WithLabelValues(name).Set(0)
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: maxRequests,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
