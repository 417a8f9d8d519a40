package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/pageza/soyummy/backend/internal/logger"
)

// BreakerSettings tunes the circuit breaker in front of the media host.
type BreakerSettings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{FailureThreshold: 5, OpenTimeout: 30 * time.Second}
}

// BreakerStore stops calling a failing media host until it recovers.
type BreakerStore struct {
	next ImageStore
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerStore(next ImageStore, settings BreakerSettings) *BreakerStore {
	log := logger.Named("storage")
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "media-upload",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerStore{next: next, cb: cb}
}

func (s *BreakerStore) Upload(ctx context.Context, folder string, file File) (string, error) {
	url, err := s.cb.Execute(func() (string, error) {
		return s.next.Upload(ctx, folder, file)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return url, err
}

// State exposes the breaker state for health reporting.
func (s *BreakerStore) State() string {
	return s.cb.State().String()
}
