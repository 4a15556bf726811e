package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around a sender.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the consecutive-failure count that trips the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns sane breaker settings for a broker link.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerSender wraps a sender with a circuit breaker so a dead broker fails
// fast instead of stalling every recipient in a scan. Failed sends are not
// recorded, so they retry on the next scan inside the window.
type BreakerSender struct {
	inner   domain.NotificationSender
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerSender wraps the given sender with a circuit breaker.
func NewBreakerSender(inner domain.NotificationSender, cfg BreakerConfig, logger *slog.Logger) *BreakerSender {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "reminder-sender",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerSender{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// Send forwards to the wrapped sender through the breaker.
func (s *BreakerSender) Send(ctx context.Context, recipient uuid.UUID, kind domain.ReminderKind, session domain.SessionContext) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.inner.Send(ctx, recipient, kind, session)
	})
	return err
}
