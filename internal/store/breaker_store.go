package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	perrors "github.com/abgdnv/tienda/internal/errors"
	"github.com/abgdnv/tienda/internal/store/db"
	"github.com/abgdnv/tienda/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// BreakerStore wraps a ProductStore with a circuit breaker.
// While the breaker is open every call fails fast without reaching the wrapped store.
type BreakerStore struct {
	next ProductStore
	cb   *gobreaker.TwoStepCircuitBreaker[any]
}

// NewBreakerStore decorates next with a circuit breaker configured by cfg.
func NewBreakerStore(next ProductStore, cfg config.CircuitBreakerConfig, logger *slog.Logger) *BreakerStore {
	st := gobreaker.Settings{
		Name:        "product-store-cb",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(cfg.ErrorRatePercent > 0 && total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewTwoStepCircuitBreaker[any](st),
	}
}

// State returns the current breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) FindAll(ctx context.Context) ([]db.Product, error) {
	return guard(b, func() ([]db.Product, error) {
		return b.next.FindAll(ctx)
	})
}

func (b *BreakerStore) FindByID(ctx context.Context, id int32) (*db.Product, error) {
	return guard(b, func() (*db.Product, error) {
		return b.next.FindByID(ctx, id)
	})
}

func (b *BreakerStore) Create(ctx context.Context, product *db.Product) error {
	_, err := guard(b, func() (struct{}, error) {
		return struct{}{}, b.next.Create(ctx, product)
	})
	return err
}

func (b *BreakerStore) Update(ctx context.Context, product *db.Product) error {
	_, err := guard(b, func() (struct{}, error) {
		return struct{}{}, b.next.Update(ctx, product)
	})
	return err
}

func (b *BreakerStore) DeleteByID(ctx context.Context, id int32) error {
	_, err := guard(b, func() (struct{}, error) {
		return struct{}{}, b.next.DeleteByID(ctx, id)
	})
	return err
}

// guard runs fn through the breaker and reports its outcome.
func guard[T any](b *BreakerStore, fn func() (T, error)) (T, error) {
	done, err := b.cb.Allow()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("product store unavailable: %w", err)
	}
	res, err := fn()
	done(isSuccessful(err))
	return res, err
}

// isSuccessful treats domain outcomes and caller cancellation as healthy store calls.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var notFound *perrors.NotFoundError
	return errors.As(err, &notFound) || errors.Is(err, context.Canceled)
}
