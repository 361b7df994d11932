package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sony/gobreaker/v2"

	"github.com/cleanshop/cart/pkg/circuitbreaker"
)

// BreakerSlot fails fast while the wrapped backend keeps failing.
// ErrSlotNotFound and context cancellation are not failures.
type BreakerSlot struct {
	next Slot
	cb   *gobreaker.CircuitBreaker[[]byte]
}

func NewBreakerSlot(next Slot, name string, log *slog.Logger) *BreakerSlot {
	return &BreakerSlot{
		next: next,
		cb: circuitbreaker.New[[]byte](circuitbreaker.Options{
			Name:         name,
			IsSuccessful: isBreakerSuccess,
			Logger:       log,
		}),
	}
}

func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, context.Canceled)
}

func (b *BreakerSlot) Load(ctx context.Context, key string) ([]byte, error) {
	return b.cb.Execute(func() ([]byte, error) {
		return b.next.Load(ctx, key)
	})
}

func (b *BreakerSlot) Save(ctx context.Context, key string, data []byte) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Save(ctx, key, data)
	})
	return err
}

func (b *BreakerSlot) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Delete(ctx, key)
	})
	return err
}

func (b *BreakerSlot) State() gobreaker.State {
	return b.cb.State()
}
