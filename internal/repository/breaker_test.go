package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanshop/cart/pkg/logger"
)

type failingSlot struct {
	err   error
	calls int
}

func (f *failingSlot) Load(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	return nil, f.err
}

func (f *failingSlot) Save(ctx context.Context, key string, data []byte) error {
	f.calls++
	return f.err
}

func (f *failingSlot) Delete(ctx context.Context, key string) error {
	f.calls++
	return f.err
}

func TestBreakerSlot_PassesThrough(t *testing.T) {
	testSlotContract(t, NewBreakerSlot(NewMemorySlot(), "test", logger.Discard()))
}

func TestBreakerSlot_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingSlot{err: errors.New("connection refused")}
	slot := NewBreakerSlot(inner, "test", logger.Discard())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := slot.Save(ctx, testKey, []byte(`[]`))
		require.ErrorContains(t, err, "connection refused")
	}
	assert.Equal(t, gobreaker.StateOpen, slot.State())

	err := slot.Save(ctx, testKey, []byte(`[]`))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, inner.calls)
}

func TestBreakerSlot_NotFoundDoesNotTrip(t *testing.T) {
	inner := &failingSlot{err: ErrSlotNotFound}
	slot := NewBreakerSlot(inner, "test", logger.Discard())

	for i := 0; i < 10; i++ {
		_, err := slot.Load(context.Background(), testKey)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, slot.State())
	assert.Equal(t, 10, inner.calls)
}
