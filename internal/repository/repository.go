package repository

import (
	"context"
	"errors"
)

var ErrSlotNotFound = errors.New("slot not found")

// Slot is a single-key durable value store holding the serialized cart.
// Consumers depend on this interface, not on a concrete backend.
type Slot interface {
	// Load returns ErrSlotNotFound when nothing is stored under key.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the whole value under key in one write.
	Save(ctx context.Context, key string, data []byte) error
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
}
