package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/buntdb"
)

// BuntSlot stores the cart in a BuntDB file, the on-disk counterpart of the
// browser's localStorage. Path ":memory:" keeps it in memory.
type BuntSlot struct {
	db *buntdb.DB
}

func OpenBuntSlot(path string) (*BuntSlot, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb %s: %w", path, err)
	}
	return &BuntSlot{db: db}, nil
}

func (b *BuntSlot) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value string
	err := b.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("buntdb get failed: %w", err)
	}

	return []byte(value), nil
}

func (b *BuntSlot) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(data), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("buntdb set failed: %w", err)
	}
	return nil
}

func (b *BuntSlot) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("buntdb delete failed: %w", err)
	}
	return nil
}

func (b *BuntSlot) Close() error {
	return b.db.Close()
}
