package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/cleanshop/cart/internal/domain"
	"github.com/cleanshop/cart/internal/repository"
	"github.com/cleanshop/cart/pkg/config"
)

// Observer is a render target. Render is called with the store lock held
// and must not call back into CartStore.
type Observer interface {
	Render(snapshot domain.Snapshot)
}

type ObserverFunc func(snapshot domain.Snapshot)

func (f ObserverFunc) Render(snapshot domain.Snapshot) { f(snapshot) }

type subscription struct {
	id       int
	observer Observer
}

// CartStore owns the ordered cart. Every mutation is computed on a copy,
// written to the slot and only then committed and broadcast, so storage and
// memory never disagree after a returned call.
type CartStore struct {
	mu      sync.RWMutex
	slot    repository.Slot
	key     string
	log     *slog.Logger
	entries []domain.CartEntry

	subs   []subscription
	nextID int
}

type Option func(*CartStore)

// WithKey overrides the storage key, config.DefaultStorageKey by default.
func WithKey(key string) Option {
	return func(s *CartStore) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *CartStore) {
		if log != nil {
			s.log = log
		}
	}
}

// NewCartStore restores the cart from slot. A missing or unreadable value
// starts an empty cart; only slot I/O failures are returned.
func NewCartStore(ctx context.Context, slot repository.Slot, opts ...Option) (*CartStore, error) {
	s := &CartStore{
		slot: slot,
		key:  config.DefaultStorageKey,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := slot.Load(ctx, s.key)
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		s.log.Debug("no stored cart, starting empty", "key", s.key)
		return s, nil
	case err != nil:
		return nil, errors.Wrap(err, "load cart")
	}

	entries, err := unmarshalEntries(data, s.log)
	if err != nil {
		s.log.Warn("stored cart is malformed, starting empty", "key", s.key, "error", err)
		return s, nil
	}

	s.entries = entries
	s.log.Info("cart restored", "key", s.key, "entries", len(entries))
	return s, nil
}

// Add puts one unit of name in the cart. An existing entry keeps its first
// seen price and image.
func (s *CartStore) Add(ctx context.Context, name string, price decimal.Decimal, image string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if price.IsNegative() {
		return errors.Wrapf(ErrInvalidPrice, "negative price %s", price)
	}

	return s.mutate(ctx, "add", func(entries []domain.CartEntry) ([]domain.CartEntry, error) {
		for i := range entries {
			if entries[i].Name != name {
				continue
			}
			if !entries[i].Price.Equal(price) {
				s.log.Warn("price differs from cart entry, keeping first seen price",
					"name", name, "cart_price", entries[i].Price.String(), "incoming_price", price.String())
			}
			if entries[i].Quantity == math.MaxInt {
				return nil, errors.Wrapf(ErrInvalidQuantity, "quantity of %q is at its limit", name)
			}
			entries[i].Quantity++
			return entries, nil
		}

		return append(entries, domain.CartEntry{
			Name:     name,
			Price:    price,
			Quantity: 1,
			Image:    image,
		}), nil
	})
}

// AddRaw is Add for untyped input such as form values or product card
// attributes.
func (s *CartStore) AddRaw(ctx context.Context, name, rawPrice, image string) error {
	price, err := ParsePrice(rawPrice)
	if err != nil {
		return err
	}
	return s.Add(ctx, name, price, image)
}

// ChangeQuantity adds delta to the entry at index and drops it when the
// result is not positive.
func (s *CartStore) ChangeQuantity(ctx context.Context, index, delta int) error {
	return s.mutate(ctx, "change_quantity", func(entries []domain.CartEntry) ([]domain.CartEntry, error) {
		if err := checkIndex(index, len(entries)); err != nil {
			return nil, err
		}

		q := entries[index].Quantity
		if delta > 0 && q > math.MaxInt-delta {
			return nil, errors.Wrapf(ErrInvalidQuantity, "quantity %d + %d overflows", q, delta)
		}
		entries[index].Quantity = q + delta
		if entries[index].Quantity <= 0 {
			return append(entries[:index], entries[index+1:]...), nil
		}
		return entries, nil
	})
}

func (s *CartStore) Remove(ctx context.Context, index int) error {
	return s.mutate(ctx, "remove", func(entries []domain.CartEntry) ([]domain.CartEntry, error) {
		if err := checkIndex(index, len(entries)); err != nil {
			return nil, err
		}
		return append(entries[:index], entries[index+1:]...), nil
	})
}

func (s *CartStore) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", func([]domain.CartEntry) ([]domain.CartEntry, error) {
		return nil, nil
	})
}

// RemoveOrdered takes the ordered quantities out of the cart and leaves
// anything added after the order was taken. Entries whose quantity drops to
// zero are removed.
func (s *CartStore) RemoveOrdered(ctx context.Context, ordered []domain.CartEntry) error {
	return s.mutate(ctx, "remove_ordered", func(entries []domain.CartEntry) ([]domain.CartEntry, error) {
		taken := make(map[string]int, len(ordered))
		for _, o := range ordered {
			taken[o.Name] += o.Quantity
		}

		kept := entries[:0]
		for _, e := range entries {
			e.Quantity -= taken[e.Name]
			if e.Quantity > 0 {
				kept = append(kept, e)
			}
		}
		return kept, nil
	})
}

func (s *CartStore) Totals() domain.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ComputeTotals(s.entries)
}

func (s *CartStore) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewSnapshot(s.entries)
}

// Persist writes the current cart to the slot without mutating it.
func (s *CartStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist(ctx, s.entries)
}

// Subscribe registers o and renders the current cart to it once. The
// returned func removes the registration.
func (s *CartStore) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, observer: o})
	o.Render(domain.NewSnapshot(s.entries))

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *CartStore) mutate(ctx context.Context, op string, apply func([]domain.CartEntry) ([]domain.CartEntry, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := apply(domain.CloneEntries(s.entries))
	if err != nil {
		if errors.Is(err, ErrInvalidIndex) {
			s.log.Warn("ignoring cart operation on stale reference", "op", op, "error", err)
		}
		return err
	}
	if !countFits(next) {
		return errors.Wrap(ErrInvalidQuantity, "cart item count overflows")
	}

	if err := s.persist(ctx, next); err != nil {
		s.log.Error("cart operation not applied", "op", op, "error", err)
		return err
	}

	s.entries = next
	snapshot := domain.NewSnapshot(next)
	for _, sub := range s.subs {
		sub.observer.Render(snapshot)
	}

	s.log.Debug("cart updated", "op", op, "entries", len(next), "count", snapshot.Totals.Count)
	return nil
}

// persist keeps both ErrPersist and the slot error matchable with errors.Is,
// hence fmt.Errorf with two %w verbs.
func (s *CartStore) persist(ctx context.Context, entries []domain.CartEntry) error {
	data, err := marshalEntries(entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.slot.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return errors.Wrapf(ErrInvalidIndex, "index %d out of range [0,%d)", index, length)
	}
	return nil
}

func countFits(entries []domain.CartEntry) bool {
	total := 0
	for _, e := range entries {
		if e.Quantity > math.MaxInt-total {
			return false
		}
		total += e.Quantity
	}
	return true
}
