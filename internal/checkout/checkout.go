package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/cleanshop/cart/internal/domain"
)

const DefaultPhone = "2348163645085"

// Cart is what checkout needs from the cart store.
type Cart interface {
	Snapshot() domain.Snapshot
	RemoveOrdered(ctx context.Context, ordered []domain.CartEntry) error
}

// Opener hands the outbound link to whatever surface the shopper uses:
// a redirect in the page server, a printed link in the CLI.
type Opener interface {
	Open(ctx context.Context, link string) error
}

type OpenerFunc func(ctx context.Context, link string) error

func (f OpenerFunc) Open(ctx context.Context, link string) error { return f(ctx, link) }

type Order struct {
	ID        string
	Device    Device
	Message   string
	Link      string
	Totals    domain.Totals
	CreatedAt time.Time
}

type Service struct {
	cart       Cart
	phone      string
	clearAfter bool
	log        *slog.Logger
	now        func() time.Time
}

type Config struct {
	Phone string
	// ClearAfter takes the ordered items out of the cart once the link was
	// opened. Items added meanwhile stay.
	ClearAfter bool
}

func NewService(cart Cart, cfg Config, log *slog.Logger) *Service {
	phone := cfg.Phone
	if phone == "" {
		phone = DefaultPhone
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cart:       cart,
		phone:      phone,
		clearAfter: cfg.ClearAfter,
		log:        log,
		now:        time.Now,
	}
}

// Checkout formats the current cart and opens the WhatsApp link. An empty
// cart returns ErrEmptyCart without opening anything.
func (s *Service) Checkout(ctx context.Context, userAgent string, opener Opener) (*Order, error) {
	snapshot := s.cart.Snapshot()
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}

	device := DetectDevice(userAgent)
	message := FormatMessage(snapshot)
	order := &Order{
		ID:        uuid.NewString(),
		Device:    device,
		Message:   message,
		Link:      BuildLink(device, s.phone, message),
		Totals:    snapshot.Totals,
		CreatedAt: s.now(),
	}

	if err := opener.Open(ctx, order.Link); err != nil {
		return nil, errors.Wrap(err, "open checkout link")
	}
	s.log.Info("checkout handed off",
		"order_id", order.ID, "device", string(device),
		"items", order.Totals.Count, "total", order.Totals.Total.String())

	if s.clearAfter {
		if err := s.cart.RemoveOrdered(ctx, snapshot.Entries); err != nil {
			// the link is already open; report but keep the order
			s.log.Error("failed to clear cart after checkout", "order_id", order.ID, "error", err)
			return order, errors.Wrap(err, "clear cart after checkout")
		}
	}

	return order, nil
}
