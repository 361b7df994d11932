package checkout

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanshop/cart/internal/domain"
	"github.com/cleanshop/cart/internal/repository"
	"github.com/cleanshop/cart/internal/service"
	"github.com/cleanshop/cart/pkg/logger"
)

const (
	iphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"
	androidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0"
)

type openerSpy struct {
	links []string
	err   error
}

func (o *openerSpy) Open(ctx context.Context, link string) error {
	if o.err != nil {
		return o.err
	}
	o.links = append(o.links, link)
	return nil
}

func newStore(t *testing.T, entries ...domain.CartEntry) *service.CartStore {
	t.Helper()
	store, err := service.NewCartStore(context.Background(), repository.NewMemorySlot(), service.WithLogger(logger.Discard()))
	require.NoError(t, err)
	for _, e := range entries {
		for i := 0; i < e.Quantity; i++ {
			require.NoError(t, store.Add(context.Background(), e.Name, e.Price, e.Image))
		}
	}
	return store
}

func shirtAndHat() []domain.CartEntry {
	return []domain.CartEntry{
		{Name: "Shirt", Price: decimal.NewFromInt(1000), Quantity: 2},
		{Name: "Hat", Price: decimal.NewFromInt(1500), Quantity: 1},
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	store := newStore(t)
	opener := &openerSpy{}
	svc := NewService(store, Config{}, logger.Discard())

	order, err := svc.Checkout(context.Background(), desktopUA, opener)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
	assert.Empty(t, opener.links)
}

func TestCheckout_DesktopLink(t *testing.T) {
	store := newStore(t, shirtAndHat()...)
	opener := &openerSpy{}
	svc := NewService(store, Config{Phone: "2340000000000"}, logger.Discard())

	order, err := svc.Checkout(context.Background(), desktopUA, opener)
	require.NoError(t, err)

	require.Len(t, opener.links, 1)
	assert.Equal(t, order.Link, opener.links[0])
	assert.Equal(t, DeviceDesktop, order.Device)
	_, err = uuid.Parse(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "3500", order.Totals.Total.String())

	u, err := url.Parse(order.Link)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "web.whatsapp.com", u.Host)
	assert.Equal(t, "/send", u.Path)
	assert.Equal(t, "2340000000000", u.Query().Get("phone"))
	assert.Equal(t, order.Message, u.Query().Get("text"))

	// checkout does not clear by default
	assert.Len(t, store.Snapshot().Entries, 2)
}

func TestCheckout_MobileLink(t *testing.T) {
	store := newStore(t, shirtAndHat()...)
	opener := &openerSpy{}
	svc := NewService(store, Config{}, logger.Discard())

	order, err := svc.Checkout(context.Background(), androidUA, opener)
	require.NoError(t, err)

	u, err := url.Parse(order.Link)
	require.NoError(t, err)
	assert.Equal(t, "api.whatsapp.com", u.Host)
	assert.Equal(t, DefaultPhone, u.Query().Get("phone"))
}

func TestCheckout_ClearAfter(t *testing.T) {
	store := newStore(t, shirtAndHat()...)
	svc := NewService(store, Config{ClearAfter: true}, logger.Discard())

	_, err := svc.Checkout(context.Background(), desktopUA, &openerSpy{})
	require.NoError(t, err)

	assert.Empty(t, store.Snapshot().Entries)
}

func TestCheckout_ClearAfterKeepsItemsAddedDuringCheckout(t *testing.T) {
	store := newStore(t, shirtAndHat()...)
	svc := NewService(store, Config{ClearAfter: true}, logger.Discard())

	addDuringOpen := OpenerFunc(func(ctx context.Context, link string) error {
		if err := store.Add(ctx, "Sock", decimal.NewFromInt(200), ""); err != nil {
			return err
		}
		return store.Add(ctx, "Shirt", decimal.NewFromInt(1000), "")
	})

	order, err := svc.Checkout(context.Background(), desktopUA, addDuringOpen)
	require.NoError(t, err)
	assert.NotContains(t, order.Message, "Sock")

	entries := store.Snapshot().Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "Shirt", entries[0].Name)
	assert.Equal(t, 1, entries[0].Quantity)
	assert.Equal(t, "Sock", entries[1].Name)
	assert.Equal(t, 1, entries[1].Quantity)
}

func TestCheckout_OpenerFailureKeepsCart(t *testing.T) {
	store := newStore(t, shirtAndHat()...)
	svc := NewService(store, Config{ClearAfter: true}, logger.Discard())

	_, err := svc.Checkout(context.Background(), desktopUA, &openerSpy{err: errors.New("popup blocked")})

	assert.ErrorContains(t, err, "popup blocked")
	assert.Len(t, store.Snapshot().Entries, 2)
}

func TestOpenerFunc(t *testing.T) {
	var got string
	opener := OpenerFunc(func(ctx context.Context, link string) error {
		got = link
		return nil
	})
	svc := NewService(newStore(t, shirtAndHat()...), Config{}, logger.Discard())

	order, err := svc.Checkout(context.Background(), iphoneUA, opener)
	require.NoError(t, err)
	assert.Equal(t, order.Link, got)
}

func TestFormatMessage(t *testing.T) {
	msg := FormatMessage(domain.NewSnapshot(shirtAndHat()))

	want := "🛍️ New Order:\n" +
		"• Shirt (x2) - ₦2,000\n" +
		"• Hat (x1) - ₦1,500\n" +
		"\n" +
		"Total: ₦3,500\n" +
		"Please confirm my order ✅"
	assert.Equal(t, want, msg)
}

func TestDetectDevice(t *testing.T) {
	assert.Equal(t, DeviceMobile, DetectDevice(iphoneUA))
	assert.Equal(t, DeviceMobile, DetectDevice(androidUA))
	assert.Equal(t, DeviceMobile, DetectDevice("something MOBI"))
	assert.Equal(t, DeviceDesktop, DetectDevice(desktopUA))
	assert.Equal(t, DeviceDesktop, DetectDevice(""))
}

func TestBuildLink_EscapesText(t *testing.T) {
	link := BuildLink(DeviceDesktop, "123", "a & b\nc")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "a & b\nc", u.Query().Get("text"))
	assert.NotContains(t, link, "\n")
}
