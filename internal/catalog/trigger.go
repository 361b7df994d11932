package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cleanshop/cart/internal/domain"
)

type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type CartAdder interface {
	Add(ctx context.Context, name string, price decimal.Decimal, image string) error
}

// AddToCart is the add-to-cart button of a product card: it reads the
// card's name, price and image and adds one unit to the cart.
func AddToCart(ctx context.Context, products ProductReader, cart CartAdder, productID int64) (*domain.Product, error) {
	p, err := products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(ctx, p.Name, p.Price, p.ImageURL); err != nil {
		return nil, err
	}
	return p, nil
}
