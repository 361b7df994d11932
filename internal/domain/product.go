package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a storefront card; adding it to the cart copies Name, Price
// and ImageURL into a CartEntry.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	CreatedAt   time.Time
}
