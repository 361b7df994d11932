package checkout

import "github.com/go-faster/errors"

var ErrEmptyCart = errors.New("cart is empty")
