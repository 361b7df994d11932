package service

import "github.com/go-faster/errors"

var (
	// ErrInvalidIndex is returned for a position outside the current cart.
	// The cart is left untouched.
	ErrInvalidIndex = errors.New("invalid cart reference")
	ErrInvalidPrice = errors.New("invalid price")
	ErrInvalidName  = errors.New("invalid product name")
	// ErrInvalidQuantity rejects a change that would overflow a quantity or
	// the cart count.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrPersist wraps slot write failures. Memory keeps the previous state.
	ErrPersist = errors.New("failed to persist cart")
)
