package service

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/cleanshop/cart/internal/domain"
)

// storedEntry is the persisted shape, shared with the storefront scripts:
// [{"name":"Shirt","price":1000,"qty":1,"image":"..."}]
type storedEntry struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
	Qty   int         `json:"qty"`
	Image string      `json:"image"`
}

func marshalEntries(entries []domain.CartEntry) ([]byte, error) {
	stored := make([]storedEntry, 0, len(entries))
	for _, e := range entries {
		stored = append(stored, storedEntry{
			Name:  e.Name,
			Price: json.Number(e.Price.String()),
			Qty:   e.Quantity,
			Image: e.Image,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrap(err, "marshal cart")
	}
	return data, nil
}

// unmarshalEntries parses a persisted cart. A value that is not a JSON array
// is an error; individual entries that fail to parse or break a cart
// invariant are dropped, and duplicate names are merged into the first one.
func unmarshalEntries(data []byte, log *slog.Logger) ([]domain.CartEntry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "unmarshal cart")
	}

	entries := make([]domain.CartEntry, 0, len(raw))
	byName := make(map[string]int, len(raw))

	for i, msg := range raw {
		var se storedEntry
		if err := json.Unmarshal(msg, &se); err != nil {
			log.Warn("dropping unreadable cart entry", "position", i, "error", err)
			continue
		}

		price, err := decimal.NewFromString(string(se.Price))
		switch {
		case strings.TrimSpace(se.Name) == "":
			log.Warn("dropping cart entry without name", "position", i)
			continue
		case err != nil || price.IsNegative():
			log.Warn("dropping cart entry with invalid price", "position", i, "name", se.Name, "price", string(se.Price))
			continue
		case se.Qty < 1:
			log.Warn("dropping cart entry with non-positive quantity", "position", i, "name", se.Name, "qty", se.Qty)
			continue
		}

		if at, ok := byName[se.Name]; ok {
			entries[at].Quantity += se.Qty
			continue
		}
		byName[se.Name] = len(entries)
		entries = append(entries, domain.CartEntry{
			Name:     se.Name,
			Price:    price,
			Quantity: se.Qty,
			Image:    se.Image,
		})
	}

	return entries, nil
}

// ParsePrice coerces a numeric-like string such as "1,500", " 999.99 " or
// "₦2000" to a price. Anything that is not a non-negative finite number is
// ErrInvalidPrice.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "₦")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.Wrapf(ErrInvalidPrice, "empty price %q", raw)
	}

	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidPrice, "price %q", raw)
	}
	if price.IsNegative() {
		return decimal.Zero, errors.Wrapf(ErrInvalidPrice, "negative price %q", raw)
	}
	return price, nil
}
