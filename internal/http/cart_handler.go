package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/cleanshop/cart/internal/catalog"
	"github.com/cleanshop/cart/internal/checkout"
	"github.com/cleanshop/cart/internal/domain"
	"github.com/cleanshop/cart/internal/money"
	"github.com/cleanshop/cart/internal/render"
	"github.com/cleanshop/cart/internal/service"
)

type CartStore interface {
	Add(ctx context.Context, name string, price decimal.Decimal, image string) error
	AddRaw(ctx context.Context, name, rawPrice, image string) error
	ChangeQuantity(ctx context.Context, index, delta int) error
	Remove(ctx context.Context, index int) error
	Clear(ctx context.Context) error
	Snapshot() domain.Snapshot
}

type Catalog interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type Checkout interface {
	Checkout(ctx context.Context, userAgent string, opener checkout.Opener) (*checkout.Order, error)
}

type CartHandler struct {
	cart     CartStore
	catalog  Catalog
	checkout Checkout
	primary  *render.View
	compact  *render.View
	timeout  time.Duration
	log      *slog.Logger
}

func NewCartHandler(cart CartStore, products Catalog, co Checkout, primary, compact *render.View, timeout time.Duration, log *slog.Logger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		catalog:  products,
		checkout: co,
		primary:  primary,
		compact:  compact,
		timeout:  timeout,
		log:      log,
	}
}

type AddItemRequestDTO struct {
	ProductID int64           `json:"product_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Price     json.RawMessage `json:"price,omitempty"`
	Image     string          `json:"image,omitempty"`
}

type ChangeQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type CartItemDTO struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"qty"`
	Image     string `json:"image"`
	LineTotal string `json:"line_total"`
}

type CartResponseDTO struct {
	Items          []CartItemDTO `json:"items"`
	Count          int           `json:"count"`
	Total          string        `json:"total"`
	FormattedTotal string        `json:"formatted_total"`
}

type CheckoutResponseDTO struct {
	OrderID string `json:"order_id"`
	Device  string `json:"device"`
	Link    string `json:"link"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCartResponse(h.cart.Snapshot()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var err error
	switch {
	case req.ProductID > 0:
		_, err = catalog.AddToCart(ctx, h.catalog, h.cart, req.ProductID)
	case req.Name != "":
		var raw string
		raw, err = rawPrice(req.Price)
		if err == nil {
			err = h.cart.AddRaw(ctx, req.Name, raw, req.Image)
		}
	default:
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id or name is required")
		return
	}
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartResponse(h.cart.Snapshot()))
}

func (h *CartHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	var req ChangeQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.cart.ChangeQuantity(ctx, index, req.Delta); err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(h.cart.Snapshot()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	if err := h.cart.Remove(ctx, index); err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(h.cart.Snapshot()))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.Clear(ctx); err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(h.cart.Snapshot()))
}

// Checkout returns the link for the client to open.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	noop := checkout.OpenerFunc(func(context.Context, string) error { return nil })
	order, err := h.checkout.Checkout(ctx, r.UserAgent(), noop)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		OrderID: order.ID,
		Device:  string(order.Device),
		Link:    order.Link,
		Message: order.Message,
	})
}

func (h *CartHandler) handleError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("cart request failed", "error", err)
	}
	respondError(w, status, code, err.Error())
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidPrice):
		return http.StatusBadRequest, "invalid_price"
	case errors.Is(err, service.ErrInvalidName):
		return http.StatusBadRequest, "invalid_name"
	case errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, service.ErrInvalidIndex):
		return http.StatusNotFound, "invalid_reference"
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound, "product_not_found"
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusConflict, "empty_cart"
	case errors.Is(err, service.ErrPersist):
		return http.StatusServiceUnavailable, "storage_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return 0, false
	}
	return index, true
}

// rawPrice accepts both 1500 and "1,500".
func rawPrice(msg json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(msg))
	if s == "" || s == "null" {
		return "", errors.Wrap(service.ErrInvalidPrice, "price is required")
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(msg, &str); err != nil {
			return "", errors.Wrap(service.ErrInvalidPrice, "price is not a string")
		}
		return str, nil
	}
	return s, nil
}

func toCartResponse(s domain.Snapshot) CartResponseDTO {
	items := make([]CartItemDTO, 0, len(s.Entries))
	for i, e := range s.Entries {
		items = append(items, CartItemDTO{
			Index:     i,
			Name:      e.Name,
			Price:     e.Price.String(),
			Quantity:  e.Quantity,
			Image:     e.Image,
			LineTotal: e.LineTotal().String(),
		})
	}
	return CartResponseDTO{
		Items:          items,
		Count:          s.Totals.Count,
		Total:          s.Totals.Total.String(),
		FormattedTotal: money.Format(s.Totals.Total),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
