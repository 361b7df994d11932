package http

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/cleanshop/cart/internal/catalog"
	"github.com/cleanshop/cart/internal/checkout"
	"github.com/cleanshop/cart/internal/money"
	"github.com/cleanshop/cart/internal/render"
	"github.com/cleanshop/cart/internal/service"
)

//go:embed templates/page.html.tmpl
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "templates/page.html.tmpl"))

var notices = map[string]string{
	"empty":    "Cart is empty",
	"stale":    "That item is no longer in your cart",
	"price":    "That product has an invalid price",
	"missing":  "That product is not available",
	"quantity": "That quantity is too large",
	"storage":  "Your cart could not be saved, please try again",
}

type pageFrame struct {
	Items template.HTML
	Count string
	Total string
}

type productCard struct {
	ID          int64
	Name        string
	Description string
	Price       string
	ImageURL    string
}

type pageData struct {
	Products []productCard
	Primary  pageFrame
	Compact  pageFrame
	Notice   string
}

func toPageFrame(f render.Frame) pageFrame {
	// frames come out of html/template and are already escaped
	return pageFrame{Items: template.HTML(f.Items), Count: f.Count, Total: f.Total}
}

func (h *CartHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.GetAllProducts(ctx)
	if err != nil {
		h.log.Error("failed to load products", "error", err)
		http.Error(w, "products unavailable", http.StatusServiceUnavailable)
		return
	}

	data := pageData{
		Primary: toPageFrame(h.primary.Frame()),
		Compact: toPageFrame(h.compact.Frame()),
		Notice:  notices[r.URL.Query().Get("notice")],
	}
	for _, p := range products {
		data.Products = append(data.Products, productCard{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       money.Format(p.Price),
			ImageURL:    p.ImageURL,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.log.Error("failed to render page", "error", err)
	}
}

func (h *CartHandler) FormAdd(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if id, err := strconv.ParseInt(r.FormValue("product_id"), 10, 64); err == nil {
		_, err = catalog.AddToCart(ctx, h.catalog, h.cart, id)
		h.backToPage(w, r, err)
		return
	}

	err := h.cart.AddRaw(ctx, r.FormValue("name"), r.FormValue("price"), r.FormValue("image"))
	h.backToPage(w, r, err)
}

func (h *CartHandler) FormChangeQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	index, errIndex := strconv.Atoi(chi.URLParam(r, "index"))
	delta, errDelta := strconv.Atoi(r.FormValue("delta"))
	if errIndex != nil || errDelta != nil {
		h.backToPage(w, r, service.ErrInvalidIndex)
		return
	}

	h.backToPage(w, r, h.cart.ChangeQuantity(ctx, index, delta))
}

func (h *CartHandler) FormRemove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.backToPage(w, r, service.ErrInvalidIndex)
		return
	}

	h.backToPage(w, r, h.cart.Remove(ctx, index))
}

func (h *CartHandler) FormClear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.backToPage(w, r, h.cart.Clear(ctx))
}

// FormCheckout redirects the browser to the WhatsApp link.
func (h *CartHandler) FormCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	redirect := checkout.OpenerFunc(func(_ context.Context, link string) error {
		http.Redirect(w, r, link, http.StatusSeeOther)
		return nil
	})

	order, err := h.checkout.Checkout(ctx, r.UserAgent(), redirect)
	if err != nil && order == nil {
		h.backToPage(w, r, err)
	}
}

func (h *CartHandler) backToPage(w http.ResponseWriter, r *http.Request, err error) {
	target := "/"
	if err != nil {
		target += "?notice=" + noticeFor(err)
		status, _ := classifyError(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("cart form failed", "path", r.URL.Path, "error", err)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return "empty"
	case errors.Is(err, service.ErrInvalidIndex):
		return "stale"
	case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidName):
		return "price"
	case errors.Is(err, catalog.ErrProductNotFound):
		return "missing"
	case errors.Is(err, service.ErrInvalidQuantity):
		return "quantity"
	default:
		return "storage"
	}
}
