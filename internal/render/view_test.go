package render

import (
	"context"
	htmltemplate "html/template"
	"strings"
	"testing"
	texttemplate "text/template"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanshop/cart/internal/domain"
	"github.com/cleanshop/cart/internal/repository"
	"github.com/cleanshop/cart/internal/service"
	"github.com/cleanshop/cart/pkg/logger"
)

func sampleSnapshot() domain.Snapshot {
	return domain.NewSnapshot([]domain.CartEntry{
		{Name: "Shirt", Price: decimal.NewFromInt(1000), Quantity: 2, Image: "img/shirt.jpg"},
		{Name: "Hat <Limited>", Price: decimal.RequireFromString("1500.5"), Quantity: 1, Image: "img/hat.jpg"},
	})
}

func TestPrimaryHTML_Render(t *testing.T) {
	view := PrimaryHTML(logger.Discard())
	require.True(t, view.Enabled())

	view.Render(sampleSnapshot())
	frame := view.Frame()

	assert.Equal(t, "3", frame.Count)
	assert.Equal(t, "₦3,500.5", frame.Total)
	assert.Contains(t, frame.Items, `src="img/shirt.jpg"`)
	assert.Contains(t, frame.Items, `action="/cart/items/1/remove"`)
	assert.Contains(t, frame.Items, "₦1,500.5")
	assert.Contains(t, frame.Items, "Hat &lt;Limited&gt;")
	assert.NotContains(t, frame.Items, "<Limited>")
}

func TestPrimaryHTML_Empty(t *testing.T) {
	view := PrimaryHTML(logger.Discard())

	view.Render(domain.NewSnapshot(nil))

	assert.Contains(t, view.Frame().Items, "Your cart is empty")
	assert.Equal(t, "0", view.Frame().Count)
	assert.Equal(t, "₦0", view.Frame().Total)
}

func TestCompactText_Render(t *testing.T) {
	view := CompactText(logger.Discard())

	view.Render(sampleSnapshot())

	assert.Equal(t, "Shirt x2, Hat <Limited> x1", view.Frame().Items)
	assert.Equal(t, "3", view.Frame().Count)
}

func TestPrimaryText_Render(t *testing.T) {
	view := PrimaryText(logger.Discard())

	view.Render(sampleSnapshot())

	lines := strings.Split(strings.TrimSpace(view.Frame().Items), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[0] Shirt  ₦1,000 x2 = ₦2,000", lines[0])
}

func TestView_MissingLookupPointIsNoop(t *testing.T) {
	tmpl := htmltemplate.Must(htmltemplate.New("partial").Parse(`{{define "items"}}x{{end}}{{define "count"}}{{.Count}}{{end}}`))
	view := NewHTMLView("partial", tmpl, logger.Discard())

	view.Render(sampleSnapshot())

	assert.False(t, view.Enabled())
	assert.Equal(t, Frame{}, view.Frame())
	assert.Equal(t, 0, view.Renders())
}

func TestView_ExecutionErrorKeepsPreviousFrame(t *testing.T) {
	tmpl := texttemplate.Must(texttemplate.New("broken").Parse(
		`{{define "items"}}{{range .Entries}}{{.Name}}{{end}}{{end}}{{define "count"}}{{.Count}}{{end}}{{define "total"}}{{if .Empty}}{{.Missing}}{{end}}{{.Total}}{{end}}`))
	view := NewTextView("broken", tmpl, logger.Discard())

	view.Render(sampleSnapshot())
	before := view.Frame()
	view.Render(domain.NewSnapshot(nil))

	assert.Equal(t, before, view.Frame())
	assert.Equal(t, 1, view.Renders())
}

func TestViews_StayInSyncWithStore(t *testing.T) {
	store, err := service.NewCartStore(context.Background(), repository.NewMemorySlot(), service.WithLogger(logger.Discard()))
	require.NoError(t, err)
	primary, compact := PrimaryHTML(logger.Discard()), CompactHTML(logger.Discard())
	store.Subscribe(primary)
	store.Subscribe(compact)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "Shirt", decimal.NewFromInt(1000), "img1"))
	require.NoError(t, store.Add(ctx, "Shirt", decimal.NewFromInt(1000), "img1"))
	require.NoError(t, store.Add(ctx, "Hat", decimal.NewFromInt(500), "img2"))

	assert.Equal(t, "3", primary.Frame().Count)
	assert.Equal(t, primary.Frame().Count, compact.Frame().Count)
	assert.Equal(t, "₦2,500", compact.Frame().Total)
	assert.Equal(t, primary.Frame().Total, compact.Frame().Total)
	assert.Equal(t, 4, primary.Renders())
	assert.Equal(t, 4, compact.Renders())
}
