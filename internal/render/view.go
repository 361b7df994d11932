package render

import (
	"bytes"
	htmltemplate "html/template"
	"io"
	"log/slog"
	"sync"
	texttemplate "text/template"

	"github.com/cleanshop/cart/internal/domain"
	"github.com/cleanshop/cart/internal/money"
)

// Lookup points every view template set must define.
const (
	ItemsBlock = "items"
	CountBlock = "count"
	TotalBlock = "total"
)

// Frame is the last rendered output of a view, one string per lookup point.
type Frame struct {
	Items string
	Count string
	Total string
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// View is a render target. It satisfies service.Observer.
type View struct {
	name  string
	exec  executor
	ready bool
	log   *slog.Logger

	mu      sync.RWMutex
	frame   Frame
	renders int
}

func NewHTMLView(name string, t *htmltemplate.Template, log *slog.Logger) *View {
	return newView(name, t, log, func(block string) bool { return t.Lookup(block) != nil })
}

func NewTextView(name string, t *texttemplate.Template, log *slog.Logger) *View {
	return newView(name, t, log, func(block string) bool { return t.Lookup(block) != nil })
}

func newView(name string, exec executor, log *slog.Logger, has func(string) bool) *View {
	if log == nil {
		log = slog.Default()
	}
	v := &View{name: name, exec: exec, log: log, ready: true}

	for _, block := range []string{ItemsBlock, CountBlock, TotalBlock} {
		if !has(block) {
			v.ready = false
			log.Debug("view lookup point missing, rendering disabled", "view", name, "block", block)
		}
	}
	return v
}

func (v *View) Name() string { return v.name }

// Enabled reports whether all lookup points exist.
func (v *View) Enabled() bool { return v.ready }

func (v *View) Render(snapshot domain.Snapshot) {
	if !v.ready {
		return
	}

	data := newViewData(snapshot)
	var next Frame
	blocks := []struct {
		name string
		dst  *string
	}{
		{ItemsBlock, &next.Items},
		{CountBlock, &next.Count},
		{TotalBlock, &next.Total},
	}

	for _, b := range blocks {
		var buf bytes.Buffer
		if err := v.exec.ExecuteTemplate(&buf, b.name, data); err != nil {
			v.log.Error("view render failed, keeping previous frame", "view", v.name, "block", b.name, "error", err)
			return
		}
		*b.dst = buf.String()
	}

	v.mu.Lock()
	v.frame = next
	v.renders++
	v.mu.Unlock()
}

func (v *View) Frame() Frame {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.frame
}

// Renders counts successful renders.
func (v *View) Renders() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.renders
}

type lineData struct {
	Index     int
	Name      string
	Image     string
	Price     string
	Quantity  int
	LineTotal string
}

type viewData struct {
	Entries []lineData
	Count   int
	Total   string
	Empty   bool
}

func newViewData(s domain.Snapshot) viewData {
	lines := make([]lineData, 0, len(s.Entries))
	for i, e := range s.Entries {
		lines = append(lines, lineData{
			Index:     i,
			Name:      e.Name,
			Image:     e.Image,
			Price:     money.Format(e.Price),
			Quantity:  e.Quantity,
			LineTotal: money.Format(e.LineTotal()),
		})
	}
	return viewData{
		Entries: lines,
		Count:   s.Totals.Count,
		Total:   money.Format(s.Totals.Total),
		Empty:   len(lines) == 0,
	}
}
