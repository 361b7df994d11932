package render

import (
	"embed"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templates embed.FS

const (
	PrimaryName = "primary"
	CompactName = "compact"
)

// PrimaryHTML is the full cart drawer on the storefront page.
func PrimaryHTML(log *slog.Logger) *View {
	return NewHTMLView(PrimaryName, htmltemplate.Must(htmltemplate.ParseFS(templates, "templates/primary.html.tmpl")), log)
}

// CompactHTML is the small-screen drawer.
func CompactHTML(log *slog.Logger) *View {
	return NewHTMLView(CompactName, htmltemplate.Must(htmltemplate.ParseFS(templates, "templates/compact.html.tmpl")), log)
}

func PrimaryText(log *slog.Logger) *View {
	return NewTextView(PrimaryName, texttemplate.Must(texttemplate.ParseFS(templates, "templates/primary.txt.tmpl")), log)
}

func CompactText(log *slog.Logger) *View {
	return NewTextView(CompactName, texttemplate.Must(texttemplate.ParseFS(templates, "templates/compact.txt.tmpl")), log)
}
