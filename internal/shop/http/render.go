package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/fluffyfriend/internal/shop/domain"
	"github.com/aussiebroadwan/fluffyfriend/pkg/httpx"
	"github.com/aussiebroadwan/fluffyfriend/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

// Views holds one parsed template set per page, each wrapped in the shared
// layout.
type Views struct {
	appName string
	pages   map[string]*template.Template
}

// page is the data every template receives.
type page struct {
	AppName  string
	Title    string
	Account  *domain.Account
	Flashes  []domain.Flash
	FormData map[string]string
	Data     any
}

// Field returns a re-fill value saved from a failed submission.
func (p page) Field(name string) string {
	return p.FormData[name]
}

var templateFuncs = template.FuncMap{
	"money": domain.FormatCents,
	"safeURL": func(s string) template.URL {
		// Only QR data URLs are passed here.
		if strings.HasPrefix(s, "data:image/png;base64,") {
			return template.URL(s)
		}
		return ""
	},
}

func NewViews(appName string) (*Views, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &Views{appName: appName, pages: make(map[string]*template.Template)}
	for _, file := range files {
		name := strings.TrimPrefix(file, "templates/")
		if name == "layout.html" {
			continue
		}

		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[strings.TrimSuffix(name, ".html")] = t
	}
	return v, nil
}

// render writes page name with status 200. Pending flashes are consumed.
func (v *Views) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	v.renderStatus(w, r, http.StatusOK, name, title, data)
}

func (v *Views) renderStatus(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	t, ok := v.pages[name]
	if !ok {
		log.Error("unknown template", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p := page{AppName: v.appName, Title: title, Data: data}
	if account, ok := accountFrom(ctx); ok {
		p.Account = &account
	}
	if sess := sessionFrom(ctx); sess != nil {
		p.Flashes = sess.TakeFlashes()
		p.FormData = sess.TakeFormData()
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		log.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	httpx.WriteHTML(w, status, buf.Bytes())
}
