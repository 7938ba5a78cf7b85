// Package web embeds and renders the HTML templates served by the application
package web

import (
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames lists every page template combined with the shared layout
var pageNames = []string{"index", "register", "login", "add-cafe"}

// funcs are the helpers available inside templates
var funcs = template.FuncMap{
	"gravatar": GravatarURL,
}

// GravatarURL returns the gravatar image URL for an email
// (100px, G rated, retro fallback)
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=100&d=retro&r=g", hex.EncodeToString(sum[:]))
}

// Templates holds the parsed page templates
type Templates struct {
	pages map[string]*template.Template
}

// New parses the embedded templates, each page paired with the layout
func New() (*Templates, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Templates{pages: pages}, nil
}

// Render executes the named page template into w
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
