// Package render turns handler results into HTML: page templates, pie
// charts and Leaflet maps.
package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/urbano-mdr/urbano/internal/logging"
)

// Page template names.
const (
	FormPage      = "formulario.html"
	DashboardPage = "dashboard.html"
	RainfallPage  = "index.html"
	WaterPage     = "index_agua.html"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"formatInt": FormatInt,
	"contains":  contains,
}).ParseFS(templateFS, "templates/*.html"))

// Page renders the named template. Output is buffered so a template error
// still yields a clean 500.
func Page(ctx context.Context, w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Error(ctx, err, logging.Data{"template": name}, "failed to render page")
		http.Error(w, "Erro interno do servidor", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Error(ctx, err, logging.Data{"template": name}, "failed to write page")
	}
}

// FormatInt truncates n and groups thousands with dots, e.g. 1234567 to
// "1.234.567".
func FormatInt(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatInt(int64(n), 10)
	var b strings.Builder
	if strings.HasPrefix(s, "-") {
		b.WriteByte('-')
		s = s[1:]
	}
	pre := len(s) % 3
	if pre == 0 {
		pre = 3
	}
	b.WriteString(s[:pre])
	for i := pre; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
