package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12, "12"},
		{999, "999"},
		{1000, "1.000"},
		{1234567, "1.234.567"},
		{1234.99, "1.234"},
		{-98765, "-98.765"},
		{-100, "-100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInt(tt.in), "%v", tt.in)
	}
}

func TestPage(t *testing.T) {
	rec := httptest.NewRecorder()
	Page(context.Background(), rec, http.StatusOK, WaterPage, map[string]interface{}{
		"Error": "Arquivo não encontrado: <x>.geojson",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Arquivo não encontrado: &lt;x&gt;.geojson")
	assert.NotContains(t, rec.Body.String(), `id="map"`)
}

func TestPageUnknownTemplate(t *testing.T) {
	rec := httptest.NewRecorder()
	Page(context.Background(), rec, http.StatusOK, "missing.html", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
