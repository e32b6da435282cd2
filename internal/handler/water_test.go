package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbano-mdr/urbano/internal/server"
	"github.com/urbano-mdr/urbano/internal/water"
)

const waterGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "geometry": {"type": "Polygon", "coordinates": [[[-67.80, -9.97], [-67.79, -9.97], [-67.79, -9.96], [-67.80, -9.97]]]},
     "properties": {"AREA_y": "Urbana", "BAIRRO_COM": "Centro", "N_domi": 1200, "Pop_estim1": "3500.5",
       "LABEL_Q5": "Rede pública", "LABEL_Q6": "Boa", "LABEL_Q7": "Nenhum", "LABEL_Q8": "Sim", "LABEL_Q9": "Não", "LABEL_Q10": "Não"}},
    {"type": "Feature",
     "geometry": {"type": "Polygon", "coordinates": [[[-67.82, -9.99], [-67.81, -9.99], [-67.81, -9.98], [-67.82, -9.99]]]},
     "properties": {"AREA_y": "Urbana", "BAIRRO_COM": "Bosque", "N_domi": 800, "Pop_estim1": 2100,
       "LABEL_Q5": "Poço", "LABEL_Q6": "nan", "LABEL_Q8": "Não", "LABEL_Q9": "Sim"}},
    {"type": "Feature",
     "geometry": {"type": "Polygon", "coordinates": [[[-68.00, -10.10], [-67.95, -10.10], [-67.95, -10.05], [-68.00, -10.10]]]},
     "properties": {"AREA_y": "Rural", "BAIRRO_COM": "Seringal", "N_domi": 50, "Pop_estim1": 140,
       "LABEL_Q5": "Rio", "LABEL_Q6": "Ruim", "LABEL_Q7": "Cor", "LABEL_Q8": "Sim", "LABEL_Q9": "Sim", "LABEL_Q10": "Sim"}}
  ]
}`

func newWaterServer(t *testing.T, content string) *server.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "BD_CONSUMO_AGUA_AC.geojson")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	s, _ := newTestServer(t, func(h *Handler, s *server.Server) { h.RegisterWater(s) },
		WithWater(water.NewLoader(path, nil)))
	return s
}

func TestHandler_WaterDashboard(t *testing.T) {
	tests := []struct {
		name            string
		target          string
		expectedKPIs    []string
		expectedMap     bool
		expectedWarning bool
	}{
		{
			name:         "all areas",
			target:       "/",
			expectedKPIs: []string{"<strong>2.050</strong>", "<strong>5.740</strong>"},
			expectedMap:  true,
		},
		{
			name:         "urban area",
			target:       "/?area=Urbana",
			expectedKPIs: []string{"<strong>2.000</strong>", "<strong>5.600</strong>"},
			expectedMap:  true,
		},
		{
			name:         "selected districts",
			target:       "/?area=Urbana&bairros=Bosque",
			expectedKPIs: []string{"<strong>800</strong>", "<strong>2.100</strong>"},
			expectedMap:  true,
		},
		{
			name:            "no polygons",
			target:          "/?area=Rural&bairros=Centro",
			expectedKPIs:    []string{"<strong>0</strong>"},
			expectedWarning: true,
		},
	}

	s := newWaterServer(t, waterGeoJSON)
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, kpi := range tt.expectedKPIs {
				assert.Contains(t, body, kpi)
			}
			assert.Equal(t, len(water.Questions), strings.Count(body, "<iframe"))
			assert.Equal(t, tt.expectedMap, strings.Contains(body, `id="map"`))
			assert.Equal(t, tt.expectedWarning, strings.Contains(body, msgNoPolygons))
		})
	}
}

func TestHandler_WaterDashboardDistrictOptions(t *testing.T) {
	s := newWaterServer(t, waterGeoJSON)
	body := get(t, s, "/?area=Rural").Body.String()
	assert.Contains(t, body, `<option value="Rural" selected>Rural</option>`)
	assert.Contains(t, body, `<option value="Seringal">Seringal</option>`)
	assert.NotContains(t, body, `<option value="Centro">`)
}

func TestHandler_WaterDashboardLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "missing file",
			expected: "Arquivo não encontrado: BD_CONSUMO_AGUA_AC.geojson. Coloque o BD_CONSUMO_AGUA_AC.geojson na raiz do app.",
		},
		{
			name:     "lfs pointer",
			content:  "version https://git-lfs.github.com/spec/v1\noid sha256:abc\nsize 10\n",
			expected: "Git LFS",
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			s := newWaterServer(t, tt.content)
			rec := get(t, s, "/")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expected)
			assert.NotContains(t, rec.Body.String(), "<iframe")
		})
	}
}
