package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbano-mdr/urbano/internal/render"
	"github.com/urbano-mdr/urbano/internal/server"
	"github.com/urbano-mdr/urbano/internal/storage"
	"github.com/urbano-mdr/urbano/internal/storage/mock"
)

func registerDashboard(h *Handler, s *server.Server) { h.RegisterDashboard(s) }

var dashboardPoints = []storage.ReportPoint{
	{Street: "Rua A", District: "Centro", Latitude: -2.05, Longitude: -47.55, Situations: "buraco"},
	{Street: "Rua B", District: "Centro", Latitude: -2.06, Longitude: -47.56, Situations: "lixo"},
	{Street: "Rua A", District: "Centro", Latitude: -2.07, Longitude: -47.57, Situations: "buraco"},
	{Street: "Rua C", District: "Bosque", Latitude: -2.10, Longitude: -47.60, Situations: storage.NotInformed},
}

func TestIndicator(t *testing.T) {
	tests := []struct {
		name     string
		filter   storage.Filter
		expected string
	}{
		{name: "situation", filter: storage.Filter{District: "Centro", Situation: "buraco"}, expected: "2 registro(s) da situação 'buraco'"},
		{name: "district only", filter: storage.Filter{District: "Centro"}, expected: "2 registro(s) em 'Centro' • Situações distintas: 3"},
		{name: "district and street", filter: storage.Filter{District: "Centro", Street: "Rua A"}, expected: "2 registro(s) filtrado(s)"},
		{name: "no filter", expected: "2 registro(s) filtrado(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, indicator(tt.filter, 2, 3))
		})
	}
}

func TestDashboardStats(t *testing.T) {
	stats := dashboardStats(storage.Filter{}, dashboardPoints)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.NumSituations)
	assert.Equal(t, []render.Count{
		{Name: "buraco", Value: 2},
		{Name: storage.NotInformed, Value: 1},
		{Name: "lixo", Value: 1},
	}, stats.BySituation)
	assert.Equal(t, "4 registro(s) filtrado(s)", stats.Indicator)

	empty := dashboardStats(storage.Filter{}, nil)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.BySituation)
}

func TestHandler_Dashboard(t *testing.T) {
	stg := &mock.StorageMock{
		Points: dashboardPoints,
		DistinctVals: map[string][]string{
			storage.ColumnDistrict:   {"Bosque", "Centro"},
			storage.ColumnStreet:     {"Rua A", "Rua B"},
			storage.ColumnSituations: {"buraco", "lixo"},
		},
	}
	s, _ := newTestServer(t, registerDashboard, WithStorage(stg))

	rec := get(t, s, "/?bairro=Centro&basemap=satellite")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h2>3</h2>")
	assert.Contains(t, body, "3 registro(s) em &#39;Centro&#39; • Situações distintas: 2")
	assert.Contains(t, body, `<option value="Centro" selected>Centro</option>`)
	assert.Contains(t, body, `<option value="satellite" selected>`)
	assert.Contains(t, body, "Rua B")
	assert.NotContains(t, body, "Bosque</td>")

	require.Len(t, stg.CalledFilters, 1)
	assert.Equal(t, storage.Filter{District: "Centro"}, stg.CalledFilters[0])
	assert.Equal(t, storage.Filter{}, stg.DistinctCalls[storage.ColumnDistrict])
	assert.Equal(t, storage.Filter{District: "Centro"}, stg.DistinctCalls[storage.ColumnStreet])
	assert.Equal(t, storage.Filter{District: "Centro"}, stg.DistinctCalls[storage.ColumnSituations])
}

func TestHandler_DashboardInvalidBasemap(t *testing.T) {
	s, _ := newTestServer(t, registerDashboard, WithStorage(&mock.StorageMock{}))
	rec := get(t, s, "/?basemap=dark")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="osm" selected>`)
	assert.Contains(t, rec.Body.String(), "0 registro(s) filtrado(s)")
}

func TestHandler_DashboardStorageError(t *testing.T) {
	s, _ := newTestServer(t, registerDashboard, WithStorage(&mock.StorageMock{Err: errors.New("connection refused")}))
	rec := get(t, s, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), msgDashboardError)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
