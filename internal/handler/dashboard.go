package handler

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/render"
	"github.com/urbano-mdr/urbano/internal/server"
	"github.com/urbano-mdr/urbano/internal/storage"
)

const msgDashboardError = "Erro ao consultar o banco de dados."

type dashboardQuery struct {
	District  string `schema:"bairro"`
	Street    string `schema:"rua"`
	Situation string `schema:"situacao"`
	Basemap   string `schema:"basemap"`
}

// DashboardStats is the side panel of the dashboard.
type DashboardStats struct {
	Total         int
	BySituation   []render.Count
	NumSituations int
	Indicator     string
}

// DashboardView is the data of the dashboard page.
type DashboardView struct {
	Error             string
	Districts         []string
	Streets           []string
	Situations        []string
	SelectedDistrict  string
	SelectedStreet    string
	SelectedSituation string
	Basemap           string
	Basemaps          []render.BaseLayer
	Stats             DashboardStats
	Map               *render.PointMap
}

// indicator is the headline sentence of the side panel.
func indicator(f storage.Filter, total, situations int) string {
	switch {
	case f.Situation != "":
		return fmt.Sprintf("%d registro(s) da situação '%s'", total, f.Situation)
	case f.District != "" && f.Street == "":
		return fmt.Sprintf("%d registro(s) em '%s' • Situações distintas: %d", total, f.District, situations)
	default:
		return fmt.Sprintf("%d registro(s) filtrado(s)", total)
	}
}

func dashboardStats(f storage.Filter, points []storage.ReportPoint) DashboardStats {
	values := make([]string, len(points))
	for i, p := range points {
		values[i] = p.Situations
	}
	counts := render.CountValues(values)
	return DashboardStats{
		Total:         len(points),
		BySituation:   counts,
		NumSituations: len(counts),
		Indicator:     indicator(f, len(points), len(counts)),
	}
}

// Dashboard renders the filtered report map with its option lists.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := dashboardQuery{}
	if err := server.DecodeValues(&q, r.URL.Query(), true); err != nil {
		logging.Warn(ctx, err, nil, "invalid dashboard query")
	}
	if !slices.Contains(render.BaseLayerKeys(), q.Basemap) {
		q.Basemap = render.DefaultBaseLayer
	}
	f := storage.Filter{
		District:  strings.TrimSpace(q.District),
		Street:    strings.TrimSpace(q.Street),
		Situation: strings.TrimSpace(q.Situation),
	}
	view := DashboardView{
		SelectedDistrict:  f.District,
		SelectedStreet:    f.Street,
		SelectedSituation: f.Situation,
		Basemap:           q.Basemap,
		Basemaps:          render.BaseLayers(""),
	}

	points, err := h.storage.ReportPoints(ctx, f)
	if err == nil {
		view.Districts, err = h.storage.Distinct(ctx, storage.ColumnDistrict, storage.Filter{})
	}
	if err == nil {
		view.Streets, err = h.storage.Distinct(ctx, storage.ColumnStreet, storage.Filter{District: f.District})
	}
	if err == nil {
		view.Situations, err = h.storage.Distinct(ctx, storage.ColumnSituations, storage.Filter{District: f.District, Street: f.Street})
	}
	if err != nil {
		logging.Error(ctx, err, logging.Data{"bairro": f.District, "rua": f.Street, "situacao": f.Situation}, "dashboard query failed")
		view.Error = msgDashboardError
		view.Stats = dashboardStats(f, nil)
		view.Map = render.NewPointMap(nil, false, q.Basemap)
		render.Page(ctx, w, http.StatusInternalServerError, render.DashboardPage, view)
		return
	}

	markers := make([]render.Marker, len(points))
	for i, p := range points {
		markers[i] = render.ReportMarker(p.Latitude, p.Longitude, p.District, p.Street, p.Situations)
	}
	view.Stats = dashboardStats(f, points)
	view.Map = render.NewPointMap(markers, f.Active(), q.Basemap)
	logging.Debug(ctx, logging.Data{"points": len(points)}, "dashboard rendered")
	render.Page(ctx, w, http.StatusOK, render.DashboardPage, view)
}
