package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/render"
	"github.com/urbano-mdr/urbano/internal/server"
	"github.com/urbano-mdr/urbano/internal/water"
)

const msgNoPolygons = "⚠️ Nenhum polígono encontrado para os filtros selecionados."

var waterTooltips = []render.TooltipField{
	{Property: water.PropArea, Alias: "Área:"},
	{Property: water.PropDistrict, Alias: "Bairro:"},
}

// WaterView is the data of the water dashboard page.
type WaterView struct {
	Error             string
	Areas             []string
	AreaSelected      string
	Districts         []string
	DistrictsSelected []string
	Households        string
	Population        string
	Charts            []*render.Chart
	Map               *render.AreaMap
	MapWarning        string
}

// WaterDashboard renders the survey KPIs, pies and polygon map.
func (h *Handler) WaterDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ds, err := h.water.Dataset(ctx)
	if err != nil {
		msg := err.Error()
		var le *water.LoadError
		if !errors.As(err, &le) {
			msg = "Erro ao carregar os dados: " + msg
		}
		render.Page(ctx, w, http.StatusOK, render.WaterPage, WaterView{Error: msg})
		return
	}

	f := water.Filter{}
	if err := server.DecodeValues(&f, r.URL.Query(), true); err != nil {
		logging.Warn(ctx, err, nil, "invalid water query")
	}
	f.Area = strings.TrimSpace(f.Area)
	if f.Area == "" {
		f.Area = water.AllAreas
	}

	rows := ds.Select(f)
	households, population := water.Totals(rows)
	view := WaterView{
		Areas:             ds.Areas(),
		AreaSelected:      f.Area,
		Districts:         ds.DistrictsFor(f.Area),
		DistrictsSelected: f.Districts,
		Households:        render.FormatInt(households),
		Population:        render.FormatInt(population),
	}
	for _, q := range water.Questions {
		c, err := render.PieChart(q.Title, water.Labels(rows, q.Property))
		if err != nil {
			logging.Error(ctx, err, logging.Data{"question": q.Key}, "failed to render chart")
			continue
		}
		view.Charts = append(view.Charts, c)
	}
	view.Map = render.NewAreaMap(ds.SelectCollection(f), waterTooltips)
	if view.Map == nil {
		view.MapWarning = msgNoPolygons
	}
	render.Page(ctx, w, http.StatusOK, render.WaterPage, view)
}
