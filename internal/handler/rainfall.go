package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/rainfall"
	"github.com/urbano-mdr/urbano/internal/render"
	"github.com/urbano-mdr/urbano/internal/server"
)

const msgNoFilteredData = "Nenhum dado encontrado com os filtros aplicados"

// emptyCollection is returned by /data when nothing matches.
type emptyCollection struct {
	Type     string        `json:"type"`
	Features []interface{} `json:"features"`
	Message  string        `json:"message"`
}

// RainfallView is the data of the rainfall landing page.
type RainfallView struct {
	UFs    []string
	Dates  []string
	Stats  rainfall.BasicStats
	Sample bool
}

func (h *Handler) rainfallQuery(r *http.Request) (rainfall.Query, error) {
	req, err := server.Unmarshal(r, nil)
	if err != nil {
		return rainfall.Query{}, err
	}
	q := rainfall.Query{}
	if err := req.UnmarshalQueryParams(r.Context(), &q, true); err != nil {
		return rainfall.Query{}, err
	}
	return q, nil
}

// basicFilter applies only the state and date, as the summary endpoints do.
func basicFilter(q rainfall.Query) rainfall.Filter {
	return rainfall.Filter{UF: strings.TrimSpace(q.UF), Date: strings.TrimSpace(q.Date)}
}

// RainfallIndex renders the landing page.
func (h *Handler) RainfallIndex(w http.ResponseWriter, r *http.Request) {
	render.Page(r.Context(), w, http.StatusOK, render.RainfallPage, RainfallView{
		UFs:    h.rainfall.UFs(),
		Dates:  h.rainfall.Dates(),
		Stats:  h.rainfall.BasicStats(),
		Sample: h.rainfall.IsSample(),
	})
}

// RainfallData returns the filtered records as GeoJSON points.
func (h *Handler) RainfallData(r *http.Request) (int, interface{}, error) {
	ctx := r.Context()
	q, err := h.rainfallQuery(r)
	if err != nil {
		logging.Warn(ctx, err, nil, "invalid query params")
		return server.ErrorToResponse(errBadRequest, http.StatusBadRequest)
	}
	f, errs := h.rainfall.Validate(q)
	if len(errs) > 0 {
		return server.ErrorToResponse(server.ValidationErrors(errs), http.StatusBadRequest)
	}
	records := h.rainfall.Select(f)
	if len(records) == 0 {
		return http.StatusOK, emptyCollection{
			Type:     "FeatureCollection",
			Features: []interface{}{},
			Message:  msgNoFilteredData,
		}, nil
	}
	logging.Info(ctx, logging.Data{"records": len(records)}, "rainfall data filtered")
	return http.StatusOK, rainfall.FeatureCollection(records), nil
}

// RainfallStats summarizes the records of a state and date.
func (h *Handler) RainfallStats(r *http.Request) (int, interface{}, error) {
	q, err := h.rainfallQuery(r)
	if err != nil {
		return server.ErrorToResponse(errBadRequest, http.StatusBadRequest)
	}
	s, ok := rainfall.Summarize(h.rainfall.Select(basicFilter(q)))
	if !ok {
		return server.ErrorToResponse(errNoData, http.StatusNotFound)
	}
	return http.StatusOK, s, nil
}

// RainfallTimeline aggregates the records of a state per date.
func (h *Handler) RainfallTimeline(r *http.Request) (int, interface{}, error) {
	q, err := h.rainfallQuery(r)
	if err != nil {
		return server.ErrorToResponse(errBadRequest, http.StatusBadRequest)
	}
	return http.StatusOK, rainfall.Timeline(h.rainfall.Select(rainfall.Filter{UF: strings.TrimSpace(q.UF)})), nil
}

// RainfallMunicipalities serves the municipality autocomplete.
func (h *Handler) RainfallMunicipalities(r *http.Request) (int, interface{}, error) {
	q, err := h.rainfallQuery(r)
	if err != nil {
		return http.StatusOK, []string{}, nil
	}
	return http.StatusOK, h.rainfall.Municipalities(strings.TrimSpace(q.UF), q.Term), nil
}

// RainfallHeatmap returns [lat, lon, precipitation] triples.
func (h *Handler) RainfallHeatmap(r *http.Request) (int, interface{}, error) {
	q, err := h.rainfallQuery(r)
	if err != nil {
		return http.StatusOK, [][3]float64{}, nil
	}
	return http.StatusOK, rainfall.Heatmap(h.rainfall.Select(basicFilter(q))), nil
}

// RainfallDownload exports the filtered records as CSV, JSON or xlsx.
func (h *Handler) RainfallDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := h.rainfallQuery(r)
	if err != nil {
		server.WriteJSON(w, http.StatusBadRequest, server.ErrorResponse{Error: errBadRequest.Error()})
		return
	}
	// exports filter by state, date and bounds only
	q.Municipalities = nil
	f, errs := h.rainfall.Validate(q)
	if len(errs) > 0 {
		server.WriteJSON(w, http.StatusBadRequest, server.ErrorResponse{Error: errs})
		return
	}
	records := h.rainfall.Select(f)
	if len(records) == 0 {
		server.WriteJSON(w, http.StatusNotFound, server.ErrorResponse{Error: errNoDownloadData.Error()})
		return
	}
	format := rainfall.ParseFormat(q.Format)
	var buf bytes.Buffer
	if err := rainfall.Export(&buf, format, records); err != nil {
		logging.Error(ctx, err, logging.Data{"format": string(format)}, "failed to export rainfall data")
		server.WriteJSON(w, http.StatusInternalServerError, server.ErrorResponse{Error: "Erro ao gerar download"})
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Error(ctx, err, nil, "failed to write download")
		return
	}
	logging.Info(ctx, logging.Data{"records": len(records), "format": string(format)}, "download served")
}

// NotFoundJSON answers unknown routes of the JSON API.
func NotFoundJSON(w http.ResponseWriter, _ *http.Request) {
	server.WriteJSON(w, http.StatusNotFound, server.ErrorResponse{Error: errEndpointNotFound.Error()})
}
