package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/jackc/pgtype"
	shopspring "github.com/jackc/pgtype/ext/shopspring-numeric"

	"github.com/urbano-mdr/urbano/internal/geo"
	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/notify"
	"github.com/urbano-mdr/urbano/internal/render"
	"github.com/urbano-mdr/urbano/internal/server"
	"github.com/urbano-mdr/urbano/internal/storage"
)

// Flash messages of the report form.
const (
	msgMissingFields   = "Por favor, preencha nome da rua, número e bairro."
	msgMissingRequired = "Por favor, preencha todos os campos obrigatórios."
	msgTooLong         = "Campos excedem o tamanho permitido: %s."
	msgTooLarge        = "Arquivo muito grande (máximo %d MB)."
	msgInvalidForm     = "Não foi possível ler o formulário."
	msgSaved           = "Solicitação enviada com sucesso!"
	msgSaveError       = "Erro ao salvar: %v"
	msgNoReports       = "Sem registros."
)

// publishTimeout bounds the event write so a broker outage does not hold
// the redirect.
const publishTimeout = 2 * time.Second

// Situation is a checkbox of the report form.
type Situation struct {
	Value string
	Label string
}

// Situations offered by the form; values are stored comma-joined.
var Situations = []Situation{
	{Value: "buraco", Label: "Buraco na via"},
	{Value: "iluminacao", Label: "Iluminação pública"},
	{Value: "calcada", Label: "Calçada danificada"},
	{Value: "esgoto", Label: "Esgoto a céu aberto"},
	{Value: "lixo", Label: "Lixo acumulado"},
	{Value: "alagamento", Label: "Alagamento"},
}

type reportForm struct {
	Street      string   `schema:"nome_rua" validate:"required,max=120"`
	Number      string   `schema:"numero" validate:"required,max=10"`
	District    string   `schema:"bairro" validate:"required,max=80"`
	Coordinates string   `schema:"coordenadas"`
	Latitude    string   `schema:"latitude"`
	Longitude   string   `schema:"longitude"`
	Situations  []string `schema:"situacao"`
}

func (f *reportForm) normalize() {
	f.Street = strings.TrimSpace(f.Street)
	f.Number = strings.TrimSpace(f.Number)
	f.District = strings.TrimSpace(f.District)
	var situations []string
	for _, s := range f.Situations {
		if s = strings.TrimSpace(s); s != "" {
			situations = append(situations, s)
		}
	}
	f.Situations = situations
}

// coords prefers the combined field and falls back to the separate ones
// when it yields neither component.
func (f *reportForm) coords() (lat, lon geo.Coord) {
	lat, lon = geo.ParseCoordsCombined(f.Coordinates)
	if !lat.Valid && !lon.Valid {
		lat, lon = geo.ParseCoord(f.Latitude), geo.ParseCoord(f.Longitude)
	}
	return lat, lon
}

// FormView is the data of the report form page.
type FormView struct {
	Flashes           []Flash
	Situations        []Situation
	RequireSituations bool
	MaxUploadMB       int64
}

// ReportForm renders the form with pending flash messages.
func (h *Handler) ReportForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	render.Page(ctx, w, http.StatusOK, render.FormPage, FormView{
		Flashes:           h.popFlashes(ctx, w, r),
		Situations:        Situations,
		RequireSituations: h.requireSituations,
		MaxUploadMB:       h.maxUploadBytes >> 20,
	})
}

// validationMessage turns validator errors into the flash shown to the user.
func (h *Handler) validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidForm
	}
	var long []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			if h.requireSituations {
				return msgMissingRequired
			}
			return msgMissingFields
		}
		long = append(long, fmt.Sprintf("%s (%s)", fe.Field(), fe.Param()))
	}
	return fmt.Sprintf(msgTooLong, strings.Join(long, ", "))
}

func (h *Handler) redirectHome(ctx context.Context, w http.ResponseWriter, r *http.Request, category, msg string) {
	h.addFlash(ctx, w, r, category, msg)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SubmitReport validates the form, stores the optional photo, inserts the
// report and redirects back to the form with a flash message.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.countSubmission("invalid")
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			logging.Warn(ctx, err, logging.Data{"limit": h.maxUploadBytes}, "request too large")
			h.redirectHome(ctx, w, r, flashError, fmt.Sprintf(msgTooLarge, h.maxUploadBytes>>20))
			return
		}
		logging.Warn(ctx, err, nil, "failed to parse form")
		h.redirectHome(ctx, w, r, flashError, msgInvalidForm)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	form := reportForm{}
	if err := server.DecodeValues(&form, r.PostForm, true); err != nil {
		logging.Warn(ctx, err, nil, "failed to decode form")
		h.countSubmission("invalid")
		h.redirectHome(ctx, w, r, flashError, msgInvalidForm)
		return
	}
	form.normalize()
	if err := h.validator.Struct(form); err != nil {
		h.countSubmission("invalid")
		h.redirectHome(ctx, w, r, flashError, h.validationMessage(err))
		return
	}
	if h.requireSituations && len(form.Situations) == 0 {
		h.countSubmission("invalid")
		h.redirectHome(ctx, w, r, flashError, msgMissingRequired)
		return
	}

	report := &storage.Report{
		Street:     form.Street,
		Number:     form.Number,
		District:   form.District,
		Latitude:   shopspring.Numeric{Status: pgtype.Null},
		Longitude:  shopspring.Numeric{Status: pgtype.Null},
		PhotoPath:  pgtype.Text{Status: pgtype.Null},
		Situations: pgtype.Text{Status: pgtype.Null},
	}
	lat, lon := form.coords()
	for _, c := range []struct {
		name  string
		coord geo.Coord
		dst   *shopspring.Numeric
	}{
		{"latitude", lat, &report.Latitude},
		{"longitude", lon, &report.Longitude},
	} {
		if !c.coord.Valid {
			continue
		}
		if !c.coord.Fits() {
			logging.Warn(ctx, nil, logging.Data{c.name: c.coord.Value.String()}, "coordinate out of range, ignored")
			continue
		}
		*c.dst = shopspring.Numeric{Decimal: c.coord.Value, Status: pgtype.Present}
	}
	if len(form.Situations) > 0 {
		report.Situations = pgtype.Text{String: strings.Join(form.Situations, ","), Status: pgtype.Present}
	}

	file, header, err := r.FormFile("foto")
	switch {
	case err == nil:
		defer file.Close()
		if header.Filename != "" && allowedFile(header.Filename) {
			path, err := h.savePhoto(file, header)
			if err != nil {
				logging.Error(ctx, err, logging.Data{"filename": header.Filename}, "failed to save photo")
			} else {
				report.PhotoPath = pgtype.Text{String: path, Status: pgtype.Present}
			}
		} else {
			logging.Info(ctx, logging.Data{"filename": header.Filename}, "photo ignored, extension not allowed")
		}
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		logging.Warn(ctx, err, nil, "failed to read photo")
	}

	id, err := h.storage.CreateReport(ctx, report)
	if err != nil {
		h.countSubmission("error")
		logging.Error(ctx, err, logging.Data{"bairro": report.District}, "failed to save report")
		h.redirectHome(ctx, w, r, flashError, fmt.Sprintf(msgSaveError, err))
		return
	}
	h.countSubmission("saved")
	logging.Info(ctx, logging.Data{"id": id, "bairro": report.District}, "report submitted")
	h.publish(ctx, id, report, form.Situations)
	h.redirectHome(ctx, w, r, flashSuccess, msgSaved)
}

func (h *Handler) publish(ctx context.Context, id int64, r *storage.Report, situations []string) {
	e := notify.ReportEvent{
		EventType:   notify.EventReportSubmitted,
		ID:          id,
		Street:      r.Street,
		Number:      r.Number,
		District:    r.District,
		PhotoPath:   r.PhotoPath.String,
		Situations:  situations,
		SubmittedAt: h.clock.Now(),
	}
	if r.Latitude.Status == pgtype.Present {
		f, _ := r.Latitude.Decimal.Float64()
		e.Latitude = &f
	}
	if r.Longitude.Status == pgtype.Present {
		f, _ := r.Longitude.Decimal.Float64()
		e.Longitude = &f
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := h.publisher.Publish(pctx, e); err != nil {
		logging.Error(ctx, err, logging.Data{"id": id}, "failed to publish report event")
	}
}

// reportLine formats a report for the plain listing.
func reportLine(r storage.Report) string {
	loc := "-"
	if r.HasLocation() {
		loc = r.Latitude.Decimal.StringFixed(geo.CoordPlaces) + "," + r.Longitude.Decimal.StringFixed(geo.CoordPlaces)
	}
	photo := "-"
	if r.PhotoPath.Status == pgtype.Present && r.PhotoPath.String != "" {
		photo = r.PhotoPath.String
	}
	situations := "-"
	if r.Situations.Status == pgtype.Present && r.Situations.String != "" {
		situations = r.Situations.String
	}
	return fmt.Sprintf("%d - %s, %s - %s | loc: %s | foto: %s | situações: %s",
		r.ID, r.Street, r.Number, r.District, loc, photo, situations)
}

// ListReports writes every report, newest first, one per line.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reports, err := h.storage.ListReports(ctx)
	if err != nil {
		logging.Error(ctx, err, nil, "failed to list reports")
		http.Error(w, errInternal.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if len(reports) == 0 {
		fmt.Fprint(w, msgNoReports)
		return
	}
	lines := make([]string, len(reports))
	for i, rep := range reports {
		lines[i] = html.EscapeString(reportLine(rep))
	}
	fmt.Fprint(w, strings.Join(lines, "<br>"))
}

// DebugEncoding reports the encodings negotiated with the database.
func (h *Handler) DebugEncoding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.storage.Diagnostics(ctx)
	if err != nil {
		logging.Error(ctx, err, nil, "failed to read diagnostics")
		http.Error(w, errInternal.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "db=%s, client_encoding=%s, server_encoding=%s, lc_messages=%s, forced=%s",
		d.Database, d.ClientEncoding, d.ServerEncoding, d.LCMessages, d.Forced)
}
