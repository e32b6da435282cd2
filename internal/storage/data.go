package storage

import (
	"github.com/jackc/pgtype"
	shopspring "github.com/jackc/pgtype/ext/shopspring-numeric"
)

// Column names usable in filters and distinct lookups.
const (
	ColumnDistrict   = "bairro"
	ColumnStreet     = "nome_rua"
	ColumnSituations = "situacoes"
)

// NotInformed replaces missing situations in dashboards.
const NotInformed = "Não informado"

// Report is one citizen request row.
type Report struct {
	ID         int64              `db:"id"`
	Street     string             `db:"nome_rua"`
	Number     string             `db:"numero"`
	District   string             `db:"bairro"`
	Latitude   shopspring.Numeric `db:"latitude"`
	Longitude  shopspring.Numeric `db:"longitude"`
	PhotoPath  pgtype.Text        `db:"foto_path"`
	Situations pgtype.Text        `db:"situacoes"`
	CreatedAt  pgtype.Timestamptz `db:"criado_em"`
}

// HasLocation reports whether both coordinates are set.
func (r *Report) HasLocation() bool {
	return r.Latitude.Status == pgtype.Present && r.Longitude.Status == pgtype.Present
}

// ReportPoint is a located report as drawn on the dashboard map.
type ReportPoint struct {
	Street     string  `db:"nome_rua"`
	District   string  `db:"bairro"`
	Latitude   float64 `db:"latitude"`
	Longitude  float64 `db:"longitude"`
	Situations string  `db:"situacoes"`
}

// Filter restricts dashboard queries; empty fields match everything.
type Filter struct {
	District  string
	Street    string
	Situation string
}

// Active reports whether any field is set.
func (f Filter) Active() bool {
	return f.District != "" || f.Street != "" || f.Situation != ""
}

// Diagnostics describes the encodings negotiated with the database.
type Diagnostics struct {
	Database       string
	ClientEncoding string
	ServerEncoding string
	LCMessages     string
	Forced         string
}
