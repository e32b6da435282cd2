package pg

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"github.com/urbano-mdr/urbano/internal/storage"
)

const (
	insertReportQuery = `insert into %s
	("nome_rua", "numero", "bairro", "latitude", "longitude", "foto_path", "situacoes")
	values ($1, $2, $3, $4, $5, $6, $7)
	returning "id"`

	listReportsQuery = `select
	"id",
	"nome_rua",
	"numero",
	"bairro",
	"latitude",
	"longitude",
	"foto_path",
	"situacoes",
	"criado_em"
	from %s order by "id" desc`

	pointsQuery = `select
	"nome_rua",
	"bairro",
	"latitude"::float8 as "latitude",
	"longitude"::float8 as "longitude",
	coalesce("situacoes", '` + storage.NotInformed + `') as "situacoes"
	from %s where %s`

	distinctQuery = `select distinct %[1]s as v from %[2]s where %[3]s and %[1]s is not null and %[1]s <> '' order by 1`
)

var distinctColumns = map[string]bool{
	storage.ColumnDistrict:   true,
	storage.ColumnStreet:     true,
	storage.ColumnSituations: true,
}

func tableName(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}

func quoteColumn(column string) string {
	return pgx.Identifier{column}.Sanitize()
}

// whereBuilder accumulates "column = $n" clauses with their arguments.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) eq(column, value string) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf("%s = $%d", quoteColumn(column), len(w.args)))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(w.clauses, " and ")
}

func generatePointsQuery(table string, f storage.Filter) (string, []interface{}) {
	w := &whereBuilder{}
	w.add(`"latitude" is not null`)
	w.add(`"longitude" is not null`)
	if f.District != "" {
		w.eq(storage.ColumnDistrict, f.District)
	}
	if f.Street != "" {
		w.eq(storage.ColumnStreet, f.Street)
	}
	if f.Situation != "" {
		w.eq(storage.ColumnSituations, f.Situation)
	}
	return fmt.Sprintf(pointsQuery, table, w.String()), w.args
}

// generateDistinctQuery lists the values of column under the district and
// street filters. A filter on the listed column itself is ignored so the
// select keeps offering every alternative.
func generateDistinctQuery(table, column string, f storage.Filter) (string, []interface{}, error) {
	if !distinctColumns[column] {
		return "", nil, fmt.Errorf("%w: column %q", storage.ErrInvalidFilter, column)
	}
	w := &whereBuilder{}
	if f.District != "" && column != storage.ColumnDistrict {
		w.eq(storage.ColumnDistrict, f.District)
	}
	if f.Street != "" && column != storage.ColumnStreet {
		w.eq(storage.ColumnStreet, f.Street)
	}
	return fmt.Sprintf(distinctQuery, quoteColumn(column), table, w.String()), w.args, nil
}
