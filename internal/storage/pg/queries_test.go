package pg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbano-mdr/urbano/internal/storage"
)

func TestTableName(t *testing.T) {
	assert.Equal(t, `"urbano"."solicitacoes"`, tableName("urbano", "solicitacoes"))
	assert.Equal(t, `"public"."solicitações"`, tableName("public", "solicitações"))
}

func Test_generatePointsQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    storage.Filter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "no filter",
			wantWhere: `where "latitude" is not null and "longitude" is not null`,
		},
		{
			name:      "district",
			filter:    storage.Filter{District: "Centro"},
			wantWhere: `where "latitude" is not null and "longitude" is not null and "bairro" = $1`,
			wantArgs:  []interface{}{"Centro"},
		},
		{
			name:      "all",
			filter:    storage.Filter{District: "Centro", Street: "Rua A", Situation: "buraco"},
			wantWhere: `"bairro" = $1 and "nome_rua" = $2 and "situacoes" = $3`,
			wantArgs:  []interface{}{"Centro", "Rua A", "buraco"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := generatePointsQuery(`"urbano"."solicitacoes"`, tt.filter)
			assert.Contains(t, q, tt.wantWhere)
			assert.Contains(t, q, `from "urbano"."solicitacoes"`)
			assert.Contains(t, q, `coalesce("situacoes", 'Não informado')`)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_generateDistinctQuery(t *testing.T) {
	tests := []struct {
		name      string
		column    string
		filter    storage.Filter
		wantWhere string
		wantArgs  []interface{}
		wantErr   error
	}{
		{
			name:      "districts ignore own filter",
			column:    storage.ColumnDistrict,
			filter:    storage.Filter{District: "Centro"},
			wantWhere: `where 1=1 and "bairro" is not null and "bairro" <> ''`,
		},
		{
			name:      "streets by district",
			column:    storage.ColumnStreet,
			filter:    storage.Filter{District: "Centro", Street: "Rua A"},
			wantWhere: `where "bairro" = $1 and "nome_rua" is not null`,
			wantArgs:  []interface{}{"Centro"},
		},
		{
			name:      "situations by district and street",
			column:    storage.ColumnSituations,
			filter:    storage.Filter{District: "Centro", Street: "Rua A", Situation: "x"},
			wantWhere: `where "bairro" = $1 and "nome_rua" = $2 and "situacoes" is not null`,
			wantArgs:  []interface{}{"Centro", "Rua A"},
		},
		{
			name:    "unknown column",
			column:  "numero; drop table x",
			wantErr: storage.ErrInvalidFilter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args, err := generateDistinctQuery(`"urbano"."solicitacoes"`, tt.column, tt.filter)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, q, tt.wantWhere)
			assert.Contains(t, q, "order by 1")
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
