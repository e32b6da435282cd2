package rainfall

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDataset(t *testing.T) *Dataset {
	t.Helper()
	records, err := Parse(strings.NewReader(fixtureCSV))
	require.NoError(t, err)
	return NewDataset(records, false)
}

func ptr(v float64) *float64 { return &v }

func TestNewDataset(t *testing.T) {
	d := fixtureDataset(t)
	assert.Equal(t, []string{"MG", "RJ", "SP"}, d.UFs())
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, d.Dates())
	assert.Equal(t, 4, d.Len())
	assert.False(t, d.IsSample())
}

func TestDataset_Validate(t *testing.T) {
	d := fixtureDataset(t)
	tests := []struct {
		name       string
		query      Query
		wantFilter Filter
		wantErrs   []string
	}{
		{
			name:       "empty",
			wantFilter: Filter{},
		},
		{
			name:  "valid",
			query: Query{UF: "SP", Date: "2024-01-01", MinPrecip: "1.5", MaxPrecip: "100", Municipalities: []string{"Campinas", ""}},
			wantFilter: Filter{
				UF: "SP", Date: "2024-01-01",
				MinPrecip: ptr(1.5), MaxPrecip: ptr(100),
				Municipalities: []string{"Campinas"},
			},
		},
		{
			name:  "unknown uf and date",
			query: Query{UF: "XX", Date: "1999-01-01"},
			wantFilter: Filter{
				UF: "XX", Date: "1999-01-01",
			},
			wantErrs: []string{"Estado 'XX' não encontrado", "Data '1999-01-01' não encontrada"},
		},
		{
			name:       "bad bounds",
			query:      Query{MinPrecip: "-1", MaxPrecip: "muito"},
			wantFilter: Filter{},
			wantErrs:   []string{"Precipitação mínima deve ser >= 0", "Precipitação máxima deve ser um número"},
		},
		{
			name:       "nan bound",
			query:      Query{MinPrecip: "NaN"},
			wantFilter: Filter{},
			wantErrs:   []string{"Precipitação mínima deve ser um número"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, errs := d.Validate(tt.query)
			assert.Equal(t, tt.wantFilter, f)
			assert.Equal(t, tt.wantErrs, errs)
		})
	}
}

func TestDataset_Select(t *testing.T) {
	d := fixtureDataset(t)
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all", want: []string{"São Paulo", "Campinas", "Niterói", "Uberlândia"}},
		{name: "uf", filter: Filter{UF: "SP"}, want: []string{"São Paulo", "Campinas"}},
		{name: "date", filter: Filter{Date: "2024-01-01"}, want: []string{"São Paulo", "Niterói"}},
		{name: "min inclusive", filter: Filter{MinPrecip: ptr(30)}, want: []string{"Niterói", "Uberlândia"}},
		{name: "max inclusive", filter: Filter{MaxPrecip: ptr(12.5)}, want: []string{"São Paulo", "Campinas"}},
		{name: "municipalities", filter: Filter{Municipalities: []string{"Campinas", "Uberlândia"}}, want: []string{"Campinas", "Uberlândia"}},
		{name: "nothing", filter: Filter{UF: "RJ", Date: "2024-01-03"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range d.Select(tt.filter) {
				got = append(got, r.Municipality)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataset_Municipalities(t *testing.T) {
	d := fixtureDataset(t)
	assert.Equal(t, []string{"Campinas", "Niterói", "São Paulo", "Uberlândia"}, d.Municipalities("", ""))
	assert.Equal(t, []string{"Campinas", "São Paulo"}, d.Municipalities("SP", ""))
	assert.Equal(t, []string{"São Paulo"}, d.Municipalities("", "PAULO"))
	assert.Equal(t, []string{}, d.Municipalities("MG", "zzz"))

	var records []Record
	for i := 0; i < 80; i++ {
		records = append(records, Record{UF: "SP", Municipality: fmt.Sprintf("M%03d", i), Date: "2024-01-01"})
	}
	big := NewDataset(records, true)
	got := big.Municipalities("SP", "m")
	assert.Len(t, got, MaxMunicipalities)
	assert.Equal(t, "M000", got[0])
	assert.True(t, big.IsSample())
}
