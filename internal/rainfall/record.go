// Package rainfall holds the in-memory precipitation dataset behind the
// rainfall dashboard and its JSON API.
package rainfall

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// CSV column names.
const (
	ColumnUF            = "SIGLA_UF"
	ColumnMunicipality  = "NM_MUN"
	ColumnLat           = "Lat"
	ColumnLon           = "Long"
	ColumnPrecipitation = "precipitation"
	ColumnDate          = "date"
)

// Columns is the column order used by the exports.
var Columns = []string{ColumnUF, ColumnMunicipality, ColumnLat, ColumnLon, ColumnPrecipitation, ColumnDate}

var (
	ErrRainfall      = errors.New("rainfall error")
	ErrMissingColumn = fmt.Errorf("%w missing column", ErrRainfall)
	ErrEmpty         = fmt.Errorf("%w empty dataset", ErrRainfall)
)

// Record is one daily precipitation measure for a municipality.
type Record struct {
	UF            string  `json:"SIGLA_UF"`
	Municipality  string  `json:"NM_MUN"`
	Lat           float64 `json:"Lat"`
	Lon           float64 `json:"Long"`
	Precipitation float64 `json:"precipitation"`
	Date          string  `json:"date"`
}

// Load reads the dataset CSV at path.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads CSV records. Coordinates and precipitation may use a decimal
// comma; rows where any of them is not a finite number are dropped.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	field := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		lat, ok1 := parseNumber(field(row, ColumnLat))
		lon, ok2 := parseNumber(field(row, ColumnLon))
		p, ok3 := parsePrecipitation(field(row, ColumnPrecipitation))
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		out = append(out, Record{
			UF:            field(row, ColumnUF),
			Municipality:  field(row, ColumnMunicipality),
			Lat:           lat,
			Lon:           lon,
			Precipitation: p,
			Date:          field(row, ColumnDate),
		})
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parsePrecipitation accepts plain numbers only; decimal commas are
// limited to the coordinate columns.
func parsePrecipitation(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Sample builds the 30 synthetic rows served when no dataset could be
// loaded.
func Sample(rng *rand.Rand) []Record {
	ufs := []string{"SP", "RJ", "MG"}
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	out := make([]Record, 30)
	for i := range out {
		out[i] = Record{
			UF:            ufs[i%len(ufs)],
			Municipality:  fmt.Sprintf("Cidade_%d", i),
			Lat:           -30 + rng.Float64()*20,
			Lon:           -55 + rng.Float64()*20,
			Precipitation: rng.Float64() * 150,
			Date:          dates[i%len(dates)],
		}
	}
	return out
}
