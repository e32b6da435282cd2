// Package water loads the household water consumption survey (a GeoJSON
// FeatureCollection of census polygons) and answers the dashboard filters.
package water

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Feature property names.
const (
	PropArea       = "AREA_y"
	PropDistrict   = "BAIRRO_COM"
	PropHouseholds = "N_domi"
	PropPopulation = "Pop_estim1"
)

const (
	// AllAreas disables the area filter.
	AllAreas    = "Todas"
	NotInformed = "Não informado"

	lfsMarker   = "git-lfs.github.com/spec"
	lfsHeadSize = 200
)

// Question is a survey question charted on the dashboard.
type Question struct {
	Key      string
	Property string
	Title    string
}

// Questions in dashboard order.
var Questions = []Question{
	{Key: "q5", Property: "LABEL_Q5", Title: "Fonte de água de abastecimento"},
	{Key: "q8", Property: "LABEL_Q8", Title: "Entrega regular de água"},
	{Key: "q7", Property: "LABEL_Q7", Title: "Problemas relacionados à água"},
	{Key: "q6", Property: "LABEL_Q6", Title: "Qualidade da água"},
	{Key: "q9", Property: "LABEL_Q9", Title: "Falta de água"},
	{Key: "q10", Property: "LABEL_Q10", Title: "Poço próximo de fossa séptica"},
}

var (
	ErrWater        = errors.New("water dataset error")
	ErrFileNotFound = fmt.Errorf("%w file not found", ErrWater)
	ErrLFSPointer   = fmt.Errorf("%w git lfs pointer", ErrWater)
	ErrInvalid      = fmt.Errorf("%w invalid geojson", ErrWater)
)

// LoadError carries the message shown to users next to the sentinel used
// by callers.
type LoadError struct {
	Err     error
	Message string
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Err }

// Row is the tabular view of one feature.
type Row struct {
	Area       string
	District   string
	Households float64
	Population float64
	Labels     map[string]string
}

// Dataset is the loaded collection plus its rows, index aligned.
type Dataset struct {
	Collection *geojson.FeatureCollection
	Rows       []Row
}

// Load reads and parses the GeoJSON file at path.
func Load(path string) (*Dataset, error) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{
				Err:     ErrFileNotFound,
				Message: fmt.Sprintf("Arquivo não encontrado: %s. Coloque o %s na raiz do app.", name, name),
			}
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a FeatureCollection and normalizes the survey properties
// in place.
func Parse(data []byte) (*Dataset, error) {
	head := data
	if len(head) > lfsHeadSize {
		head = head[:lfsHeadSize]
	}
	if bytes.Contains(head, []byte(lfsMarker)) {
		return nil, &LoadError{
			Err:     ErrLFSPointer,
			Message: "O GeoJSON parece ser um 'pointer' do Git LFS. Remova do LFS e faça commit do arquivo real no Git.",
		}
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &LoadError{Err: ErrInvalid, Message: fmt.Sprintf("GeoJSON inválido: %v", err)}
	}
	ds := &Dataset{Collection: fc, Rows: make([]Row, 0, len(fc.Features))}
	for _, f := range fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		for _, p := range textProperties() {
			f.Properties[p] = Normalize(f.Properties[p])
		}
		row := Row{
			Area:       f.Properties.MustString(PropArea, NotInformed),
			District:   f.Properties.MustString(PropDistrict, NotInformed),
			Households: Number(f.Properties[PropHouseholds]),
			Population: Number(f.Properties[PropPopulation]),
			Labels:     make(map[string]string, len(Questions)),
		}
		for _, q := range Questions {
			row.Labels[q.Property] = f.Properties.MustString(q.Property, NotInformed)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func textProperties() []string {
	props := []string{PropArea, PropDistrict}
	for _, q := range Questions {
		props = append(props, q.Property)
	}
	return props
}

// Normalize maps missing, null, blank, "nan" and "None" values to
// NotInformed and renders anything else as text.
func Normalize(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return NotInformed
	case string:
		switch strings.TrimSpace(t) {
		case "", "nan", "None":
			return NotInformed
		}
		return t
	case float64:
		if math.IsNaN(t) {
			return NotInformed
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Number coerces a property to float64; anything non-numeric is 0.
func Number(v interface{}) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Filter selects rows by area and district list; zero values match all.
type Filter struct {
	Area      string   `schema:"area"`
	Districts []string `schema:"bairros"`
}

func (f Filter) allAreas() bool {
	return f.Area == "" || f.Area == AllAreas
}

// Match reports whether row passes f.
func (f Filter) Match(r Row) bool {
	if !f.allAreas() && r.Area != f.Area {
		return false
	}
	if len(f.Districts) > 0 {
		for _, d := range f.Districts {
			if r.District == d {
				return true
			}
		}
		return false
	}
	return true
}

// Areas lists AllAreas followed by the sorted distinct areas.
func (ds *Dataset) Areas() []string {
	return append([]string{AllAreas}, distinct(ds.Rows, func(r Row) (string, bool) {
		return r.Area, true
	})...)
}

// DistrictsFor lists the sorted districts of area, or of every area.
func (ds *Dataset) DistrictsFor(area string) []string {
	f := Filter{Area: area}
	return distinct(ds.Rows, func(r Row) (string, bool) {
		return r.District, f.Match(r)
	})
}

func distinct(rows []Row, pick func(Row) (string, bool)) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range rows {
		v, ok := pick(r)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Select returns the rows passing f.
func (ds *Dataset) Select(f Filter) []Row {
	var out []Row
	for _, r := range ds.Rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SelectCollection returns a FeatureCollection holding the features
// passing f. Features are shared with the dataset.
func (ds *Dataset) SelectCollection(f Filter) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, r := range ds.Rows {
		if f.Match(r) {
			fc.Append(ds.Collection.Features[i])
		}
	}
	return fc
}

// Totals sums households and estimated population.
func Totals(rows []Row) (households, population float64) {
	for _, r := range rows {
		households += r.Households
		population += r.Population
	}
	return households, population
}

// Labels returns the answers of rows to the question stored in prop.
func Labels(rows []Row, prop string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Labels[prop])
	}
	return out
}
