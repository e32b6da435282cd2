package rainfall

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// MaxMunicipalities caps the autocomplete list.
const MaxMunicipalities = 50

// Dataset is an immutable set of records with the UF and date lists used
// to validate filters.
type Dataset struct {
	records []Record
	ufs     []string
	dates   []string
	ufSet   map[string]bool
	dateSet map[string]bool
	sample  bool
}

// NewDataset indexes records. sample marks synthetic data.
func NewDataset(records []Record, sample bool) *Dataset {
	d := &Dataset{
		records: records,
		ufSet:   make(map[string]bool),
		dateSet: make(map[string]bool),
		sample:  sample,
	}
	for _, r := range records {
		if !d.ufSet[r.UF] {
			d.ufSet[r.UF] = true
			d.ufs = append(d.ufs, r.UF)
		}
		if !d.dateSet[r.Date] {
			d.dateSet[r.Date] = true
			d.dates = append(d.dates, r.Date)
		}
	}
	sort.Strings(d.ufs)
	sort.Strings(d.dates)
	return d
}

func (d *Dataset) Len() int          { return len(d.records) }
func (d *Dataset) UFs() []string     { return d.ufs }
func (d *Dataset) Dates() []string   { return d.dates }
func (d *Dataset) IsSample() bool    { return d.sample }
func (d *Dataset) Records() []Record { return d.records }

// Query is the raw filter as received in the query string. Bounds stay
// strings so they can be validated with their own messages.
type Query struct {
	UF             string   `schema:"uf"`
	Date           string   `schema:"data"`
	MinPrecip      string   `schema:"min_precip"`
	MaxPrecip      string   `schema:"max_precip"`
	Municipalities []string `schema:"municipios"`
	Format         string   `schema:"format"`
	Term           string   `schema:"q"`
}

// Filter selects records; zero fields match everything.
type Filter struct {
	UF             string
	Date           string
	MinPrecip      *float64
	MaxPrecip      *float64
	Municipalities []string
}

// Validate checks q against the dataset and converts it into a Filter. All
// problems are returned together.
func (d *Dataset) Validate(q Query) (Filter, []string) {
	var errs []string
	f := Filter{
		UF:             strings.TrimSpace(q.UF),
		Date:           strings.TrimSpace(q.Date),
		Municipalities: nonEmpty(q.Municipalities),
	}
	if f.UF != "" && !d.ufSet[f.UF] {
		errs = append(errs, fmt.Sprintf("Estado '%s' não encontrado", f.UF))
	}
	if f.Date != "" && !d.dateSet[f.Date] {
		errs = append(errs, fmt.Sprintf("Data '%s' não encontrada", f.Date))
	}
	var msg string
	f.MinPrecip, msg = parseBound(q.MinPrecip, "Precipitação mínima")
	if msg != "" {
		errs = append(errs, msg)
	}
	f.MaxPrecip, msg = parseBound(q.MaxPrecip, "Precipitação máxima")
	if msg != "" {
		errs = append(errs, msg)
	}
	return f, errs
}

func parseBound(s, label string) (*float64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, label + " deve ser um número"
	}
	if v < 0 {
		return nil, label + " deve ser >= 0"
	}
	return &v, ""
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Match reports whether r passes f.
func (f Filter) Match(r Record) bool {
	if f.UF != "" && r.UF != f.UF {
		return false
	}
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.MinPrecip != nil && r.Precipitation < *f.MinPrecip {
		return false
	}
	if f.MaxPrecip != nil && r.Precipitation > *f.MaxPrecip {
		return false
	}
	if len(f.Municipalities) > 0 {
		found := false
		for _, m := range f.Municipalities {
			if r.Municipality == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Select returns the records matching f in dataset order.
func (d *Dataset) Select(f Filter) []Record {
	var out []Record
	for _, r := range d.records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Municipalities lists distinct municipality names of uf containing term,
// case-insensitively, sorted and capped at MaxMunicipalities.
func (d *Dataset) Municipalities(uf, term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range d.records {
		if uf != "" && r.UF != uf {
			continue
		}
		if seen[r.Municipality] {
			continue
		}
		seen[r.Municipality] = true
		if term != "" && !strings.Contains(strings.ToLower(r.Municipality), term) {
			continue
		}
		out = append(out, r.Municipality)
	}
	sort.Strings(out)
	if len(out) > MaxMunicipalities {
		out = out[:MaxMunicipalities]
	}
	return out
}
