package rainfall

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Distribution bucket names.
const (
	BucketLow      = "baixa (0-10mm)"
	BucketModerate = "moderada (10-30mm)"
	BucketHigh     = "alta (30-70mm)"
	BucketVeryHigh = "muito_alta (70mm+)"
)

// Stats summarizes a selection.
type Stats struct {
	TotalRecords         int            `json:"total_registros"`
	Mean                 float64        `json:"precipitacao_media"`
	Max                  float64        `json:"precipitacao_maxima"`
	Min                  float64        `json:"precipitacao_minima"`
	Sum                  float64        `json:"precipitacao_total"`
	UniqueMunicipalities int            `json:"municipios_unicos"`
	UniqueStates         int            `json:"estados_unicos"`
	ByState              StateStats     `json:"por_estado"`
	Distribution         map[string]int `json:"distribuicao_faixas"`
}

// StateStats is keyed by aggregate, then by UF.
type StateStats struct {
	Mean  map[string]float64 `json:"mean"`
	Sum   map[string]float64 `json:"sum"`
	Count map[string]int     `json:"count"`
}

// Bucket names the distribution bucket of a precipitation value. Upper
// bounds are inclusive.
func Bucket(p float64) string {
	switch {
	case p <= 10:
		return BucketLow
	case p <= 30:
		return BucketModerate
	case p <= 70:
		return BucketHigh
	default:
		return BucketVeryHigh
	}
}

// Summarize computes Stats; ok is false for an empty selection.
func Summarize(records []Record) (*Stats, bool) {
	if len(records) == 0 {
		return nil, false
	}
	s := &Stats{
		TotalRecords: len(records),
		Min:          records[0].Precipitation,
		Max:          records[0].Precipitation,
		ByState: StateStats{
			Mean:  make(map[string]float64),
			Sum:   make(map[string]float64),
			Count: make(map[string]int),
		},
		Distribution: map[string]int{
			BucketLow:      0,
			BucketModerate: 0,
			BucketHigh:     0,
			BucketVeryHigh: 0,
		},
	}
	municipalities := make(map[string]bool)
	for _, r := range records {
		s.Sum += r.Precipitation
		if r.Precipitation > s.Max {
			s.Max = r.Precipitation
		}
		if r.Precipitation < s.Min {
			s.Min = r.Precipitation
		}
		municipalities[r.Municipality] = true
		s.ByState.Sum[r.UF] += r.Precipitation
		s.ByState.Count[r.UF]++
		s.Distribution[Bucket(r.Precipitation)]++
	}
	s.Mean = s.Sum / float64(len(records))
	s.UniqueMunicipalities = len(municipalities)
	s.UniqueStates = len(s.ByState.Count)
	for uf, n := range s.ByState.Count {
		s.ByState.Mean[uf] = s.ByState.Sum[uf] / float64(n)
	}
	return s, true
}

// TimelinePoint aggregates one date.
type TimelinePoint struct {
	Date  string  `json:"data"`
	Mean  float64 `json:"precipitacao_media"`
	Total float64 `json:"precipitacao_total"`
	Count int     `json:"num_registros"`
}

// Timeline groups records by date, sorted ascending.
func Timeline(records []Record) []TimelinePoint {
	byDate := make(map[string]*TimelinePoint)
	for _, r := range records {
		p, ok := byDate[r.Date]
		if !ok {
			p = &TimelinePoint{Date: r.Date}
			byDate[r.Date] = p
		}
		p.Total += r.Precipitation
		p.Count++
	}
	out := make([]TimelinePoint, 0, len(byDate))
	for _, p := range byDate {
		p.Mean = p.Total / float64(p.Count)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Heatmap returns [lat, lon, precipitation] triples.
func Heatmap(records []Record) [][3]float64 {
	out := make([][3]float64, 0, len(records))
	for _, r := range records {
		out = append(out, [3]float64{r.Lat, r.Lon, r.Precipitation})
	}
	return out
}

// Period is the first and last date of the dataset.
type Period struct {
	Start *string `json:"inicio"`
	End   *string `json:"fim"`
}

// BasicStats is shown on the landing page.
type BasicStats struct {
	TotalRecords        int     `json:"total_registros"`
	TotalMunicipalities int     `json:"total_municipios"`
	TotalStates         int     `json:"total_estados"`
	Mean                float64 `json:"precipitacao_media"`
	Period              Period  `json:"periodo"`
}

// BasicStats summarizes the whole dataset.
func (d *Dataset) BasicStats() BasicStats {
	bs := BasicStats{
		TotalRecords: len(d.records),
		TotalStates:  len(d.ufs),
	}
	municipalities := make(map[string]bool)
	var sum float64
	for _, r := range d.records {
		municipalities[r.Municipality] = true
		sum += r.Precipitation
	}
	bs.TotalMunicipalities = len(municipalities)
	if len(d.records) > 0 {
		bs.Mean = sum / float64(len(d.records))
	}
	if len(d.dates) > 0 {
		start, end := d.dates[0], d.dates[len(d.dates)-1]
		bs.Period = Period{Start: &start, End: &end}
	}
	return bs
}

// FeatureCollection converts records to GeoJSON points carrying every
// column as a property.
func FeatureCollection(records []Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		f := geojson.NewFeature(orb.Point{r.Lon, r.Lat})
		f.Properties = geojson.Properties{
			ColumnUF:            r.UF,
			ColumnMunicipality:  r.Municipality,
			ColumnLat:           r.Lat,
			ColumnLon:           r.Lon,
			ColumnPrecipitation: r.Precipitation,
			ColumnDate:          r.Date,
		}
		fc.Append(f)
	}
	return fc
}
