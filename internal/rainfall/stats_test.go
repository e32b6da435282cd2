package rainfall

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, BucketLow},
		{10, BucketLow},
		{10.01, BucketModerate},
		{30, BucketModerate},
		{70, BucketHigh},
		{70.5, BucketVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(tt.p), "precipitation %v", tt.p)
	}
}

func TestSummarize(t *testing.T) {
	_, ok := Summarize(nil)
	assert.False(t, ok)

	d := fixtureDataset(t)
	s, ok := Summarize(d.Records())
	require.True(t, ok)
	assert.Equal(t, 4, s.TotalRecords)
	assert.InDelta(t, 122.5, s.Sum, 1e-9)
	assert.InDelta(t, 30.625, s.Mean, 1e-9)
	assert.Equal(t, 80.0, s.Max)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 4, s.UniqueMunicipalities)
	assert.Equal(t, 3, s.UniqueStates)
	assert.Equal(t, 2, s.ByState.Count["SP"])
	assert.InDelta(t, 6.25, s.ByState.Mean["SP"], 1e-9)
	assert.InDelta(t, 80, s.ByState.Sum["RJ"], 1e-9)
	assert.Equal(t, map[string]int{
		BucketLow:      1,
		BucketModerate: 2,
		BucketHigh:     0,
		BucketVeryHigh: 1,
	}, s.Distribution)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "por_estado")
	assert.Contains(t, m["por_estado"], "mean")
	assert.Contains(t, m["distribuicao_faixas"], "muito_alta (70mm+)")
}

func TestTimeline(t *testing.T) {
	d := fixtureDataset(t)
	got := Timeline(d.Records())
	require.Len(t, got, 3)
	assert.Equal(t, TimelinePoint{Date: "2024-01-01", Mean: 46.25, Total: 92.5, Count: 2}, got[0])
	assert.Equal(t, "2024-01-02", got[1].Date)
	assert.Equal(t, "2024-01-03", got[2].Date)
	assert.Empty(t, Timeline(nil))
}

func TestHeatmap(t *testing.T) {
	got := Heatmap([]Record{{Lat: -1, Lon: -2, Precipitation: 3}})
	assert.Equal(t, [][3]float64{{-1, -2, 3}}, got)
	assert.Empty(t, Heatmap(nil))
}

func TestBasicStats(t *testing.T) {
	d := fixtureDataset(t)
	bs := d.BasicStats()
	assert.Equal(t, 4, bs.TotalRecords)
	assert.Equal(t, 4, bs.TotalMunicipalities)
	assert.Equal(t, 3, bs.TotalStates)
	require.NotNil(t, bs.Period.Start)
	assert.Equal(t, "2024-01-01", *bs.Period.Start)
	assert.Equal(t, "2024-01-03", *bs.Period.End)

	empty := NewDataset(nil, false).BasicStats()
	assert.Nil(t, empty.Period.Start)
	assert.Equal(t, 0.0, empty.Mean)
}

func TestFeatureCollection(t *testing.T) {
	d := fixtureDataset(t)
	fc := FeatureCollection(d.Select(Filter{UF: "SP"}))
	require.Len(t, fc.Features, 2)
	f := fc.Features[0]
	assert.Equal(t, "Point", f.Geometry.GeoJSONType())
	assert.Equal(t, "São Paulo", f.Properties["NM_MUN"])
	assert.Equal(t, 12.5, f.Properties["precipitation"])

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"coordinates":[-46.63,-23.55]`)
}
