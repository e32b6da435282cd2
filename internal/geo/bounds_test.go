package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		want   orb.Bound
		wantOK bool
	}{
		{
			name: "empty collection",
			data: `{"type":"FeatureCollection","features":[]}`,
		},
		{
			name: "null geometry only",
			data: `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":null,"properties":{}}]}`,
		},
		{
			name:   "single point",
			data:   `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[-47.5,-2.0]},"properties":{}}]}`,
			want:   orb.Bound{Min: orb.Point{-47.5, -2.0}, Max: orb.Point{-47.5, -2.0}},
			wantOK: true,
		},
		{
			name: "mixed geometries",
			data: `{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[-68,-10],[-67,-10],[-67,-9],[-68,-9],[-68,-10]]]},"properties":{}},
				{"type":"Feature","geometry":{"type":"LineString","coordinates":[[-70,-11],[-69,-8]]},"properties":{}},
				{"type":"Feature","geometry":{"type":"MultiPolygon","coordinates":[[[[-66,-12],[-65,-12],[-65,-11],[-66,-12]]]]},"properties":{}},
				{"type":"Feature","geometry":null,"properties":{}}
			]}`,
			want:   orb.Bound{Min: orb.Point{-70, -12}, Max: orb.Point{-65, -8}},
			wantOK: true,
		},
		{
			name: "geometry collection",
			data: `{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"GeometryCollection","geometries":[
					{"type":"Point","coordinates":[1,2]},
					{"type":"MultiPoint","coordinates":[[3,-4],[0,5]]},
					{"type":"MultiLineString","coordinates":[[[-1,0],[2,2]]]}
				]},"properties":{}}
			]}`,
			want:   orb.Bound{Min: orb.Point{-1, -4}, Max: orb.Point{3, 5}},
			wantOK: true,
		},
		{
			name: "multilinestring with empty first part",
			data: `{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"MultiLineString","coordinates":[[],[[-47,-2],[-46,-1.5]]]},"properties":{}}
			]}`,
			want:   orb.Bound{Min: orb.Point{-47, -2}, Max: orb.Point{-46, -1.5}},
			wantOK: true,
		},
		{
			name: "multipolygon with empty first part",
			data: `{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"MultiPolygon","coordinates":[[],[[[-68,-10],[-67,-10],[-67,-9],[-68,-10]]]]},"properties":{}}
			]}`,
			want:   orb.Bound{Min: orb.Point{-68, -10}, Max: orb.Point{-67, -9}},
			wantOK: true,
		},
		{
			name: "multipolygon of empty parts",
			data: `{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"MultiPolygon","coordinates":[[],[[]]]},"properties":{}}
			]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := geojson.UnmarshalFeatureCollection([]byte(tt.data))
			require.NoError(t, err)
			got, ok := Bounds(fc)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGeometryBoundSkipsEmptyParts(t *testing.T) {
	tests := []struct {
		name string
		g    orb.Geometry
		want orb.Bound
	}{
		{
			name: "multilinestring",
			g:    orb.MultiLineString{{}, {{-47, -2}, {-46, -1.5}}, {}},
			want: orb.Bound{Min: orb.Point{-47, -2}, Max: orb.Point{-46, -1.5}},
		},
		{
			name: "multipolygon",
			g:    orb.MultiPolygon{{}, {{}}, {{{-68, -10}, {-67, -10}, {-67, -9}, {-68, -10}}}},
			want: orb.Bound{Min: orb.Point{-68, -10}, Max: orb.Point{-67, -9}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := geometryBound(tt.g)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoundsNil(t *testing.T) {
	_, ok := Bounds(nil)
	assert.False(t, ok)
}

func TestFitBoundsAndCenter(t *testing.T) {
	b := orb.Bound{Min: orb.Point{-70, -12}, Max: orb.Point{-66, -8}}
	assert.Equal(t, [2]LatLng{{-12, -70}, {-8, -66}}, FitBounds(b))
	assert.Equal(t, LatLng{-10, -68}, BoundCenter(b))
}
