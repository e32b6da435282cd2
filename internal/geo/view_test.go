package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsView(t *testing.T) {
	tests := []struct {
		name     string
		points   []LatLng
		filtered bool
		want     View
	}{
		{
			name: "no points",
			want: View{Center: DefaultCenter, Zoom: 5},
		},
		{
			name:   "single point",
			points: []LatLng{{-2.1, -47.6}},
			want:   View{Center: LatLng{-2.1, -47.6}, Zoom: 16},
		},
		{
			name:   "overview",
			points: []LatLng{{-2, -48}, {-4, -46}},
			want:   View{Center: LatLng{-3, -47}, Zoom: 6, Fit: []LatLng{{-2, -48}, {-4, -46}}},
		},
		{
			name:     "filtered",
			points:   []LatLng{{-2, -48}, {-4, -46}},
			filtered: true,
			want:     View{Center: LatLng{-3, -47}, Zoom: 12, Fit: []LatLng{{-2, -48}, {-4, -46}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointsView(tt.points, tt.filtered))
		})
	}
}
