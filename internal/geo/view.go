package geo

// LatLng is a [lat, lon] pair, the order Leaflet expects.
type LatLng [2]float64

// View is the initial state of a rendered map.
type View struct {
	Center LatLng
	Zoom   int
	// Fit, when set, overrides Center/Zoom once the map is loaded.
	Fit []LatLng
}

var (
	DefaultCenter = LatLng{-2.049924, -47.551264}
	DefaultZoom   = 5
)

const (
	singlePointZoom = 16
	filteredZoom    = 12
	overviewZoom    = 6
)

// PointsView picks the initial view for a set of markers: the default view
// when empty, a close zoom on a single point, and otherwise the mean
// position fitted to every point.
func PointsView(points []LatLng, filtered bool) View {
	switch len(points) {
	case 0:
		return View{Center: DefaultCenter, Zoom: DefaultZoom}
	case 1:
		return View{Center: points[0], Zoom: singlePointZoom}
	}
	var lat, lon float64
	for _, p := range points {
		lat += p[0]
		lon += p[1]
	}
	n := float64(len(points))
	zoom := overviewZoom
	if filtered {
		zoom = filteredZoom
	}
	fit := make([]LatLng, len(points))
	copy(fit, points)
	return View{Center: LatLng{lat / n, lon / n}, Zoom: zoom, Fit: fit}
}
