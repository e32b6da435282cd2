package render

import (
	"fmt"
	"html"

	"github.com/paulmach/orb/geojson"

	"github.com/urbano-mdr/urbano/internal/geo"
)

// BaseLayer is a Leaflet tile layer.
type BaseLayer struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// DefaultBaseLayer is used when no basemap is requested.
const DefaultBaseLayer = "osm"

var (
	layerSatellite = BaseLayer{
		Key:         "satellite",
		Name:        "Satélite (Esri)",
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "Esri World Imagery",
	}
	layerPositron = BaseLayer{
		Key:         "positron",
		Name:        "Claro",
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
	}
	layerOSM = BaseLayer{
		Key:         "osm",
		Name:        "Padrão",
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
	}
	baseLayers = []BaseLayer{layerSatellite, layerPositron, layerOSM}
)

// BaseLayerKeys lists the accepted basemap keys.
func BaseLayerKeys() []string {
	keys := make([]string, len(baseLayers))
	for i, l := range baseLayers {
		keys[i] = l.Key
	}
	return keys
}

// BaseLayers returns every base layer with the selected one last; Leaflet
// shows the last added layer.
func BaseLayers(selected string) []BaseLayer {
	out := make([]BaseLayer, 0, len(baseLayers))
	var last *BaseLayer
	for i := range baseLayers {
		if baseLayers[i].Key == selected {
			last = &baseLayers[i]
			continue
		}
		out = append(out, baseLayers[i])
	}
	if last != nil {
		out = append(out, *last)
	}
	return out
}

// Marker is a clustered map pin.
type Marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Popup   string  `json:"popup"`
	Tooltip string  `json:"tooltip"`
}

// ReportMarker builds the pin of a report; text is escaped because Leaflet
// renders popups and tooltips as HTML.
func ReportMarker(lat, lon float64, district, street, situations string) Marker {
	tooltip := street
	if tooltip == "" {
		tooltip = "Ponto"
	}
	return Marker{
		Lat: lat,
		Lon: lon,
		Popup: fmt.Sprintf("<b>Bairro:</b> %s<br><b>Rua:</b> %s<br><b>Situação:</b> %s",
			html.EscapeString(district), html.EscapeString(street), html.EscapeString(situations)),
		Tooltip: html.EscapeString(tooltip),
	}
}

// PointMap is the dashboard map configuration consumed by the page script.
type PointMap struct {
	Center  geo.LatLng   `json:"center"`
	Zoom    int          `json:"zoom"`
	Fit     []geo.LatLng `json:"fit,omitempty"`
	Layers  []BaseLayer  `json:"layers"`
	Markers []Marker     `json:"markers"`
}

// NewPointMap places markers using the view rules of geo.PointsView.
func NewPointMap(markers []Marker, filtered bool, basemap string) *PointMap {
	pts := make([]geo.LatLng, len(markers))
	for i, m := range markers {
		pts[i] = geo.LatLng{m.Lat, m.Lon}
	}
	view := geo.PointsView(pts, filtered)
	if markers == nil {
		markers = []Marker{}
	}
	return &PointMap{
		Center:  view.Center,
		Zoom:    view.Zoom,
		Fit:     view.Fit,
		Layers:  BaseLayers(basemap),
		Markers: markers,
	}
}

// PolygonStyle is the Leaflet path style of the survey polygons.
type PolygonStyle struct {
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// TooltipField pairs a feature property with its label.
type TooltipField struct {
	Property string `json:"property"`
	Alias    string `json:"alias"`
}

// AreaMap is the configuration of a GeoJSON polygon map.
type AreaMap struct {
	Center   geo.LatLng                 `json:"center"`
	Zoom     int                        `json:"zoom"`
	Fit      []geo.LatLng               `json:"fit,omitempty"`
	Tiles    BaseLayer                  `json:"tiles"`
	Data     *geojson.FeatureCollection `json:"data"`
	Style    PolygonStyle               `json:"style"`
	Tooltips []TooltipField             `json:"tooltips"`
}

const areaMapZoom = 11

// AreaMapFallbackCenter is used when the collection has no coordinates.
var AreaMapFallbackCenter = geo.LatLng{-5.0, -50.0}

// NewAreaMap centers the map on the bounds of fc and fits to them. It
// returns nil for an empty collection.
func NewAreaMap(fc *geojson.FeatureCollection, tooltips []TooltipField) *AreaMap {
	if fc == nil || len(fc.Features) == 0 {
		return nil
	}
	m := &AreaMap{
		Center: AreaMapFallbackCenter,
		Zoom:   areaMapZoom,
		Tiles:  layerPositron,
		Data:   fc,
		Style: PolygonStyle{
			FillColor:   "#1f78b4",
			Color:       "black",
			Weight:      1,
			FillOpacity: 0.4,
		},
		Tooltips: tooltips,
	}
	if b, ok := geo.Bounds(fc); ok {
		m.Center = geo.BoundCenter(b)
		fit := geo.FitBounds(b)
		m.Fit = fit[:]
	}
	return m
}
