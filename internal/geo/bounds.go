package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Bounds returns the bounding box of every coordinate in the collection,
// across all geometry types including nested geometry collections. ok is
// false when the collection holds no coordinates.
func Bounds(fc *geojson.FeatureCollection) (b orb.Bound, ok bool) {
	if fc == nil {
		return orb.Bound{}, false
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		fb, found := geometryBound(f.Geometry)
		if !found {
			continue
		}
		if !ok {
			b, ok = fb, true
			continue
		}
		b = b.Union(fb)
	}
	return b, ok
}

func geometryBound(g orb.Geometry) (orb.Bound, bool) {
	switch v := g.(type) {
	case orb.Collection:
		parts := make([]orb.Geometry, len(v))
		copy(parts, v)
		return unionBound(parts)
	case orb.MultiLineString:
		parts := make([]orb.Geometry, len(v))
		for i, ls := range v {
			parts[i] = ls
		}
		return unionBound(parts)
	case orb.MultiPolygon:
		parts := make([]orb.Geometry, len(v))
		for i, p := range v {
			parts[i] = p
		}
		return unionBound(parts)
	}
	if isEmpty(g) {
		return orb.Bound{}, false
	}
	return g.Bound(), true
}

// unionBound joins the bounds of the non-empty parts only; orb's own
// Bound on multi geometries folds in the inverted bound of empty parts.
func unionBound(parts []orb.Geometry) (orb.Bound, bool) {
	var b orb.Bound
	ok := false
	for _, p := range parts {
		pb, found := geometryBound(p)
		if !found {
			continue
		}
		if !ok {
			b, ok = pb, true
			continue
		}
		b = b.Union(pb)
	}
	return b, ok
}

func isEmpty(g orb.Geometry) bool {
	switch v := g.(type) {
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(v) == 0
	case orb.LineString:
		return len(v) == 0
	case orb.Ring:
		return len(v) == 0
	case orb.Polygon:
		return len(v) == 0 || len(v[0]) == 0
	case orb.Bound:
		return false
	default:
		return true
	}
}

// FitBounds converts a bound to Leaflet's [[south, west], [north, east]].
func FitBounds(b orb.Bound) [2]LatLng {
	return [2]LatLng{
		{b.Min.Lat(), b.Min.Lon()},
		{b.Max.Lat(), b.Max.Lon()},
	}
}

// BoundCenter returns the center of b as lat/lon.
func BoundCenter(b orb.Bound) LatLng {
	c := b.Center()
	return LatLng{c.Lat(), c.Lon()}
}
