// Package geo holds the coordinate parsing and bounding-box arithmetic used
// by the report form and the map dashboards.
package geo

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CoordPlaces is the scale of the NUMERIC(9,6) latitude/longitude columns.
const CoordPlaces = 6

// maxCoordMagnitude is the first value NUMERIC(9,6) cannot hold.
var maxCoordMagnitude = decimal.NewFromInt(1000)

// Coord is an optional coordinate component.
type Coord struct {
	Value decimal.Decimal
	Valid bool
}

// Fits reports whether the value can be stored in a NUMERIC(9,6) column.
func (c Coord) Fits() bool {
	return c.Valid && c.Value.Abs().LessThan(maxCoordMagnitude)
}

// ParseCoord parses a single coordinate. Decimal commas and the unicode
// minus sign are accepted. The value is rounded half away from zero to six
// places. Blank or malformed input yields an invalid Coord.
func ParseCoord(s string) Coord {
	s = strings.TrimSpace(s)
	if s == "" {
		return Coord{}
	}
	s = strings.NewReplacer(",", ".", "−", "-").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Coord{}
	}
	return Coord{Value: d.Round(CoordPlaces), Valid: true}
}

var combinedSeparators = strings.NewReplacer(",", " ", ";", " ", "|", " ", "\t", " ")

// ParseCoordsCombined parses a "lat, lon" pair typed into a single field,
// e.g. "-2.053655, -47.549849", "-2.053655; -47.549849" or
// "-2.053655 -47.549849". Commas are separators here, so a decimal comma
// splits a number in two.
func ParseCoordsCombined(s string) (lat, lon Coord) {
	parts := strings.Fields(combinedSeparators.Replace(s))
	if len(parts) < 2 {
		return Coord{}, Coord{}
	}
	return ParseCoord(parts[0]), ParseCoord(parts[1])
}
