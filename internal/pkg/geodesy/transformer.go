package geodesy

import (
	"fmt"

	"github.com/wroge/wgs84"

	"github.com/pejotu/archicad-georef/internal/pkg/metrics"
)

// CoordTransformer converts coordinates between two EPSG reference systems.
// Coordinates are always ordered (easting/longitude, northing/latitude)
// regardless of the EPSG axis convention for either code; some registries
// define northing-first axes and silently honoring that invites swapped
// coordinates.
type CoordTransformer struct {
	srcCode int
	dstCode int
	src     wgs84.CoordinateReferenceSystem
	dst     wgs84.CoordinateReferenceSystem
}

// NewCoordTransformer builds a transformer between two EPSG codes.
// Unknown codes fail immediately; there is no fallback system.
func NewCoordTransformer(srcCode, dstCode int) (*CoordTransformer, error) {
	src, err := crsForCode(srcCode)
	if err != nil {
		return nil, fmt.Errorf("source CRS: %w", err)
	}
	dst, err := crsForCode(dstCode)
	if err != nil {
		return nil, fmt.Errorf("destination CRS: %w", err)
	}
	return &CoordTransformer{srcCode: srcCode, dstCode: dstCode, src: src, dst: dst}, nil
}

// Transform converts (x, y, z) from the source to the destination system.
// x is the easting/longitude-like value, y the northing/latitude-like value.
func (t *CoordTransformer) Transform(x, y, z float64) (float64, float64, float64, error) {
	x2, y2, z2, err := wgs84.SafeTransform(t.src, t.dst)(x, y, z)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("transform EPSG:%d -> EPSG:%d: %w", t.srcCode, t.dstCode, err)
	}
	return x2, y2, z2, nil
}

// Transformer is the stateless entry point used by the core services. Each
// call builds the conversion from the EPSG table; there is no shared state,
// so concurrent use is safe.
type Transformer struct{}

// Transform converts a coordinate triple between two EPSG codes.
func (Transformer) Transform(srcCode, dstCode int, x, y, z float64) (float64, float64, float64, error) {
	t, err := NewCoordTransformer(srcCode, dstCode)
	if err != nil {
		metrics.TransformsTotal.WithLabelValues("error").Inc()
		return 0, 0, 0, err
	}
	x2, y2, z2, err := t.Transform(x, y, z)
	if err != nil {
		metrics.TransformsTotal.WithLabelValues("error").Inc()
		return 0, 0, 0, err
	}
	metrics.TransformsTotal.WithLabelValues("ok").Inc()
	return x2, y2, z2, nil
}

// SurveyToWGS84 converts survey point local-CRS coordinates to WGS84
// longitude/latitude in decimal degrees. This populates the project
// location's longitude and latitude fields.
func (tr Transformer) SurveyToWGS84(eastings, northings float64, srcCode int) (lon, lat float64, err error) {
	lon, lat, _, err = tr.Transform(srcCode, WGS84Code, eastings, northings, 0)
	return lon, lat, err
}
