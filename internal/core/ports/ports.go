package ports

import (
	"context"
	"encoding/json"

	"github.com/pejotu/archicad-georef/internal/core/domain"
)

// AddonGateway executes commands against the external CAD automation addon.
type AddonGateway interface {
	// Execute runs a single addon command and returns the raw response
	// payload. params may be nil for commands without parameters.
	Execute(ctx context.Context, command string, params any) (json.RawMessage, error)
}

// CRSSource is one metadata resolution strategy. A source may return a
// partial (even all-empty) CRSMetadata; returning an error means the source
// itself failed, which the resolver is free to swallow.
type CRSSource interface {
	Name() string
	Lookup(ctx context.Context, code int) (domain.CRSMetadata, error)
}

// CoordinateTransformer converts coordinates between EPSG reference systems.
// The first coordinate is always the easting/longitude-like axis and the
// second the northing/latitude-like axis, regardless of the registry's
// native axis order for a given code.
type CoordinateTransformer interface {
	Transform(srcCode, dstCode int, x, y, z float64) (float64, float64, float64, error)
	SurveyToWGS84(eastings, northings float64, srcCode int) (lon, lat float64, err error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
