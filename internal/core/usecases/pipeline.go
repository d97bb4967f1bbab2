package usecases

import (
	"context"
	"fmt"

	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/core/ports"
)

// PipelineService runs the full resolution pipeline: read the current
// snapshot, resolve CRS metadata for a code, derive the project location
// from the survey point, and write the corrected state back.
type PipelineService struct {
	georef      *GeorefService
	resolver    *ResolveService
	transformer ports.CoordinateTransformer
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(georef *GeorefService, resolver *ResolveService, transformer ports.CoordinateTransformer) *PipelineService {
	return &PipelineService{georef: georef, resolver: resolver, transformer: transformer}
}

// ApplyCRS reapplies the given EPSG code to the open project: the survey
// point is transformed to WGS84 longitude/latitude, resolved metadata
// replaces the CRS parameters (fields the sources cannot supply keep their
// current value), and the result is written back. Returns the snapshot as
// written.
func (s *PipelineService) ApplyCRS(ctx context.Context, code int) (domain.GeorefData, error) {
	data, err := s.georef.Read(ctx)
	if err != nil {
		return domain.GeorefData{}, err
	}

	meta, err := s.resolver.Resolve(ctx, code)
	if err != nil {
		return domain.GeorefData{}, err
	}

	lon, lat, err := s.transformer.SurveyToWGS84(data.SurveyPoint.Eastings, data.SurveyPoint.Northings, code)
	if err != nil {
		return domain.GeorefData{}, fmt.Errorf("survey point to WGS84: %w", err)
	}

	// Resolved fields win; manually maintained ones (typically the
	// vertical datum) survive where the sources had nothing.
	meta.Merge(data.GeoRefParams)
	data.GeoRefParams = meta
	data.ProjectLocation.Longitude = lon
	data.ProjectLocation.Latitude = lat

	if _, err := s.georef.Write(ctx, data); err != nil {
		return domain.GeorefData{}, err
	}
	return data, nil
}
