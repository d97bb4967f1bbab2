package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/core/ports"
)

// Wire payload types for GetGeoLocation / SetGeoLocation. The addon stores
// the north direction in radians; everything behind this service works in
// degrees, and the conversion happens here and nowhere else.

// LocationPayload is the projectLocation wire block.
type LocationPayload struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Altitude  float64 `json:"altitude"`
	North     float64 `json:"north"` // radians
}

// PositionPayload is the surveyPoint.position wire block.
type PositionPayload struct {
	Eastings  float64 `json:"eastings"`
	Northings float64 `json:"northings"`
	Elevation float64 `json:"elevation"`
}

// CRSParamsPayload is the surveyPoint.geoReferencingParameters wire block.
type CRSParamsPayload struct {
	CRSName       string `json:"crsName"`
	Description   string `json:"description"`
	GeodeticDatum string `json:"geodeticDatum"`
	VerticalDatum string `json:"verticalDatum"`
	MapProjection string `json:"mapProjection"`
	MapZone       string `json:"mapZone"`
}

// SurveyPointPayload is the surveyPoint wire block.
type SurveyPointPayload struct {
	Position                 PositionPayload  `json:"position"`
	GeoReferencingParameters CRSParamsPayload `json:"geoReferencingParameters"`
}

// GeoLocationPayload is the complete SetGeoLocation parameter shape.
type GeoLocationPayload struct {
	ProjectLocation LocationPayload    `json:"projectLocation"`
	SurveyPoint     SurveyPointPayload `json:"surveyPoint"`
}

// geoLocationResponse mirrors GetGeoLocation. Pointers distinguish a
// missing section from a present-but-zero one.
type geoLocationResponse struct {
	ProjectLocation *LocationPayload `json:"projectLocation"`
	SurveyPoint     *struct {
		Position                 *PositionPayload  `json:"position"`
		GeoReferencingParameters *CRSParamsPayload `json:"geoReferencingParameters"`
	} `json:"surveyPoint"`
}

// GeorefService reads and writes a project's georeferencing state through
// the addon gateway. It is stateless; both operations are single
// request/response calls with no retry and no partial application.
type GeorefService struct {
	gateway ports.AddonGateway
}

// NewGeorefService creates a new GeorefService.
func NewGeorefService(gateway ports.AddonGateway) *GeorefService {
	return &GeorefService{gateway: gateway}
}

// Read fetches the current georeferencing snapshot. Sections missing from
// the response degrade to zero values instead of failing; a transport
// failure surfaces as the gateway's command error.
func (s *GeorefService) Read(ctx context.Context) (domain.GeorefData, error) {
	raw, err := s.gateway.Execute(ctx, "GetGeoLocation", nil)
	if err != nil {
		return domain.GeorefData{}, err
	}

	var resp geoLocationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.GeorefData{}, &domain.CommandError{
			Command: "GetGeoLocation",
			Err:     fmt.Errorf("unexpected response shape: %w", err),
		}
	}

	var data domain.GeorefData
	if pl := resp.ProjectLocation; pl != nil {
		data.ProjectLocation = domain.ProjectLocation{
			Longitude: pl.Longitude,
			Latitude:  pl.Latitude,
			Altitude:  pl.Altitude,
			NorthDeg:  radToDeg(pl.North),
		}
	}
	if sp := resp.SurveyPoint; sp != nil {
		if pos := sp.Position; pos != nil {
			data.SurveyPoint = domain.SurveyPointPosition{
				Eastings:  pos.Eastings,
				Northings: pos.Northings,
				Elevation: pos.Elevation,
			}
		}
		if gp := sp.GeoReferencingParameters; gp != nil {
			data.GeoRefParams = domain.CRSMetadata{
				CRSName:       gp.CRSName,
				Description:   gp.Description,
				GeodeticDatum: gp.GeodeticDatum,
				VerticalDatum: gp.VerticalDatum,
				MapProjection: gp.MapProjection,
				MapZone:       gp.MapZone,
			}
		}
	}

	return data, nil
}

// BuildPayload restates a snapshot into the wire shape. Pure and total: any
// GeorefData produces a payload, north converted from degrees to radians.
func (s *GeorefService) BuildPayload(data domain.GeorefData) GeoLocationPayload {
	return GeoLocationPayload{
		ProjectLocation: LocationPayload{
			Longitude: data.ProjectLocation.Longitude,
			Latitude:  data.ProjectLocation.Latitude,
			Altitude:  data.ProjectLocation.Altitude,
			North:     degToRad(data.ProjectLocation.NorthDeg),
		},
		SurveyPoint: SurveyPointPayload{
			Position: PositionPayload{
				Eastings:  data.SurveyPoint.Eastings,
				Northings: data.SurveyPoint.Northings,
				Elevation: data.SurveyPoint.Elevation,
			},
			GeoReferencingParameters: CRSParamsPayload{
				CRSName:       data.GeoRefParams.CRSName,
				Description:   data.GeoRefParams.Description,
				GeodeticDatum: data.GeoRefParams.GeodeticDatum,
				VerticalDatum: data.GeoRefParams.VerticalDatum,
				MapProjection: data.GeoRefParams.MapProjection,
				MapZone:       data.GeoRefParams.MapZone,
			},
		},
	}
}

// Write validates data, builds the wire payload, and issues SetGeoLocation.
// Validation failures never reach the gateway. The write is undoable inside
// the host application; nothing extra is done here to support rollback.
func (s *GeorefService) Write(ctx context.Context, data domain.GeorefData) (json.RawMessage, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return s.gateway.Execute(ctx, "SetGeoLocation", s.BuildPayload(data))
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }
