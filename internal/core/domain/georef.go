package domain

import "math"

// ProjectLocation is the WGS84 geographic location of the project origin.
// North is held in degrees everywhere inside this module; the addon wire
// format uses radians and the conversion happens only at the read/write
// boundary.
type ProjectLocation struct {
	Longitude float64 `json:"longitude"` // decimal degrees
	Latitude  float64 `json:"latitude"`  // decimal degrees
	Altitude  float64 `json:"altitude"`  // meters
	NorthDeg  float64 `json:"north_deg"` // degrees
}

// SurveyPointPosition is the survey point in the project's local projected CRS.
type SurveyPointPosition struct {
	Eastings  float64 `json:"eastings"`
	Northings float64 `json:"northings"`
	Elevation float64 `json:"elevation"` // meters above the vertical datum
}

// CRSMetadata carries the CRS identification strings of IFC IfcProjectedCRS.
// Every field is independently optional; a resolved CRS only guarantees a
// non-empty name.
type CRSMetadata struct {
	CRSName       string `json:"crs_name"`       // e.g. "ETRS89 / TM35FIN(E,N)"
	Description   string `json:"description"`    // informal description
	GeodeticDatum string `json:"geodetic_datum"` // e.g. "European Terrestrial Reference System 1989"
	VerticalDatum string `json:"vertical_datum"` // e.g. "N2000"
	MapProjection string `json:"map_projection"` // e.g. "Transverse Mercator"
	MapZone       string `json:"map_zone"`       // e.g. "35"
}

// Merge fills every empty field of m from other. Fields already populated
// are never overwritten, so folding partial results from ordered sources
// gives first-non-empty-wins semantics.
func (m *CRSMetadata) Merge(other CRSMetadata) {
	if m.CRSName == "" {
		m.CRSName = other.CRSName
	}
	if m.Description == "" {
		m.Description = other.Description
	}
	if m.GeodeticDatum == "" {
		m.GeodeticDatum = other.GeodeticDatum
	}
	if m.VerticalDatum == "" {
		m.VerticalDatum = other.VerticalDatum
	}
	if m.MapProjection == "" {
		m.MapProjection = other.MapProjection
	}
	if m.MapZone == "" {
		m.MapZone = other.MapZone
	}
}

// IsZero reports whether no field is populated.
func (m CRSMetadata) IsZero() bool {
	return m == CRSMetadata{}
}

// GeorefData is one complete snapshot of a project's georeferencing state.
// A fresh value is produced on every read; whoever holds it owns it.
type GeorefData struct {
	ProjectLocation ProjectLocation     `json:"project_location"`
	SurveyPoint     SurveyPointPosition `json:"survey_point"`
	GeoRefParams    CRSMetadata         `json:"geo_ref_params"`
}

// Validate checks that the numeric fields are finite and within range.
// It runs before any payload is handed to the addon, so an invalid edit
// never reaches the gateway.
func (d GeorefData) Validate() error {
	checks := []struct {
		label string
		value float64
	}{
		{"longitude", d.ProjectLocation.Longitude},
		{"latitude", d.ProjectLocation.Latitude},
		{"altitude", d.ProjectLocation.Altitude},
		{"north", d.ProjectLocation.NorthDeg},
		{"eastings", d.SurveyPoint.Eastings},
		{"northings", d.SurveyPoint.Northings},
		{"elevation", d.SurveyPoint.Elevation},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &FieldError{Field: c.label, Value: c.value}
		}
	}
	if d.ProjectLocation.Longitude < -180 || d.ProjectLocation.Longitude > 180 {
		return &FieldError{Field: "longitude", Value: d.ProjectLocation.Longitude}
	}
	if d.ProjectLocation.Latitude < -90 || d.ProjectLocation.Latitude > 90 {
		return &FieldError{Field: "latitude", Value: d.ProjectLocation.Latitude}
	}
	return nil
}
