package usecases

import (
	"strconv"
	"strings"

	"github.com/pejotu/archicad-georef/internal/core/domain"
)

// numericFields maps form field names to setters on the snapshot, in
// presentation order.
var numericFields = []struct {
	name string
	set  func(*domain.GeorefData, float64)
}{
	{"longitude", func(d *domain.GeorefData, v float64) { d.ProjectLocation.Longitude = v }},
	{"latitude", func(d *domain.GeorefData, v float64) { d.ProjectLocation.Latitude = v }},
	{"altitude", func(d *domain.GeorefData, v float64) { d.ProjectLocation.Altitude = v }},
	{"north", func(d *domain.GeorefData, v float64) { d.ProjectLocation.NorthDeg = v }},
	{"eastings", func(d *domain.GeorefData, v float64) { d.SurveyPoint.Eastings = v }},
	{"northings", func(d *domain.GeorefData, v float64) { d.SurveyPoint.Northings = v }},
	{"elevation", func(d *domain.GeorefData, v float64) { d.SurveyPoint.Elevation = v }},
}

var stringFields = []struct {
	name string
	set  func(*domain.GeorefData, string)
}{
	{"crs_name", func(d *domain.GeorefData, v string) { d.GeoRefParams.CRSName = v }},
	{"description", func(d *domain.GeorefData, v string) { d.GeoRefParams.Description = v }},
	{"geodetic_datum", func(d *domain.GeorefData, v string) { d.GeoRefParams.GeodeticDatum = v }},
	{"vertical_datum", func(d *domain.GeorefData, v string) { d.GeoRefParams.VerticalDatum = v }},
	{"map_projection", func(d *domain.GeorefData, v string) { d.GeoRefParams.MapProjection = v }},
	{"map_zone", func(d *domain.GeorefData, v string) { d.GeoRefParams.MapZone = v }},
}

// ParseGeorefFields converts user-supplied string fields into a validated
// snapshot. Numeric fields must all be present and parseable; the first
// offending field is reported as *domain.FieldError with its raw value.
// Metadata fields are free-form strings and may be absent.
func ParseGeorefFields(fields map[string]string) (domain.GeorefData, error) {
	var data domain.GeorefData

	for _, f := range numericFields {
		raw, ok := fields[f.name]
		if !ok || strings.TrimSpace(raw) == "" {
			return domain.GeorefData{}, &domain.FieldError{Field: f.name, Value: raw}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return domain.GeorefData{}, &domain.FieldError{Field: f.name, Value: raw}
		}
		f.set(&data, v)
	}

	for _, f := range stringFields {
		f.set(&data, strings.TrimSpace(fields[f.name]))
	}

	if err := data.Validate(); err != nil {
		return domain.GeorefData{}, err
	}
	return data, nil
}
