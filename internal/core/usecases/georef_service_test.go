package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/core/usecases"
)

// --- Mock AddonGateway ---

type mockGateway struct {
	executeFn func(ctx context.Context, command string, params any) (json.RawMessage, error)
}

func (m *mockGateway) Execute(ctx context.Context, command string, params any) (json.RawMessage, error) {
	if m.executeFn != nil {
		return m.executeFn(ctx, command, params)
	}
	return json.RawMessage(`{}`), nil
}

// --- Tests ---

func TestGeorefService_Read(t *testing.T) {
	gw := &mockGateway{
		executeFn: func(ctx context.Context, command string, params any) (json.RawMessage, error) {
			if command != "GetGeoLocation" {
				t.Errorf("command = %q", command)
			}
			if params != nil {
				t.Errorf("GetGeoLocation takes no parameters, got %v", params)
			}
			return json.RawMessage(`{
				"projectLocation": {"longitude": 24.94, "latitude": 60.17, "altitude": 12.5, "north": 1.5707963267948966},
				"surveyPoint": {
					"position": {"eastings": 385000, "northings": 6672000, "elevation": 3.2},
					"geoReferencingParameters": {"crsName": "ETRS89 / TM35FIN(E,N)", "verticalDatum": "N2000"}
				}
			}`), nil
		},
	}

	data, err := usecases.NewGeorefService(gw).Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(data.ProjectLocation.NorthDeg-90) > 1e-9 {
		t.Errorf("north_deg = %f, want 90 (converted from radians)", data.ProjectLocation.NorthDeg)
	}
	if data.SurveyPoint.Eastings != 385000 {
		t.Errorf("eastings = %f", data.SurveyPoint.Eastings)
	}
	if data.GeoRefParams.CRSName != "ETRS89 / TM35FIN(E,N)" {
		t.Errorf("crs_name = %q", data.GeoRefParams.CRSName)
	}
	if data.GeoRefParams.VerticalDatum != "N2000" {
		t.Errorf("vertical_datum = %q", data.GeoRefParams.VerticalDatum)
	}
}

func TestGeorefService_Read_MissingSectionsDefault(t *testing.T) {
	gw := &mockGateway{
		executeFn: func(ctx context.Context, command string, params any) (json.RawMessage, error) {
			return json.RawMessage(`{"projectLocation": {"longitude": 1.0, "latitude": 2.0}}`), nil
		},
	}

	data, err := usecases.NewGeorefService(gw).Read(context.Background())
	if err != nil {
		t.Fatalf("missing surveyPoint must not fail: %v", err)
	}
	if data.SurveyPoint != (domain.SurveyPointPosition{}) {
		t.Errorf("survey point should be zero, got %+v", data.SurveyPoint)
	}
	if !data.GeoRefParams.IsZero() {
		t.Errorf("crs params should be empty, got %+v", data.GeoRefParams)
	}
	if data.ProjectLocation.Longitude != 1.0 {
		t.Errorf("longitude = %f", data.ProjectLocation.Longitude)
	}
}

func TestGeorefService_Read_TransportError(t *testing.T) {
	gw := &mockGateway{
		executeFn: func(ctx context.Context, command string, params any) (json.RawMessage, error) {
			return nil, &domain.CommandError{Command: command, Err: errors.New("connection refused")}
		},
	}

	_, err := usecases.NewGeorefService(gw).Read(context.Background())
	var cmdErr *domain.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if cmdErr.Command != "GetGeoLocation" {
		t.Errorf("command = %q", cmdErr.Command)
	}
}

func TestGeorefService_BuildPayload(t *testing.T) {
	data := domain.GeorefData{
		ProjectLocation: domain.ProjectLocation{Longitude: 24.94, Latitude: 60.17, Altitude: 12.5, NorthDeg: 90},
		SurveyPoint:     domain.SurveyPointPosition{Eastings: 385000, Northings: 6672000, Elevation: 3.2},
		GeoRefParams: domain.CRSMetadata{
			CRSName:       "ETRS89 / TM35FIN(E,N)",
			Description:   "Finnish national grid",
			GeodeticDatum: "European Terrestrial Reference System 1989",
			VerticalDatum: "N2000",
			MapProjection: "Transverse Mercator",
			MapZone:       "35",
		},
	}

	payload := usecases.NewGeorefService(&mockGateway{}).BuildPayload(data)

	if math.Abs(payload.ProjectLocation.North-math.Pi/2) > 1e-9 {
		t.Errorf("north = %f, want pi/2", payload.ProjectLocation.North)
	}
	if payload.ProjectLocation.Longitude != 24.94 || payload.ProjectLocation.Latitude != 60.17 {
		t.Errorf("location not preserved: %+v", payload.ProjectLocation)
	}
	if payload.SurveyPoint.Position.Eastings != 385000 {
		t.Errorf("eastings = %f", payload.SurveyPoint.Position.Eastings)
	}
	gp := payload.SurveyPoint.GeoReferencingParameters
	if gp.CRSName != data.GeoRefParams.CRSName || gp.VerticalDatum != "N2000" || gp.MapZone != "35" {
		t.Errorf("crs params not preserved: %+v", gp)
	}

	// The nested wire schema, exactly.
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var shape map[string]map[string]any
	if err := json.Unmarshal(raw, &shape); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := shape["projectLocation"]["north"]; !ok {
		t.Error("projectLocation.north missing from wire shape")
	}
	sp := shape["surveyPoint"]
	if _, ok := sp["position"]; !ok {
		t.Error("surveyPoint.position missing from wire shape")
	}
	if _, ok := sp["geoReferencingParameters"]; !ok {
		t.Error("surveyPoint.geoReferencingParameters missing from wire shape")
	}
}

func TestGeorefService_AngleRoundTrip(t *testing.T) {
	svc := usecases.NewGeorefService(&mockGateway{})
	for _, deg := range []float64{0, 0.25, 45, 90, 179.999, 360, -33.3} {
		payload := svc.BuildPayload(domain.GeorefData{
			ProjectLocation: domain.ProjectLocation{NorthDeg: deg},
		})
		back := payload.ProjectLocation.North * 180 / math.Pi
		if math.Abs(back-deg) > 1e-9 {
			t.Errorf("degree round trip for %f drifted to %f", deg, back)
		}
	}
}

func TestGeorefService_Write(t *testing.T) {
	var sentCommand string
	var sentParams any
	gw := &mockGateway{
		executeFn: func(ctx context.Context, command string, params any) (json.RawMessage, error) {
			sentCommand = command
			sentParams = params
			return json.RawMessage(`{"success": true}`), nil
		},
	}

	data := domain.GeorefData{
		ProjectLocation: domain.ProjectLocation{Longitude: 24.94, Latitude: 60.17, NorthDeg: 90},
	}
	raw, err := usecases.NewGeorefService(gw).Write(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sentCommand != "SetGeoLocation" {
		t.Errorf("command = %q", sentCommand)
	}
	payload, ok := sentParams.(usecases.GeoLocationPayload)
	if !ok {
		t.Fatalf("params type = %T", sentParams)
	}
	if math.Abs(payload.ProjectLocation.North-math.Pi/2) > 1e-9 {
		t.Errorf("north = %f", payload.ProjectLocation.North)
	}
	if len(raw) == 0 {
		t.Error("raw result should pass through")
	}
}

func TestGeorefService_Write_ValidationStopsBeforeGateway(t *testing.T) {
	called := false
	gw := &mockGateway{
		executeFn: func(ctx context.Context, command string, params any) (json.RawMessage, error) {
			called = true
			return nil, nil
		},
	}

	data := domain.GeorefData{
		ProjectLocation: domain.ProjectLocation{Latitude: 91},
	}
	_, err := usecases.NewGeorefService(gw).Write(context.Background(), data)
	var fieldErr *domain.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Field != "latitude" {
		t.Errorf("field = %q", fieldErr.Field)
	}
	if called {
		t.Error("gateway must not be reached on validation failure")
	}
}
