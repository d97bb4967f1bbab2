package http

import (
	"context"

	"github.com/pejotu/archicad-georef/internal/core/ports"
	"github.com/pejotu/archicad-georef/internal/core/usecases"
)

// ConnChecker verifies that the ArchiCAD addon is reachable. Satisfied by
// the archicad client; mocked in handler tests.
type ConnChecker interface {
	Check(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Georef      *usecases.GeorefService
	Resolver    *usecases.ResolveService
	Pipeline    *usecases.PipelineService
	Transformer ports.CoordinateTransformer
	Archicad    ConnChecker
}
