package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pejotu/archicad-georef/internal/core/domain"
)

// mapServiceError translates core errors into the API error envelope.
// Addon transport failures are 502 rather than 500: the bridge is fine,
// ArchiCAD is not.
func mapServiceError(c *fiber.Ctx, err error) error {
	var cmdErr *domain.CommandError
	var fieldErr *domain.FieldError
	var resErr *domain.ResolutionError
	switch {
	case errors.As(err, &cmdErr):
		return errBadGateway(c, err.Error())
	case errors.As(err, &fieldErr):
		return errUnprocessable(c, err.Error())
	case errors.As(err, &resErr):
		return errNotFound(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}

// GetGeolocationHandler returns the open project's georeferencing snapshot.
func GetGeolocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := deps.Georef.Read(c.UserContext())
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(data)
	}
}

// PutGeolocationHandler replaces the project's georeferencing state with
// the request body. The whole snapshot is written at once; there is no
// partial update.
func PutGeolocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var data domain.GeorefData
		if err := c.BodyParser(&data); err != nil {
			return errBadRequest(c, "invalid body: "+err.Error())
		}
		if _, err := deps.Georef.Write(c.UserContext(), data); err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(data)
	}
}

type applyCRSRequest struct {
	Code int `json:"code"`
}

// ApplyCRSHandler runs the full pipeline for an EPSG code: resolve
// metadata, transform the survey point to WGS84, write the corrected
// snapshot back. Responds with the snapshot as written.
func ApplyCRSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req applyCRSRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid body: "+err.Error())
		}
		if req.Code <= 0 {
			return errBadRequest(c, "code must be a positive EPSG code")
		}
		data, err := deps.Pipeline.ApplyCRS(c.UserContext(), req.Code)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(data)
	}
}

type crsResponse struct {
	Code int `json:"code"`
	domain.CRSMetadata
}

// GetCRSHandler resolves an EPSG code to CRS metadata without touching
// the project.
func GetCRSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return errBadRequest(c, "code must be a positive EPSG code")
		}
		meta, err := deps.Resolver.Resolve(c.UserContext(), code)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(crsResponse{Code: code, CRSMetadata: meta})
	}
}

// InvalidateCRSHandler drops cached metadata for an EPSG code so the next
// lookup queries the sources again, picking up upstream corrections before
// the TTL expires.
func InvalidateCRSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := c.ParamsInt("code")
		if err != nil || code <= 0 {
			return errBadRequest(c, "code must be a positive EPSG code")
		}
		if err := deps.Resolver.Invalidate(c.UserContext(), code); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

type transformResponse struct {
	From int     `json:"from"`
	To   int     `json:"to"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// TransformHandler converts a coordinate triple between two EPSG codes.
// Query: from, to, x, y, optional z. Coordinates are always ordered
// easting/longitude first regardless of the EPSG axis convention.
func TransformHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := c.QueryInt("from", 0)
		to := c.QueryInt("to", 0)
		if from <= 0 || to <= 0 {
			return errBadRequest(c, "from and to must be positive EPSG codes")
		}
		x, errX := strconv.ParseFloat(c.Query("x"), 64)
		y, errY := strconv.ParseFloat(c.Query("y"), 64)
		if errX != nil || errY != nil {
			return errBadRequest(c, "x and y must be numeric")
		}
		z := 0.0
		if raw := c.Query("z"); raw != "" {
			var errZ error
			if z, errZ = strconv.ParseFloat(raw, 64); errZ != nil {
				return errBadRequest(c, "z must be numeric")
			}
		}
		x2, y2, z2, err := deps.Transformer.Transform(from, to, x, y, z)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(transformResponse{From: from, To: to, X: x2, Y: y2, Z: z2})
	}
}
