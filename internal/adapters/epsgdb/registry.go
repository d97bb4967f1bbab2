// Package epsgdb is the local geodetic database: an embedded table of EPSG
// CRS descriptions that covers the common projected systems without touching
// the network. It is always the first resolution source; anything it cannot
// supply is left for the network source or manual entry.
package epsgdb

import (
	"context"
	"fmt"

	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/pkg/geodesy"
	"github.com/pejotu/archicad-georef/internal/pkg/metrics"
)

const (
	datumWGS84  = "World Geodetic System 1984"
	datumETRS89 = "European Terrestrial Reference System 1989"
	datumDHDN   = "Deutsches Hauptdreiecksnetz"
	datumOSGB36 = "Ordnance Survey of Great Britain 1936"
	datumRGF93  = "Reseau Geodesique Francais 1993"

	methodTransverseMercator = "Transverse Mercator"
)

// entry is one CRS description: registry display name, optional remarks,
// the geodetic datum, and the associated map-projection operation.
type entry struct {
	name     string
	remarks  string
	datum    string
	opMethod string
	opName   string
}

var registry = buildRegistry()

func buildRegistry() map[int]entry {
	table := map[int]entry{
		4326: {
			name:    "WGS 84",
			remarks: "Horizontal component of 3D system.",
			datum:   datumWGS84,
		},
		4258: {
			name:  "ETRS89",
			datum: datumETRS89,
		},
		3857: {
			name:     "WGS 84 / Pseudo-Mercator",
			remarks:  "Uses spherical development of ellipsoidal coordinates.",
			datum:    datumWGS84,
			opMethod: "Popular Visualisation Pseudo Mercator",
			opName:   "Popular Visualisation Pseudo-Mercator",
		},
		3067: {
			name:     "ETRS89 / TM35FIN(E,N)",
			remarks:  "Finnish national grid covering the whole country.",
			datum:    datumETRS89,
			opMethod: methodTransverseMercator,
			opName:   "TM35FIN",
		},
		27700: {
			name:     "OSGB36 / British National Grid",
			datum:    datumOSGB36,
			opMethod: methodTransverseMercator,
			opName:   "British National Grid",
		},
		2154: {
			name:     "RGF93 v1 / Lambert-93",
			datum:    datumRGF93,
			opMethod: "Lambert Conic Conformal (2SP)",
			opName:   "Lambert-93",
		},
	}

	for zone := 1; zone <= 60; zone++ {
		table[32600+zone] = entry{
			name:     fmt.Sprintf("WGS 84 / UTM zone %dN", zone),
			datum:    datumWGS84,
			opMethod: methodTransverseMercator,
			opName:   fmt.Sprintf("UTM zone %dN", zone),
		}
		table[32700+zone] = entry{
			name:     fmt.Sprintf("WGS 84 / UTM zone %dS", zone),
			datum:    datumWGS84,
			opMethod: methodTransverseMercator,
			opName:   fmt.Sprintf("UTM zone %dS", zone),
		}
	}

	for zone := 28; zone <= 38; zone++ {
		table[25800+zone] = entry{
			name:     fmt.Sprintf("ETRS89 / UTM zone %dN", zone),
			datum:    datumETRS89,
			opMethod: methodTransverseMercator,
			opName:   fmt.Sprintf("UTM zone %dN", zone),
		}
	}

	for zone := 2; zone <= 5; zone++ {
		table[31464+zone] = entry{
			name:     fmt.Sprintf("DHDN / 3-degree Gauss-Kruger zone %d", zone),
			datum:    datumDHDN,
			opMethod: methodTransverseMercator,
			opName:   fmt.Sprintf("3-degree Gauss-Kruger zone %d", zone),
		}
	}

	// ETRS89 / GK19FIN .. GK31FIN.
	for lon := 19; lon <= 31; lon++ {
		table[3873+lon-19] = entry{
			name:     fmt.Sprintf("ETRS89 / GK%dFIN", lon),
			datum:    datumETRS89,
			opMethod: methodTransverseMercator,
			opName:   fmt.Sprintf("GK%dFIN", lon),
		}
	}

	return table
}

// Registry implements ports.CRSSource over the embedded table.
type Registry struct{}

// New returns the local registry source.
func New() *Registry { return &Registry{} }

// Name identifies the source in resolver logs.
func (*Registry) Name() string { return "local" }

// Lookup returns the CRS description for code. A miss is an error; the
// resolver decides whether that degrades or fails the whole resolution.
// The local database never knows the vertical datum, that field stays empty.
func (*Registry) Lookup(_ context.Context, code int) (domain.CRSMetadata, error) {
	e, ok := registry[code]
	if !ok {
		metrics.CRSLookupsTotal.WithLabelValues("local", "miss").Inc()
		return domain.CRSMetadata{}, fmt.Errorf("EPSG:%d not in local registry", code)
	}
	metrics.CRSLookupsTotal.WithLabelValues("local", "hit").Inc()

	description := e.remarks
	if description == "" {
		description = e.name
	}

	return domain.CRSMetadata{
		CRSName:       e.name,
		Description:   description,
		GeodeticDatum: e.datum,
		MapProjection: e.opMethod,
		MapZone:       geodesy.ExtractZone(e.opName, e.name),
	}, nil
}
