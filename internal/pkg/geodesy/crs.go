package geodesy

import (
	"fmt"

	"github.com/wroge/wgs84"
)

// WGS84Code is the EPSG code for WGS84 geographic coordinates.
const WGS84Code = 4326

// crsByCode maps EPSG codes to coordinate reference systems. The wgs84
// library ships the math; this table pins down exactly which codes the tool
// supports so behavior does not depend on library-internal registries.
var crsByCode = buildCRSTable()

func buildCRSTable() map[int]wgs84.CoordinateReferenceSystem {
	table := map[int]wgs84.CoordinateReferenceSystem{
		4326:  wgs84.LonLat(),
		4258:  wgs84.ETRS89().LonLat(),
		3857:  wgs84.WebMercator(),
		27700: wgs84.OSGB36NationalGrid(),
		// ETRS89 / TM35FIN(E,N), the Finnish national grid.
		3067: wgs84.ETRS89().TransverseMercator(27, 0, 0.9996, 500000, 0),
	}

	// WGS 84 / UTM zones 1-60, both hemispheres.
	for zone := 1; zone <= 60; zone++ {
		table[32600+zone] = wgs84.UTM(float64(zone), true)
		table[32700+zone] = wgs84.UTM(float64(zone), false)
	}

	// ETRS89 / UTM zones 28-38.
	for zone := 28; zone <= 38; zone++ {
		table[25800+zone] = wgs84.ETRS89UTM(float64(zone))
	}

	// DHDN / 3-degree Gauss-Krüger zones 2-5.
	for zone := 2; zone <= 5; zone++ {
		table[31464+zone] = wgs84.DHDN2001GK(float64(zone))
	}

	// ETRS89 / GK19FIN..GK31FIN. Central meridian equals the zone number,
	// false easting encodes it in the leading digits.
	for lon := 19; lon <= 31; lon++ {
		table[3873+lon-19] = wgs84.ETRS89().TransverseMercator(
			float64(lon), 0, 1, float64(lon)*1000000+500000, 0)
	}

	return table
}

func crsForCode(code int) (wgs84.CoordinateReferenceSystem, error) {
	crs, ok := crsByCode[code]
	if !ok {
		return nil, fmt.Errorf("unsupported EPSG code %d", code)
	}
	return crs, nil
}

// SupportedCode reports whether a code can be used as a transform endpoint.
func SupportedCode(code int) bool {
	_, ok := crsByCode[code]
	return ok
}
