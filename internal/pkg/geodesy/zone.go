package geodesy

import "regexp"

// Zone extraction patterns, tried in order. The second pattern catches zone
// numbers embedded between letters ("TM35FIN" -> 35, "GK25FIN" -> 25) and
// will happily match unrelated digit runs such as revision years; downstream
// consumers allow manual correction, so first match wins and no
// disambiguation is attempted.
var (
	zoneWordRe     = regexp.MustCompile(`(?i)\bzone\s*(\d+[A-Z]?)`)
	zoneEmbeddedRe = regexp.MustCompile(`[A-Za-z]+(\d{1,3})[A-Za-z]`)
)

// ExtractZone heuristically pulls a map zone token out of a coordinate
// operation name, falling back to the CRS name. Returns "" when neither
// name contains a zone-like token.
//
//	"UTM zone 33N" -> "33N"
//	"TM35FIN(E,N)" -> "35"
//	"GK25FIN"      -> "25"
//	"zone 6"       -> "6"
func ExtractZone(opName, crsName string) string {
	for _, name := range []string{opName, crsName} {
		if m := zoneWordRe.FindStringSubmatch(name); m != nil {
			return m[1]
		}
		if m := zoneEmbeddedRe.FindStringSubmatch(name); m != nil {
			return m[1]
		}
	}
	return ""
}
