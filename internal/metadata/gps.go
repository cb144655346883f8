package metadata

import (
	"fmt"
	"strings"

	"image-service/internal/logging"

	"github.com/rwcarlsen/goexif/exif"
)

// extractLocation reconstructs decimal GPS coordinates from the
// degree/minute/second rational triples. A malformed GPS block never
// aborts extraction of the remaining fields.
func extractLocation(x *exif.Exif, fields map[string]string) {
	lat, latOK := coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef, "S")
	lon, lonOK := coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef, "W")
	if latOK && lonOK {
		fields["gpsLatitude"] = fmt.Sprintf("%.6f", lat)
		fields["gpsLongitude"] = fmt.Sprintf("%.6f", lon)
		fields["gpsPosition"] = fmt.Sprintf("%.6f, %.6f", lat, lon)
	}

	if alt, ok := tagRat(x, exif.GPSAltitude, 0); ok {
		if ref, ok := tagInt(x, exif.GPSAltitudeRef); ok && ref == 1 {
			alt = -alt
		}
		fields["gpsAltitude"] = fmt.Sprintf("%.1f m", alt)
	}
}

// coordinate converts one DMS triple plus its hemisphere reference into
// a signed decimal degree value. negRef is the reference letter that
// flips the sign ("S" or "W").
func coordinate(x *exif.Exif, field, refField exif.FieldName, negRef string) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, false
	}
	if tag.Count < 3 {
		logging.Debug("Metadata: truncated GPS triple for %s", field)
		return 0, false
	}

	var parts [3]float64
	for i := 0; i < 3; i++ {
		num, den, ok := ratValue(tag, i)
		if !ok {
			logging.Debug("Metadata: unreadable GPS component %d for %s", i, field)
			return 0, false
		}
		parts[i] = float64(num) / float64(den)
	}

	value := parts[0] + parts[1]/60 + parts[2]/3600

	refTag, err := x.Get(refField)
	if err == nil {
		if ref, err := refTag.StringVal(); err == nil {
			if strings.EqualFold(strings.TrimSpace(ref), negRef) {
				value = -value
			}
		}
	}
	return value, true
}
