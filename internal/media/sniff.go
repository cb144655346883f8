package media

import (
	"errors"
	"os"
)

var errEmptyImage = errors.New("image has no pixels")

// SniffFormat detects the raster format of the file at path from its
// leading bytes. It recognizes the formats the raster pipeline accepts
// plus a few common impostors; anything else returns "unknown".
func SniffFormat(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	header := make([]byte, 16)
	n, err := file.Read(header)
	if err != nil {
		return "", err
	}
	header = header[:n]

	switch {
	case len(header) >= 3 && header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF:
		return "jpeg", nil

	case len(header) >= 8 && header[0] == 0x89 && header[1] == 0x50 && header[2] == 0x4E && header[3] == 0x47:
		return "png", nil

	case len(header) >= 4 && header[0] == 0x47 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x38:
		return "gif", nil

	case len(header) >= 12 && header[0] == 0x52 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x46 &&
		header[8] == 0x57 && header[9] == 0x45 && header[10] == 0x42 && header[11] == 0x50:
		return "webp", nil

	case len(header) >= 2 && header[0] == 0x42 && header[1] == 0x4D:
		return "bmp", nil

	case len(header) >= 4 && ((header[0] == 0x49 && header[1] == 0x49 && header[2] == 0x2A && header[3] == 0x00) ||
		(header[0] == 0x4D && header[1] == 0x4D && header[2] == 0x00 && header[3] == 0x2A)):
		// TIFF container: also the envelope of CR2, NEF, ARW and DNG.
		return "tiff", nil
	}

	return "unknown", nil
}
