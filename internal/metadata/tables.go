package metadata

import "fmt"

// Fixed EXIF enumeration tables. Unmapped codes render via lookup as
// "Unknown (<code>)" so raw values stay observable.

var exposurePrograms = map[int64]string{
	0: "Not defined",
	1: "Manual",
	2: "Normal program",
	3: "Aperture priority",
	4: "Shutter priority",
	5: "Creative program",
	6: "Action program",
	7: "Portrait mode",
	8: "Landscape mode",
}

var exposureModes = map[int64]string{
	0: "Auto exposure",
	1: "Manual exposure",
	2: "Auto bracket",
}

var meteringModes = map[int64]string{
	0:   "Unknown",
	1:   "Average",
	2:   "Center-weighted average",
	3:   "Spot",
	4:   "Multi-spot",
	5:   "Pattern",
	6:   "Partial",
	255: "Other",
}

// flashStates decodes the flash tag bitmask against the known bit
// patterns of the EXIF specification.
var flashStates = map[int64]string{
	0x00: "No Flash",
	0x01: "Flash Fired",
	0x05: "Fired, Return not detected",
	0x07: "Fired, Return detected",
	0x08: "On, Did not fire",
	0x09: "On, Fired",
	0x0D: "On, Return not detected",
	0x0F: "On, Return detected",
	0x10: "Off, Did not fire",
	0x14: "Off, Did not fire, Return not detected",
	0x18: "Auto, Did not fire",
	0x19: "Auto, Fired",
	0x1D: "Auto, Fired, Return not detected",
	0x1F: "Auto, Fired, Return detected",
	0x20: "No flash function",
	0x30: "Off, No flash function",
	0x41: "Fired, Red-eye reduction",
	0x45: "Fired, Red-eye reduction, Return not detected",
	0x47: "Fired, Red-eye reduction, Return detected",
	0x49: "On, Red-eye reduction",
	0x4D: "On, Red-eye reduction, Return not detected",
	0x4F: "On, Red-eye reduction, Return detected",
	0x50: "Off, Red-eye reduction",
	0x58: "Auto, Did not fire, Red-eye reduction",
	0x59: "Auto, Fired, Red-eye reduction",
	0x5D: "Auto, Fired, Red-eye reduction, Return not detected",
	0x5F: "Auto, Fired, Red-eye reduction, Return detected",
}

var whiteBalances = map[int64]string{
	0: "Auto",
	1: "Manual",
}

var lightSources = map[int64]string{
	0:   "Unknown",
	1:   "Daylight",
	2:   "Fluorescent",
	3:   "Tungsten (incandescent)",
	4:   "Flash",
	9:   "Fine weather",
	10:  "Cloudy weather",
	11:  "Shade",
	12:  "Daylight fluorescent",
	13:  "Day white fluorescent",
	14:  "Cool white fluorescent",
	15:  "White fluorescent",
	17:  "Standard light A",
	18:  "Standard light B",
	19:  "Standard light C",
	20:  "D55",
	21:  "D65",
	22:  "D75",
	23:  "D50",
	24:  "ISO studio tungsten",
	255: "Other",
}

var subjectDistanceRanges = map[int64]string{
	0: "Unknown",
	1: "Macro",
	2: "Close view",
	3: "Distant view",
}

var sceneTypes = map[int64]string{
	1: "Directly photographed",
}

var sceneCaptureTypes = map[int64]string{
	0: "Standard",
	1: "Landscape",
	2: "Portrait",
	3: "Night scene",
}

var contrasts = map[int64]string{
	0: "Normal",
	1: "Soft",
	2: "Hard",
}

var saturations = map[int64]string{
	0: "Normal",
	1: "Low",
	2: "High",
}

var sharpnesses = map[int64]string{
	0: "Normal",
	1: "Soft",
	2: "Hard",
}

var gainControls = map[int64]string{
	0: "None",
	1: "Low gain up",
	2: "High gain up",
	3: "Low gain down",
	4: "High gain down",
}

// lookup resolves code in table, rendering unmapped codes as
// "Unknown (<code>)".
func lookup(table map[int64]string, code int64) string {
	if label, ok := table[code]; ok {
		return label
	}
	return fmt.Sprintf("Unknown (%d)", code)
}

// lookupFlash resolves the flash bitmask, falling back to
// "Flash (<raw>)" for unrecognized bit patterns.
func lookupFlash(raw int64) string {
	if label, ok := flashStates[raw]; ok {
		return label
	}
	return fmt.Sprintf("Flash (%d)", raw)
}
