package gcode

const (
	// MarkerPrefix precedes the layer number in slicer comments (";LAYER:12").
	MarkerPrefix = "LAYER:"

	// SpeedOverrideCode is the feed-rate override command.
	SpeedOverrideCode = "M220"
)

// Marker returns the search key for a layer. layer is decimal text and is
// used as given, so "07" only matches "LAYER:07".
func Marker(layer string) string {
	return MarkerPrefix + layer
}

// SpeedOverride returns the command line (without terminator) that sets the
// feed-rate override to speed percent.
func SpeedOverride(speed string) string {
	return SpeedOverrideCode + " S" + speed
}
