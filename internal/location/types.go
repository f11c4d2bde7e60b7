package location

import "fmt"

// Source identifies how a location was obtained.
type Source string

const (
	// SourceManual means the coordinates came from configuration.
	SourceManual Source = "manual"

	// SourceAuto means the coordinates were detected at startup.
	SourceAuto Source = "auto"
)

// Location is a geographic position used for the solar calculation.
// It is resolved once at startup and immutable for the rest of the run.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    Source  `json:"source"`
}

// Coordinate bounds in degrees.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Validate checks that the coordinates are within range.
func (l Location) Validate() error {
	if l.Latitude < minLatitude || l.Latitude > maxLatitude {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinates, l.Latitude)
	}
	if l.Longitude < minLongitude || l.Longitude > maxLongitude {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinates, l.Longitude)
	}
	return nil
}

// String formats the location for logging.
func (l Location) String() string {
	return fmt.Sprintf("(%.4f, %.4f) [%s]", l.Latitude, l.Longitude, l.Source)
}
