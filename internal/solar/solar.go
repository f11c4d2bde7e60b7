package solar

import (
	"fmt"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// degreesPerRadian converts suncalc's radian output to degrees.
const degreesPerRadian = 180 / math.Pi

// Coordinate bounds in degrees.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Position computes solar altitudes for a fixed geographic location.
//
// The location is validated once at construction; Altitude itself is a
// pure computation over the timestamp.
type Position struct {
	latitude  float64
	longitude float64
}

// New creates a Position for the given coordinates.
//
// Parameters:
//   - latitude: Degrees north, -90 to 90
//   - longitude: Degrees east, -180 to 180
//
// Returns:
//   - *Position: Ready for altitude queries
//   - error: ErrInvalidCoordinates if either value is out of range
func New(latitude, longitude float64) (*Position, error) {
	if latitude < minLatitude || latitude > maxLatitude || math.IsNaN(latitude) {
		return nil, fmt.Errorf("%w: latitude %v", ErrInvalidCoordinates, latitude)
	}
	if longitude < minLongitude || longitude > maxLongitude || math.IsNaN(longitude) {
		return nil, fmt.Errorf("%w: longitude %v", ErrInvalidCoordinates, longitude)
	}
	return &Position{latitude: latitude, longitude: longitude}, nil
}

// Altitude returns the solar altitude in degrees at time t.
//
// The altitude is the angle of the sun above the horizon, negative when
// the sun is below it.
//
// Returns:
//   - float64: Altitude in degrees
//   - error: ErrComputation if the underlying calculation produced no
//     usable value
func (p *Position) Altitude(t time.Time) (float64, error) {
	pos := suncalc.GetPosition(t, p.latitude, p.longitude)
	altitude := pos.Altitude * degreesPerRadian
	if math.IsNaN(altitude) || math.IsInf(altitude, 0) {
		return 0, fmt.Errorf("%w: altitude at %s", ErrComputation, t.Format(time.RFC3339))
	}
	return altitude, nil
}

// Latitude returns the configured latitude in degrees.
func (p *Position) Latitude() float64 { return p.latitude }

// Longitude returns the configured longitude in degrees.
func (p *Position) Longitude() float64 { return p.longitude }
