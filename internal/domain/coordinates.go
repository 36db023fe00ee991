package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned when a coordinate is not a finite number
// or falls outside the latitude/longitude range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// DefaultCoordinates is the location every session starts at (São Paulo).
var DefaultCoordinates = Coordinates{Lat: -23.5505, Lon: -46.6333}

// Geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for GeoJSON compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Finite reports whether both components are real numbers.
func (c Coordinates) Finite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0)
}

// InRange reports whether the pair is a plausible point on the globe.
func (c Coordinates) InRange() bool {
	return c.Finite() &&
		c.Lat >= -90 && c.Lat <= 90 &&
		c.Lon >= -180 && c.Lon <= 180
}

// Validate checks the pair is in range. Only map clicks are held to this;
// manual edits are accepted as typed.
func (c Coordinates) Validate() error {
	if !c.InRange() {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, c.Lat, c.Lon)
	}
	return nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lon)
}
