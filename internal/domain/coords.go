package domain

import (
	"math"
	"strconv"
)

// Coordinates is a validated ICRS sky position in decimal degrees.
type Coordinates struct {
	RA  float64
	Dec float64
}

// NewCoordinates validates ra in [0, 360) and dec in [-90, 90]. NaN and
// infinities are rejected.
func NewCoordinates(ra, dec float64) (Coordinates, error) {
	if math.IsNaN(ra) || math.IsInf(ra, 0) || ra < 0 || ra >= 360 {
		return Coordinates{}, &InputError{Field: "ra", Value: ra, Reason: "must be in [0, 360)", Err: ErrInvalidCoordinates}
	}
	if math.IsNaN(dec) || math.IsInf(dec, 0) || dec < -90 || dec > 90 {
		return Coordinates{}, &InputError{Field: "dec", Value: dec, Reason: "must be in [-90, 90]", Err: ErrInvalidCoordinates}
	}
	return Coordinates{RA: ra, Dec: dec}, nil
}

// Key is a stable textual identity for the position, e.g. "194.04625,-5.789167".
func (c Coordinates) Key() string {
	return FormatDegrees(c.RA) + "," + FormatDegrees(c.Dec)
}

// FormatDegrees renders an angle with the shortest decimal that round-trips.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
