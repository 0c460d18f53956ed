package model

import "fmt"

// Coordinate is a WGS 84 position in decimal degrees.  Values are immutable
// once produced by the geocoder.
type Coordinate struct {
    Lat float64 `json:"lat"`
    Lon float64 `json:"lon"`
}

// String renders the coordinate as "lat,lon", the format expected by the
// routing provider's origin/destination query parameters.
func (c Coordinate) String() string {
    return fmt.Sprintf("%g,%g", c.Lat, c.Lon)
}

// Zero reports whether the coordinate is the zero value.  A zero coordinate
// is treated as "unresolved", never as a valid position.
func (c Coordinate) Zero() bool { return c.Lat == 0 && c.Lon == 0 }
