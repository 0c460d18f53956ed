// Package geo wraps the external geocoding and routing provider.  It exposes
// three thin clients: Geocoder (address -> coordinate), DirectionsClient
// (generic drive/cycle/walk routing) and TransitClient (public-transit
// routing).  The two routing endpoints have independent response schemas and
// deliberately do not share a code path; the itinerary package unifies them
// behind one search service.
package geo

import (
    "errors"
    "net/http"
    "time"
)

// Mode selects the kind of journey requested from the routing provider.
type Mode string

const (
    ModeDrive   Mode = "drive"
    ModeCycle   Mode = "cycle"
    ModeWalk    Mode = "walk"
    ModeTransit Mode = "transit"
)

// ErrNotFound is returned when an address cannot be resolved to coordinates,
// whether because the provider returned zero matches, a non-success status,
// or the call itself failed.  Callers must treat it as terminal for that
// address and never guess coordinates.
var ErrNotFound = errors.New("coordinates unavailable")

// ErrProvider is returned when a routing endpoint reports a non-success
// status or cannot be reached.  It is distinct from an empty route list,
// which is a successful search with no results.
var ErrProvider = errors.New("routing provider error")

func newHTTPClient() *http.Client {
    return &http.Client{Timeout: 15 * time.Second}
}
