package model

import "time"

// SectionKind distinguishes walking legs from transit legs.  The routing
// provider reports other modes (driving, cycling) for non-transit searches,
// but an itinerary offered for assistance booking only ever contains these
// two kinds.
type SectionKind string

const (
    SectionWalking SectionKind = "walking"
    SectionTransit SectionKind = "transit"
)

// Sentinel place names substituted when the provider omits a stop name.
// Nulls never propagate into an itinerary.
const (
    UnknownDeparture = "unknown departure"
    UnknownArrival   = "unknown arrival"
)

// Stop is one endpoint of a section: a clock time as reported by the
// provider (e.g. "14:37", empty for walking legs) and a place name.
type Stop struct {
    Time  string `json:"time"`
    Place string `json:"place"`
}

// Transport describes the vehicle serving a transit section.  Mode is the
// provider's raw mode string (e.g. "heavy_rail", "bus"); canonicalization
// into an operator happens in the itinerary package.
type Transport struct {
    Mode     string `json:"mode"`
    Name     string `json:"name"`
    Category string `json:"category"`
    Color    string `json:"color"`
    Headsign string `json:"headsign"`
}

// Section is one leg of a candidate itinerary.  Order within an itinerary
// is significant: it defines the travel sequence.
type Section struct {
    Kind      SectionKind `json:"kind"`
    Departure Stop        `json:"departure"`
    Arrival   Stop        `json:"arrival"`
    Transport *Transport  `json:"transport,omitempty"`
}

// Itinerary is an ordered sequence of sections plus the aggregate journey
// duration.  Itineraries are produced fresh per search and never persisted.
type Itinerary struct {
    Sections []Section     `json:"sections"`
    Duration time.Duration `json:"duration"`
}

// TransitSections returns the transit legs of the itinerary in order,
// skipping walking legs.  These are the billable sections mirrored into a
// reservation.
func (it Itinerary) TransitSections() []Section {
    out := make([]Section, 0, len(it.Sections))
    for _, s := range it.Sections {
        if s.Kind == SectionTransit {
            out = append(out, s)
        }
    }
    return out
}
