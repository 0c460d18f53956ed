package itinerary

import (
    "context"
    "fmt"

    "github.com/mobiway/pmr-assist/internal/geo"
    "github.com/mobiway/pmr-assist/internal/model"
)

// Service resolves addresses and fetches candidate itineraries, hiding the
// split between the generic and transit routing endpoints from callers.
type Service struct {
    Geocoder   *geo.Geocoder
    Directions *geo.DirectionsClient
    Transit    *geo.TransitClient
}

// NewService constructs a Service.  All dependencies must be non-nil.
func NewService(g *geo.Geocoder, d *geo.DirectionsClient, t *geo.TransitClient) *Service {
    if g == nil || d == nil || t == nil {
        panic("nil client passed to itinerary.NewService")
    }
    return &Service{Geocoder: g, Directions: d, Transit: t}
}

// SearchByAddress resolves both endpoints, then fetches and normalizes
// candidate itineraries.  Both resolutions must succeed before any routing
// call is made; a failed resolution fails fast with a descriptive error
// rather than routing on partial data.  An empty result with a nil error
// means the search succeeded but no itinerary exists.
func (s *Service) SearchByAddress(ctx context.Context, originAddr, destAddr string, mode geo.Mode) ([]model.Itinerary, error) {
    origin, err := s.Geocoder.Resolve(ctx, originAddr)
    if err != nil {
        return nil, fmt.Errorf("resolve origin: %w", err)
    }
    dest, err := s.Geocoder.Resolve(ctx, destAddr)
    if err != nil {
        return nil, fmt.Errorf("resolve destination: %w", err)
    }
    return s.Search(ctx, origin, dest, mode)
}

// Search fetches candidate itineraries between two resolved coordinates.
// ModeTransit goes through the transit endpoint, everything else through
// the generic one; both come back normalized into the internal model.
func (s *Service) Search(ctx context.Context, origin, dest model.Coordinate, mode geo.Mode) ([]model.Itinerary, error) {
    if mode == geo.ModeTransit {
        raw, err := s.Transit.Routes(ctx, origin, dest)
        if err != nil {
            return nil, err
        }
        out := make([]model.Itinerary, 0, len(raw))
        for _, r := range raw {
            out = append(out, FromTransitRoute(r))
        }
        return out, nil
    }

    raw, err := s.Directions.Routes(ctx, origin, dest, mode)
    if err != nil {
        return nil, err
    }
    out := make([]model.Itinerary, 0, len(raw))
    for _, r := range raw {
        out = append(out, FromRoute(r))
    }
    return out, nil
}
