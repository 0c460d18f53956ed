// Package booking derives reservation-creation payloads from normalized
// itineraries.  The builder performs all validation locally; it has no side
// effects until the payload it returns is handed to the reservation client.
package booking

import (
    "errors"
    "fmt"
    "time"

    "github.com/go-playground/validator/v10"

    "github.com/mobiway/pmr-assist/internal/itinerary"
    "github.com/mobiway/pmr-assist/internal/model"
)

// Rejection reasons, checked before any network call is made.
var (
    // ErrUnauthenticated means the requester identity carries no stable uid.
    ErrUnauthenticated = errors.New("unauthenticated")
    // ErrInvalidItinerary means the itinerary has no sections at all.
    ErrInvalidItinerary = errors.New("invalid itinerary")
    // ErrUnsupportedTransport means the primary transport mode did not
    // canonicalize into a known operator.
    ErrUnsupportedTransport = errors.New("unsupported transport")
    // ErrNoBillableSection means no transit section remains once walking
    // legs are filtered out.
    ErrNoBillableSection = errors.New("no billable section")
)

// PriceFunc computes a price from the total journey duration.  The default
// flat rate is a placeholder business rule; keeping it injectable means the
// eventual pricing source replaces one function, not the builder.
type PriceFunc func(total time.Duration) float64

// DefaultRatePerMinute is the placeholder flat rate applied per journey
// minute.
const DefaultRatePerMinute = 0.05

// FlatRate returns a PriceFunc charging the given amount per minute.
func FlatRate(perMinute float64) PriceFunc {
    return func(total time.Duration) float64 {
        return total.Minutes() * perMinute
    }
}

// Builder turns an identity plus a selected itinerary into a validated
// reservation-creation payload.
type Builder struct {
    Price          PriceFunc
    DisabilityType string
    Now            func() time.Time

    validate *validator.Validate
}

// NewBuilder returns a Builder with the default flat rate and PMR
// disability classification.
func NewBuilder() *Builder {
    return &Builder{
        Price:          FlatRate(DefaultRatePerMinute),
        DisabilityType: "reduced mobility",
        Now:            time.Now,
        validate:       validator.New(),
    }
}

// Build derives a reservation payload.  Origin and destination are the
// place names the user searched for; they are carried through independently
// of the itinerary's own section place names.  All rejection rules run
// before the payload is produced:
//
//  1. the identity must carry a non-empty uid,
//  2. the itinerary must contain at least one section,
//  3. at least one transit section must remain after filtering walking legs,
//  4. every transit section must describe its transport,
//  5. the primary transport mode must canonicalize into a known operator.
func (b *Builder) Build(id model.Identity, it model.Itinerary, origin, destination string) (model.ReservationRequest, error) {
    if id.UID == "" {
        return model.ReservationRequest{}, ErrUnauthenticated
    }
    if len(it.Sections) == 0 {
        return model.ReservationRequest{}, ErrInvalidItinerary
    }
    transit := it.TransitSections()
    if len(transit) == 0 {
        return model.ReservationRequest{}, ErrNoBillableSection
    }
    // A transit section with no transport carries no mode to
    // canonicalize; itineraries are bound from untrusted JSON, so this
    // must reject, not dereference.
    for _, s := range transit {
        if s.Transport == nil {
            return model.ReservationRequest{}, fmt.Errorf("transit section without transport: %w", ErrInvalidItinerary)
        }
    }
    primary := itinerary.CanonicalOperator(transit[0].Transport.Mode)
    if primary == itinerary.OperatorUnknown {
        return model.ReservationRequest{}, fmt.Errorf("mode %q: %w", transit[0].Transport.Mode, ErrUnsupportedTransport)
    }

    now := b.Now().UTC()
    arrival := now
    if it.Duration > 0 {
        arrival = now.Add(it.Duration)
    }

    sections := make([]model.ReservationSectionRequest, 0, len(transit))
    for _, s := range transit {
        secDur := time.Duration(0)
        if d, ok := itinerary.ClockDelta(s.Departure.Time, s.Arrival.Time); ok {
            secDur = d
        }
        sections = append(sections, model.ReservationSectionRequest{
            Operator:        string(itinerary.CanonicalOperator(s.Transport.Mode)),
            Origin:          s.Departure.Place,
            Destination:     s.Arrival.Place,
            Price:           0,
            Billable:        true,
            DurationSeconds: int64(secDur.Seconds()),
            DepartureAt:     now,
            ArrivalAt:       arrival,
        })
    }

    req := model.ReservationRequest{
        RequesterUID:    id.UID,
        FirstName:       nameOr(id.FirstName),
        LastName:        nameOr(id.LastName),
        Origin:          origin,
        Destination:     destination,
        Operator:        string(primary),
        Price:           b.Price(it.Duration),
        DepartureAt:     now,
        ArrivalAt:       arrival,
        DurationSeconds: int64(it.Duration.Seconds()),
        DistanceMeters:  0,
        DisabilityType:  b.DisabilityType,
        Assistance:      true,
        Sections:        sections,
    }
    if err := b.validate.Struct(req); err != nil {
        return model.ReservationRequest{}, fmt.Errorf("payload validation: %w", err)
    }
    return req, nil
}

func nameOr(name string) string {
    if name == "" {
        return "unknown"
    }
    return name
}
