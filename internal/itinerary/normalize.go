// Package itinerary reshapes raw provider routes into the internal
// itinerary model and unifies the generic and transit routing endpoints
// behind a single search service.
package itinerary

import (
    "strings"
    "time"

    "github.com/mobiway/pmr-assist/internal/geo"
    "github.com/mobiway/pmr-assist/internal/model"
)

// FromTransitRoute normalizes one raw transit route into an itinerary.
// Every provider step becomes exactly one section, in provider order; no
// reordering or deduplication is performed.  Missing stop names are
// replaced with the sentinel unknown-place strings.
func FromTransitRoute(r geo.TransitRoute) model.Itinerary {
    var sections []model.Section
    for _, leg := range r.Legs {
        for _, step := range leg.Steps {
            sections = append(sections, transitSection(step))
        }
    }
    return model.Itinerary{
        Sections: sections,
        Duration: transitDuration(r),
    }
}

func transitSection(step geo.TransitStep) model.Section {
    if !strings.EqualFold(step.TravelMode, "TRANSIT") || step.TransitDetails == nil {
        return model.Section{
            Kind:      model.SectionWalking,
            Departure: model.Stop{Place: model.UnknownDeparture},
            Arrival:   model.Stop{Place: model.UnknownArrival},
        }
    }
    det := step.TransitDetails
    name := det.Line.ShortName
    if name == "" {
        name = det.Line.Name
    }
    if name == "" {
        name = "unknown line"
    }
    return model.Section{
        Kind: model.SectionTransit,
        Departure: model.Stop{
            Time:  det.DepartureTime.Text,
            Place: placeOr(det.DepartureStop.Name, model.UnknownDeparture),
        },
        Arrival: model.Stop{
            Time:  det.ArrivalTime.Text,
            Place: placeOr(det.ArrivalStop.Name, model.UnknownArrival),
        },
        Transport: &model.Transport{
            Mode:     strings.ToLower(det.Line.Vehicle.Type),
            Name:     name,
            Category: det.Line.Vehicle.Name,
            Color:    det.Line.Color,
            Headsign: det.Headsign,
        },
    }
}

// transitDuration takes the provider summary when present, otherwise sums
// per-leg arrival-minus-departure deltas.  Both response shapes occur in
// the wild and both must be supported.
func transitDuration(r geo.TransitRoute) time.Duration {
    if r.Summary != nil && r.Summary.DurationSeconds > 0 {
        return time.Duration(r.Summary.DurationSeconds) * time.Second
    }
    var total time.Duration
    for _, leg := range r.Legs {
        total += legDuration(leg)
    }
    return total
}

func legDuration(leg geo.TransitLeg) time.Duration {
    if leg.ArrivalTime.Value > 0 && leg.DepartureTime.Value > 0 && leg.ArrivalTime.Value >= leg.DepartureTime.Value {
        return time.Duration(leg.ArrivalTime.Value-leg.DepartureTime.Value) * time.Second
    }
    if d, ok := ClockDelta(leg.DepartureTime.Text, leg.ArrivalTime.Text); ok {
        return d
    }
    if leg.Duration.Value > 0 {
        return time.Duration(leg.Duration.Value) * time.Second
    }
    return 0
}

// ClockDelta computes arrival minus departure from "15:04"-style display
// times.  A negative delta means the leg crosses midnight and is wrapped
// by 24 hours.  The booking builder reuses it to derive per-section
// durations from normalized stop times.
func ClockDelta(departure, arrival string) (time.Duration, bool) {
    dep, err1 := time.Parse("15:04", strings.TrimSpace(departure))
    arr, err2 := time.Parse("15:04", strings.TrimSpace(arrival))
    if err1 != nil || err2 != nil {
        return 0, false
    }
    d := arr.Sub(dep)
    if d < 0 {
        d += 24 * time.Hour
    }
    return d, true
}

// FromRoute normalizes one raw generic (drive/cycle/walk) route.  Generic
// steps carry no transit descriptor, so every section is a walking-kind
// leg from the booking perspective: none of them are billable.
func FromRoute(r geo.Route) model.Itinerary {
    sections := make([]model.Section, 0, len(r.Steps))
    for _, step := range r.Steps {
        sections = append(sections, model.Section{
            Kind:      model.SectionWalking,
            Departure: model.Stop{Place: placeOr(step.From, model.UnknownDeparture)},
            Arrival:   model.Stop{Place: placeOr(step.To, model.UnknownArrival)},
        })
    }
    dur := r.Summary.DurationSeconds
    if dur == 0 {
        for _, step := range r.Steps {
            dur += step.DurationSeconds
        }
    }
    return model.Itinerary{
        Sections: sections,
        Duration: time.Duration(dur) * time.Second,
    }
}

func placeOr(name, fallback string) string {
    if strings.TrimSpace(name) == "" {
        return fallback
    }
    return name
}
