package itinerary

import (
    "testing"
    "time"

    "github.com/mobiway/pmr-assist/internal/geo"
    "github.com/mobiway/pmr-assist/internal/model"
)

func transitStep(mode, from, to, depTime, arrTime string) geo.TransitStep {
    return geo.TransitStep{
        TravelMode: "TRANSIT",
        TransitDetails: &geo.TransitDetails{
            DepartureStop: geo.StopPoint{Name: from},
            ArrivalStop:   geo.StopPoint{Name: to},
            DepartureTime: geo.ValueText{Text: depTime},
            ArrivalTime:   geo.ValueText{Text: arrTime},
            Line: geo.TransitLine{
                ShortName: "B",
                Vehicle:   geo.TransitVehicle{Type: mode, Name: "Train"},
            },
        },
    }
}

func walkStep() geo.TransitStep {
    return geo.TransitStep{TravelMode: "WALKING", Duration: geo.ValueText{Value: 300}}
}

func TestFromTransitRouteSectionOrder(t *testing.T) {
    route := geo.TransitRoute{
        Summary: &geo.TransitSummary{DurationSeconds: 3960},
        Legs: []geo.TransitLeg{
            {Steps: []geo.TransitStep{
                walkStep(),
                transitStep("HEAVY_RAIL", "Gare du Nord", "Antony", "10:00", "10:30"),
            }},
            {Steps: []geo.TransitStep{
                transitStep("BUS", "Antony", "Orly", "10:36", "10:51"),
            }},
        },
    }

    it := FromTransitRoute(route)

    if len(it.Sections) != 3 {
        t.Fatalf("expected 3 sections (one per provider step), got %d", len(it.Sections))
    }
    if it.Sections[0].Kind != model.SectionWalking {
        t.Errorf("section 0 should be walking, got %q", it.Sections[0].Kind)
    }
    if it.Sections[1].Departure.Place != "Gare du Nord" || it.Sections[2].Arrival.Place != "Orly" {
        t.Errorf("provider order not preserved: %+v", it.Sections)
    }
    if it.Sections[1].Transport == nil || it.Sections[1].Transport.Mode != "heavy_rail" {
        t.Errorf("transit descriptor lost: %+v", it.Sections[1].Transport)
    }
    if it.Duration != 66*time.Minute {
        t.Errorf("duration = %v, expected 66m from summary", it.Duration)
    }
}

func TestFromTransitRouteDurationWithoutSummary(t *testing.T) {
    route := geo.TransitRoute{
        Legs: []geo.TransitLeg{
            {
                DepartureTime: geo.ValueText{Text: "10:00"},
                ArrivalTime:   geo.ValueText{Text: "10:30"},
                Steps:         []geo.TransitStep{transitStep("HEAVY_RAIL", "A", "B", "10:00", "10:30")},
            },
            {
                DepartureTime: geo.ValueText{Value: 1700000000},
                ArrivalTime:   geo.ValueText{Value: 1700002160},
                Steps:         []geo.TransitStep{transitStep("BUS", "B", "C", "", "")},
            },
        },
    }

    it := FromTransitRoute(route)
    want := 30*time.Minute + 36*time.Minute
    if it.Duration != want {
        t.Errorf("duration = %v, expected %v (sum of per-leg deltas)", it.Duration, want)
    }
}

func TestFromTransitRouteMidnightWrap(t *testing.T) {
    route := geo.TransitRoute{
        Legs: []geo.TransitLeg{{
            DepartureTime: geo.ValueText{Text: "23:50"},
            ArrivalTime:   geo.ValueText{Text: "00:20"},
            Steps:         []geo.TransitStep{transitStep("BUS", "A", "B", "23:50", "00:20")},
        }},
    }
    if d := FromTransitRoute(route).Duration; d != 30*time.Minute {
        t.Errorf("duration across midnight = %v, expected 30m", d)
    }
}

func TestFromTransitRouteUnknownPlaces(t *testing.T) {
    route := geo.TransitRoute{
        Summary: &geo.TransitSummary{DurationSeconds: 600},
        Legs: []geo.TransitLeg{{Steps: []geo.TransitStep{
            transitStep("BUS", "", "", "10:00", "10:10"),
            walkStep(),
        }}},
    }

    it := FromTransitRoute(route)
    if it.Sections[0].Departure.Place != model.UnknownDeparture {
        t.Errorf("missing departure name should default, got %q", it.Sections[0].Departure.Place)
    }
    if it.Sections[0].Arrival.Place != model.UnknownArrival {
        t.Errorf("missing arrival name should default, got %q", it.Sections[0].Arrival.Place)
    }
    if it.Sections[1].Departure.Place != model.UnknownDeparture {
        t.Errorf("walking legs carry sentinel places, got %q", it.Sections[1].Departure.Place)
    }
}

func TestFromRoute(t *testing.T) {
    route := geo.Route{
        Summary: geo.RouteSummary{DurationSeconds: 2520, DistanceMeters: 31000},
        Steps: []geo.RouteStep{
            {Mode: "driving", From: "Gare du Nord", To: "Orly", DurationSeconds: 2520},
        },
    }
    it := FromRoute(route)
    if len(it.Sections) != 1 || it.Duration != 42*time.Minute {
        t.Fatalf("unexpected itinerary %+v", it)
    }
    if len(it.TransitSections()) != 0 {
        t.Error("generic routes must have no billable transit sections")
    }
}

func TestFromRouteDurationFromSteps(t *testing.T) {
    route := geo.Route{
        Steps: []geo.RouteStep{
            {Mode: "walking", DurationSeconds: 600},
            {Mode: "walking", DurationSeconds: 300},
        },
    }
    if d := FromRoute(route).Duration; d != 15*time.Minute {
        t.Errorf("duration = %v, expected 15m from step sum", d)
    }
}
