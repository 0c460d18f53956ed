package booking

import (
    "errors"
    "math"
    "testing"
    "time"

    "github.com/mobiway/pmr-assist/internal/model"
)

var testIdentity = model.Identity{UID: "uid-123", FirstName: "Marie", LastName: "Durand"}

func transitSection(mode, from, to, depTime, arrTime string) model.Section {
    return model.Section{
        Kind:      model.SectionTransit,
        Departure: model.Stop{Time: depTime, Place: from},
        Arrival:   model.Stop{Time: arrTime, Place: to},
        Transport: &model.Transport{Mode: mode},
    }
}

func walkingSection() model.Section {
    return model.Section{
        Kind:      model.SectionWalking,
        Departure: model.Stop{Place: model.UnknownDeparture},
        Arrival:   model.Stop{Place: model.UnknownArrival},
    }
}

// gareDuNordOrly is the reference journey: RER then bus, 66 minutes total.
func gareDuNordOrly() model.Itinerary {
    return model.Itinerary{
        Duration: 66 * time.Minute,
        Sections: []model.Section{
            walkingSection(),
            transitSection("heavy_rail", "Gare du Nord", "Antony", "10:00", "10:30"),
            transitSection("bus", "Antony", "Aéroport d'Orly", "10:36", "10:51"),
        },
    }
}

func TestBuildReferenceJourney(t *testing.T) {
    b := NewBuilder()
    b.Now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

    req, err := b.Build(testIdentity, gareDuNordOrly(), "Gare du Nord", "Aéroport d'Orly")
    if err != nil {
        t.Fatalf("Build: %v", err)
    }

    if req.Operator != "SNCF" {
        t.Errorf("primary operator = %q, expected SNCF (first transit section is heavy rail)", req.Operator)
    }
    if want := 66 * DefaultRatePerMinute; math.Abs(req.Price-want) > 1e-9 {
        t.Errorf("price = %v, expected %v (66 minutes at flat rate)", req.Price, want)
    }
    if req.DurationSeconds != 66*60 {
        t.Errorf("duration = %d s, expected 3960", req.DurationSeconds)
    }
    if req.Origin != "Gare du Nord" || req.Destination != "Aéroport d'Orly" {
        t.Errorf("searched place names must be carried through, got %q -> %q", req.Origin, req.Destination)
    }
    if len(req.Sections) != 2 {
        t.Fatalf("expected 2 billable sections (walking filtered), got %d", len(req.Sections))
    }
    if req.Sections[0].Operator != "SNCF" || req.Sections[1].Operator != "RATP" {
        t.Errorf("section operators = %q, %q", req.Sections[0].Operator, req.Sections[1].Operator)
    }
    if req.Sections[0].DurationSeconds != 30*60 {
        t.Errorf("section 0 duration = %d s, expected 1800 from stop times", req.Sections[0].DurationSeconds)
    }
    if !req.ArrivalAt.Equal(req.DepartureAt.Add(66 * time.Minute)) {
        t.Errorf("arrival %v not departure+66m", req.ArrivalAt)
    }
}

func TestBuildRejectsMissingUID(t *testing.T) {
    b := NewBuilder()
    _, err := b.Build(model.Identity{FirstName: "Marie"}, gareDuNordOrly(), "a", "b")
    if !errors.Is(err, ErrUnauthenticated) {
        t.Errorf("got %v, expected ErrUnauthenticated", err)
    }
}

func TestBuildRejectsEmptyItinerary(t *testing.T) {
    b := NewBuilder()
    _, err := b.Build(testIdentity, model.Itinerary{}, "a", "b")
    if !errors.Is(err, ErrInvalidItinerary) {
        t.Errorf("got %v, expected ErrInvalidItinerary", err)
    }
}

func TestBuildRejectsWalkingOnlyItinerary(t *testing.T) {
    b := NewBuilder()
    it := model.Itinerary{
        Duration: 20 * time.Minute,
        Sections: []model.Section{walkingSection(), walkingSection()},
    }
    _, err := b.Build(testIdentity, it, "a", "b")
    if !errors.Is(err, ErrNoBillableSection) {
        t.Errorf("got %v, expected ErrNoBillableSection", err)
    }
}

func TestBuildRejectsTransitSectionWithoutTransport(t *testing.T) {
	b := NewBuilder()
	// itineraries arrive from untrusted JSON, so a transit section may be
	// missing its transport entirely
	it := model.Itinerary{
		Duration: 30 * time.Minute,
		Sections: []model.Section{
			{Kind: model.SectionTransit, Departure: model.Stop{Place: "A"}, Arrival: model.Stop{Place: "B"}},
		},
	}
	req, err := b.Build(testIdentity, it, "a", "b")
	if !errors.Is(err, ErrInvalidItinerary) {
		t.Errorf("got %v, expected ErrInvalidItinerary", err)
	}
	if len(req.Sections) != 0 {
		t.Errorf("rejected build must not produce sections: %+v", req.Sections)
	}
}

func TestBuildRejectsUnknownPrimaryMode(t *testing.T) {
    b := NewBuilder()
    it := model.Itinerary{
        Duration: 45 * time.Minute,
        Sections: []model.Section{
            transitSection("ferry", "Quai A", "Quai B", "09:00", "09:45"),
        },
    }
    _, err := b.Build(testIdentity, it, "a", "b")
    if !errors.Is(err, ErrUnsupportedTransport) {
        t.Errorf("got %v, expected ErrUnsupportedTransport", err)
    }
}

func TestBuildInjectablePrice(t *testing.T) {
    b := NewBuilder()
    b.Price = func(total time.Duration) float64 { return 42 }
    req, err := b.Build(testIdentity, gareDuNordOrly(), "a", "b")
    if err != nil {
        t.Fatalf("Build: %v", err)
    }
    if req.Price != 42 {
        t.Errorf("price = %v, expected injected 42", req.Price)
    }
}
