package geo

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/mobiway/pmr-assist/internal/model"
)

var (
    testOrigin = model.Coordinate{Lat: 48.8809, Lon: 2.3553}
    testDest   = model.Coordinate{Lat: 48.7262, Lon: 2.3652}
)

func TestDirectionsRoutes(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/route/json" {
            t.Errorf("unexpected path %q", r.URL.Path)
        }
        switch r.URL.Query().Get("mode") {
        case "driving":
            w.Write([]byte(`{"status":"OK","routes":[
                {"summary":{"duration":2520,"distance":31000},
                 "steps":[{"mode":"driving","from":"Gare du Nord","to":"Orly","duration":2520,"distance":31000}]}]}`))
        case "walking":
            w.Write([]byte(`{"status":"ZERO_RESULTS","routes":[]}`))
        default:
            w.Write([]byte(`{"status":"OVER_QUERY_LIMIT"}`))
        }
    }))
    defer srv.Close()

    d := NewDirectionsClient(srv.URL, "test-key")

    routes, err := d.Routes(context.Background(), testOrigin, testDest, ModeDrive)
    if err != nil {
        t.Fatalf("Routes: %v", err)
    }
    if len(routes) != 1 || routes[0].Summary.DurationSeconds != 2520 {
        t.Errorf("unexpected routes %+v", routes)
    }

    empty, err := d.Routes(context.Background(), testOrigin, testDest, ModeWalk)
    if err != nil {
        t.Fatalf("zero results must not be an error: %v", err)
    }
    if len(empty) != 0 {
        t.Errorf("expected empty route list, got %d", len(empty))
    }

    if _, err := d.Routes(context.Background(), testOrigin, testDest, ModeCycle); !errors.Is(err, ErrProvider) {
        t.Errorf("provider status error: got %v, expected ErrProvider", err)
    }
}

func TestDirectionsRejectsTransitMode(t *testing.T) {
    d := NewDirectionsClient("http://unused", "k")
    if _, err := d.Routes(context.Background(), testOrigin, testDest, ModeTransit); err == nil {
        t.Fatal("ModeTransit must be rejected by the generic endpoint client")
    }
}

func TestTransitRoutes(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/transit/json" {
            t.Errorf("unexpected path %q", r.URL.Path)
        }
        w.Write([]byte(`{"status":"OK","routes":[
            {"summary":{"duration":3960},
             "legs":[{"duration":{"value":3960},
                      "steps":[
                        {"travel_mode":"WALKING","duration":{"value":300}},
                        {"travel_mode":"TRANSIT","duration":{"value":1800},
                         "transit_details":{
                            "departure_stop":{"name":"Gare du Nord"},
                            "arrival_stop":{"name":"Antony"},
                            "departure_time":{"text":"10:00"},
                            "arrival_time":{"text":"10:30"},
                            "headsign":"Saint-Rémy",
                            "line":{"short_name":"B","name":"RER B","color":"#7BA3DC",
                                    "vehicle":{"type":"HEAVY_RAIL","name":"Train"}}}}]}]}]}`))
    }))
    defer srv.Close()

    tc := NewTransitClient(srv.URL, "test-key")
    routes, err := tc.Routes(context.Background(), testOrigin, testDest)
    if err != nil {
        t.Fatalf("Routes: %v", err)
    }
    if len(routes) != 1 {
        t.Fatalf("expected 1 route, got %d", len(routes))
    }
    r := routes[0]
    if r.Summary == nil || r.Summary.DurationSeconds != 3960 {
        t.Errorf("unexpected summary %+v", r.Summary)
    }
    if len(r.Legs) != 1 || len(r.Legs[0].Steps) != 2 {
        t.Fatalf("unexpected legs %+v", r.Legs)
    }
    det := r.Legs[0].Steps[1].TransitDetails
    if det == nil || det.Line.Vehicle.Type != "HEAVY_RAIL" || det.DepartureStop.Name != "Gare du Nord" {
        t.Errorf("unexpected transit details %+v", det)
    }
}

func TestTransitProviderFailure(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusBadGateway)
    }))
    defer srv.Close()

    tc := NewTransitClient(srv.URL, "test-key")
    if _, err := tc.Routes(context.Background(), testOrigin, testDest); !errors.Is(err, ErrProvider) {
        t.Errorf("got %v, expected ErrProvider", err)
    }
}
