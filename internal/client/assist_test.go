package client

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/mobiway/pmr-assist/internal/model"
)

func TestCreateRoundTrip(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost || r.URL.Path != "/api/Reservation" {
            t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
        }
        if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
            t.Errorf("Authorization = %q", got)
        }
        var req model.ReservationRequest
        if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
            t.Fatalf("decode request: %v", err)
        }
        // echo the payload back as a created reservation, price recomputed
        // server-side
        w.WriteHeader(http.StatusCreated)
        json.NewEncoder(w).Encode(map[string]any{
            "id":              42,
            "requesterUid":    req.RequesterUID,
            "origin":          req.Origin,
            "destination":     req.Destination,
            "operator":        req.Operator,
            "price":           req.Price + 1,
            "durationSeconds": req.DurationSeconds,
            "status":          "pending",
        })
    }))
    defer srv.Close()

    c := New(srv.URL, StaticToken("tok-1"))
    req := model.ReservationRequest{
        RequesterUID:    "uid-123",
        Origin:          "Gare du Nord",
        Destination:     "Aéroport d'Orly",
        Operator:        "SNCF",
        Price:           3.30,
        DurationSeconds: 3960,
    }
    res, err := c.Create(context.Background(), req)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    if res.ID != 42 || res.Status != model.StatusPending {
        t.Errorf("unexpected reservation %+v", res)
    }
    // round-trip must preserve origin, destination and duration; price may
    // legitimately be recomputed server-side
    if res.Origin != req.Origin || res.Destination != req.Destination || res.DurationSeconds != req.DurationSeconds {
        t.Errorf("round-trip lost fields: %+v", res)
    }
}

func TestListNormalizesLegacyFields(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/Reservation" {
            t.Errorf("unexpected path %s", r.URL.Path)
        }
        w.Write([]byte(`[
            {"id":1,"firebaseUid":"u1","nom":"Durand","prenom":"Marie",
             "lieuDepart":"Gare du Nord","lieuArrivee":"Orly",
             "typeTransport":"SNCF","prix":3.3,"dureeTotaleEnSecondes":3960,
             "statut":"en attente",
             "sections":[{"modeTransport":"SNCF","depart":"Gare du Nord","arrivee":"Antony","facturation":true}]},
            {"id":2,"requesterUid":"u2","firstName":"Ali","lastName":"Benali",
             "origin":"Lyon Part-Dieu","destination":"Perrache",
             "operator":"RATP","price":1.2,"durationSeconds":1440,"status":"ACCEPTED"}
        ]`))
    }))
    defer srv.Close()

    c := New(srv.URL, StaticToken("tok"))
    list, err := c.ListAll(context.Background())
    if err != nil {
        t.Fatalf("ListAll: %v", err)
    }
    if len(list) != 2 {
        t.Fatalf("expected 2 reservations, got %d", len(list))
    }

    legacy := list[0]
    if legacy.RequesterUID != "u1" || legacy.FirstName != "Marie" || legacy.LastName != "Durand" {
        t.Errorf("legacy identity not normalized: %+v", legacy)
    }
    if legacy.Origin != "Gare du Nord" || legacy.Destination != "Orly" || legacy.Operator != "SNCF" {
        t.Errorf("legacy journey fields not normalized: %+v", legacy)
    }
    if legacy.Status != model.StatusPending {
        t.Errorf("legacy status %q not normalized to pending", legacy.Status)
    }
    if len(legacy.Sections) != 1 || legacy.Sections[0].Origin != "Gare du Nord" || !legacy.Sections[0].Billable {
        t.Errorf("legacy sections not normalized: %+v", legacy.Sections)
    }

    if list[1].Status != model.StatusAccepted || list[1].Origin != "Lyon Part-Dieu" {
        t.Errorf("canonical reservation mangled: %+v", list[1])
    }
}

func TestListKeepsExplicitSectionPositions(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        // explicit out-of-order positions, one of them a legitimate 0
        w.Write([]byte(`[
            {"id":1,"status":"pending","sections":[
                {"position":2,"operator":"SNCF"},
                {"position":0,"operator":"RATP"},
                {"position":1,"operator":"SNCF"}
            ]},
            {"id":2,"status":"pending","sections":[
                {"operator":"SNCF"},
                {"operator":"RATP"}
            ]}
        ]`))
    }))
    defer srv.Close()

    c := New(srv.URL, StaticToken("tok"))
    list, err := c.ListAll(context.Background())
    if err != nil {
        t.Fatalf("ListAll: %v", err)
    }

    explicit := list[0].Sections
    if explicit[0].Position != 2 || explicit[1].Position != 0 || explicit[2].Position != 1 {
        t.Errorf("explicit positions rewritten: %d,%d,%d",
            explicit[0].Position, explicit[1].Position, explicit[2].Position)
    }
    // with no positions at all, array order stands in
    omitted := list[1].Sections
    if omitted[0].Position != 0 || omitted[1].Position != 1 {
        t.Errorf("omitted positions not defaulted from index: %d,%d",
            omitted[0].Position, omitted[1].Position)
    }
}

func TestListRejectsUnknownStatus(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`[{"id":1,"status":"archived"}]`))
    }))
    defer srv.Close()

    c := New(srv.URL, StaticToken("tok"))
    if _, err := c.ListAll(context.Background()); err == nil {
        t.Fatal("unknown status must be an error, not coerced")
    }
}

func TestTransitionOptimisticRelabel(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/Reservation/7/accept" {
            t.Errorf("unexpected path %s", r.URL.Path)
        }
        // server echoes a stale status; the client must relabel anyway
        w.Write([]byte(`{"id":7,"origin":"A","destination":"B","status":"en attente"}`))
    }))
    defer srv.Close()

    c := New(srv.URL, StaticToken("tok"))
    res, err := c.Accept(context.Background(), 7)
    if err != nil {
        t.Fatalf("Accept: %v", err)
    }
    if res.Status != model.StatusAccepted {
        t.Errorf("status = %q, expected optimistic relabel to accepted", res.Status)
    }
    if res.Origin != "A" {
        t.Errorf("echoed fields lost: %+v", res)
    }
}

func TestTransitionServerFailureIsAuthoritative(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/Reservation/42/accept" {
            t.Errorf("unexpected path %s", r.URL.Path)
        }
        w.WriteHeader(http.StatusConflict)
        w.Write([]byte(`{"error":"reservation already completed"}`))
    }))
    defer srv.Close()

    c := New(srv.URL, StaticToken("tok"))
    _, err := c.Accept(context.Background(), 42)
    if err == nil {
        t.Fatal("Accept on a completed reservation must fail")
    }
    var apiErr *APIError
    if !errors.As(err, &apiErr) {
        t.Fatalf("expected *APIError, got %T: %v", err, err)
    }
    if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "reservation already completed" {
        t.Errorf("unexpected api error %+v", apiErr)
    }
}

func TestListAcceptedByPath(t *testing.T) {
    var gotPath string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotPath = r.URL.Path
        w.Write([]byte(`[]`))
    }))
    defer srv.Close()

    c := New(srv.URL, StaticToken("tok"))
    if _, err := c.ListAcceptedBy(context.Background(), 9); err != nil {
        t.Fatalf("ListAcceptedBy: %v", err)
    }
    if gotPath != "/api/Reservation/accepted/9" {
        t.Errorf("path = %q", gotPath)
    }
}

func TestTokenSourceFailure(t *testing.T) {
    c := New("http://unused", func(context.Context) (string, error) {
        return "", errors.New("identity provider down")
    })
    if _, err := c.ListAll(context.Background()); err == nil {
        t.Fatal("token failure must surface")
    }
}

func TestDoTimeoutIsTransportError(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        time.Sleep(50 * time.Millisecond)
        w.Write([]byte(`[]`))
    }))
    defer srv.Close()

    c := New(srv.URL, StaticToken("tok"))
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
    defer cancel()
    if _, err := c.ListAll(ctx); err == nil {
        t.Fatal("cancelled context must abort the call")
    }
}
