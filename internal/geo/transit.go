package geo

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/url"
    "strings"

    "github.com/mobiway/pmr-assist/internal/model"
)

// TransitClient calls the provider's public-transit routing endpoint.  Its
// response schema (legs containing steps with transit details) is unrelated
// to the generic endpoint's and is kept as a separate type tree.
type TransitClient struct {
    baseURL string
    apiKey  string
    client  *http.Client
}

// NewTransitClient returns a TransitClient bound to the provider base URL
// and API key.
func NewTransitClient(baseURL, apiKey string) *TransitClient {
    return &TransitClient{
        baseURL: strings.TrimSuffix(baseURL, "/"),
        apiKey:  apiKey,
        client:  newHTTPClient(),
    }
}

// ValueText is the provider's duration/time representation: a numeric value
// (seconds, or a unix timestamp for times) plus a display text such as
// "14:37".  Either part may be missing depending on provider version.
type ValueText struct {
    Value int64  `json:"value"`
    Text  string `json:"text"`
}

// StopPoint names a transit stop.
type StopPoint struct {
    Name string `json:"name"`
}

// TransitLine describes the line serving a transit step.
type TransitLine struct {
    ShortName string         `json:"short_name"`
    Name      string         `json:"name"`
    Color     string         `json:"color"`
    Vehicle   TransitVehicle `json:"vehicle"`
}

// TransitVehicle carries the provider's raw vehicle classification, e.g.
// type "HEAVY_RAIL" with display name "Train".
type TransitVehicle struct {
    Type string `json:"type"`
    Name string `json:"name"`
}

// TransitDetails is present on steps whose travel mode is TRANSIT.
type TransitDetails struct {
    DepartureStop StopPoint   `json:"departure_stop"`
    ArrivalStop   StopPoint   `json:"arrival_stop"`
    DepartureTime ValueText   `json:"departure_time"`
    ArrivalTime   ValueText   `json:"arrival_time"`
    Headsign      string      `json:"headsign"`
    Line          TransitLine `json:"line"`
}

// TransitStep is one walking or riding segment within a leg.
type TransitStep struct {
    TravelMode     string          `json:"travel_mode"` // TRANSIT or WALKING
    Duration       ValueText       `json:"duration"`
    TransitDetails *TransitDetails `json:"transit_details,omitempty"`
}

// TransitLeg groups the steps between two waypoints.
type TransitLeg struct {
    Duration      ValueText     `json:"duration"`
    DepartureTime ValueText     `json:"departure_time"`
    ArrivalTime   ValueText     `json:"arrival_time"`
    Steps         []TransitStep `json:"steps"`
}

// TransitSummary aggregates a transit route.  Some provider versions omit
// it entirely, in which case the duration must be computed from the legs.
type TransitSummary struct {
    DurationSeconds int64 `json:"duration"`
}

// TransitRoute is one raw candidate route from the transit endpoint.
type TransitRoute struct {
    Summary *TransitSummary `json:"summary,omitempty"`
    Legs    []TransitLeg    `json:"legs"`
}

type transitResponse struct {
    Status string         `json:"status"`
    Routes []TransitRoute `json:"routes"`
}

// Routes fetches candidate transit routes between two resolved coordinates.
// Semantics match DirectionsClient.Routes: empty slice means no route
// exists, ErrProvider wraps provider and transport failures.
func (t *TransitClient) Routes(ctx context.Context, origin, dest model.Coordinate) ([]TransitRoute, error) {
    q := url.Values{}
    q.Set("origin", origin.String())
    q.Set("destination", dest.String())
    q.Set("alternatives", "true")
    q.Set("key", t.apiKey)
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/transit/json?"+q.Encode(), nil)
    if err != nil {
        return nil, fmt.Errorf("transit: %v: %w", err, ErrProvider)
    }

    resp, err := t.client.Do(req)
    if err != nil {
        return nil, fmt.Errorf("transit: %v: %w", err, ErrProvider)
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        return nil, fmt.Errorf("transit: http %d: %w", resp.StatusCode, ErrProvider)
    }

    var body transitResponse
    if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
        return nil, fmt.Errorf("transit: decode: %v: %w", err, ErrProvider)
    }
    switch body.Status {
    case "OK":
        return body.Routes, nil
    case "ZERO_RESULTS":
        return []TransitRoute{}, nil
    default:
        return nil, fmt.Errorf("transit: provider status %q: %w", body.Status, ErrProvider)
    }
}
