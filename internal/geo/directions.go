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

// DirectionsClient calls the provider's generic routing endpoint for drive,
// cycle and walk journeys.  Public-transit journeys use TransitClient
// instead; the two endpoints have incompatible schemas.
type DirectionsClient struct {
    baseURL string
    apiKey  string
    client  *http.Client
}

// NewDirectionsClient returns a DirectionsClient bound to the provider base
// URL and API key.
func NewDirectionsClient(baseURL, apiKey string) *DirectionsClient {
    return &DirectionsClient{
        baseURL: strings.TrimSuffix(baseURL, "/"),
        apiKey:  apiKey,
        client:  newHTTPClient(),
    }
}

// Route is one raw candidate route from the generic routing endpoint.
type Route struct {
    Summary RouteSummary `json:"summary"`
    Steps   []RouteStep  `json:"steps"`
}

// RouteSummary aggregates a generic route.
type RouteSummary struct {
    DurationSeconds int64   `json:"duration"`
    DistanceMeters  float64 `json:"distance"`
}

// RouteStep is one leg of a generic route.
type RouteStep struct {
    Mode            string  `json:"mode"`
    From            string  `json:"from"`
    To              string  `json:"to"`
    DurationSeconds int64   `json:"duration"`
    DistanceMeters  float64 `json:"distance"`
}

type directionsResponse struct {
    Status string  `json:"status"`
    Routes []Route `json:"routes"`
}

// providerModes maps the internal mode selector to the provider's query
// parameter vocabulary.
var providerModes = map[Mode]string{
    ModeDrive: "driving",
    ModeCycle: "bicycling",
    ModeWalk:  "walking",
}

// Routes fetches candidate routes between two resolved coordinates.  An
// empty slice with a nil error means the search succeeded but no route
// exists; provider and transport failures return ErrProvider.  ModeTransit
// is rejected here: callers must use TransitClient for it.
func (d *DirectionsClient) Routes(ctx context.Context, origin, dest model.Coordinate, mode Mode) ([]Route, error) {
    pm, ok := providerModes[mode]
    if !ok {
        return nil, fmt.Errorf("mode %q not served by generic routing endpoint", mode)
    }

    q := url.Values{}
    q.Set("origin", origin.String())
    q.Set("destination", dest.String())
    q.Set("mode", pm)
    q.Set("key", d.apiKey)
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/route/json?"+q.Encode(), nil)
    if err != nil {
        return nil, fmt.Errorf("directions: %v: %w", err, ErrProvider)
    }

    resp, err := d.client.Do(req)
    if err != nil {
        return nil, fmt.Errorf("directions: %v: %w", err, ErrProvider)
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        return nil, fmt.Errorf("directions: http %d: %w", resp.StatusCode, ErrProvider)
    }

    var body directionsResponse
    if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
        return nil, fmt.Errorf("directions: decode: %v: %w", err, ErrProvider)
    }
    switch body.Status {
    case "OK":
        return body.Routes, nil
    case "ZERO_RESULTS":
        return []Route{}, nil
    default:
        return nil, fmt.Errorf("directions: provider status %q: %w", body.Status, ErrProvider)
    }
}
