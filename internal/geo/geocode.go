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

// Geocoder resolves free-text addresses into coordinates through the
// provider's geocoding endpoint.  Exactly one external call is made per
// resolution; there is no caching and no retry.
type Geocoder struct {
    baseURL string
    apiKey  string
    client  *http.Client
}

// NewGeocoder returns a Geocoder bound to the provider base URL and API key.
func NewGeocoder(baseURL, apiKey string) *Geocoder {
    return &Geocoder{
        baseURL: strings.TrimSuffix(baseURL, "/"),
        apiKey:  apiKey,
        client:  newHTTPClient(),
    }
}

// geocodeResponse mirrors the provider's geocoding payload.  Only the first
// candidate match is consumed.
type geocodeResponse struct {
    Status  string `json:"status"`
    Results []struct {
        Geometry struct {
            Location struct {
                Lat float64 `json:"lat"`
                Lng float64 `json:"lng"`
            } `json:"location"`
        } `json:"geometry"`
    } `json:"results"`
}

// Resolve turns an address into a coordinate.  A blank address
// short-circuits to ErrNotFound without any network call.  Zero matches,
// a non-success provider status, and transport/parse failures all surface
// as ErrNotFound; resolution runs strictly before routing, so callers can
// still tell resolution failures apart from empty itinerary searches.
func (g *Geocoder) Resolve(ctx context.Context, address string) (model.Coordinate, error) {
    address = strings.TrimSpace(address)
    if address == "" {
        return model.Coordinate{}, fmt.Errorf("empty address: %w", ErrNotFound)
    }

    q := url.Values{}
    q.Set("address", address)
    q.Set("key", g.apiKey)
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/geocode/json?"+q.Encode(), nil)
    if err != nil {
        return model.Coordinate{}, fmt.Errorf("geocode %q: %v: %w", address, err, ErrNotFound)
    }

    resp, err := g.client.Do(req)
    if err != nil {
        return model.Coordinate{}, fmt.Errorf("geocode %q: %v: %w", address, err, ErrNotFound)
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        return model.Coordinate{}, fmt.Errorf("geocode %q: http %d: %w", address, resp.StatusCode, ErrNotFound)
    }

    var body geocodeResponse
    if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
        return model.Coordinate{}, fmt.Errorf("geocode %q: decode: %v: %w", address, err, ErrNotFound)
    }
    if body.Status != "OK" || len(body.Results) == 0 {
        return model.Coordinate{}, fmt.Errorf("no match for %q: %w", address, ErrNotFound)
    }
    loc := body.Results[0].Geometry.Location
    return model.Coordinate{Lat: loc.Lat, Lon: loc.Lng}, nil
}
