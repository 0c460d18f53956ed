// Package client is the consumer-side SDK for the assistance-reservation
// API.  It performs the CRUD and lifecycle calls, normalizes the several
// observed server field vocabularies at the wire boundary, and provides a
// cancellable generation-stamped poller for list screens.
package client

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/mobiway/pmr-assist/internal/model"
)

// TokenSource supplies the bearer token attached to every call.  The
// identity provider is opaque to this package; a token is just a string.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always yields the given token.
func StaticToken(token string) TokenSource {
    return func(context.Context) (string, error) { return token, nil }
}

// APIError is a non-2xx response from the reservation API.  Message carries
// the server-provided error text when present.
type APIError struct {
    StatusCode int
    Message    string
}

func (e *APIError) Error() string {
    if e.Message != "" {
        return fmt.Sprintf("reservation api: http %d: %s", e.StatusCode, e.Message)
    }
    return fmt.Sprintf("reservation api: http %d", e.StatusCode)
}

// Client calls the reservation API.  Every operation is a single HTTP call
// with bearer-token authorization and JSON bodies; there is no retry.
type Client struct {
    base  string
    http  *http.Client
    token TokenSource
}

// New returns a Client for the API at baseURL (the host part; the
// /api/Reservation base path is appended per call).
func New(baseURL string, token TokenSource) *Client {
    return &Client{
        base:  strings.TrimSuffix(baseURL, "/"),
        http:  &http.Client{Timeout: 15 * time.Second},
        token: token,
    }
}

// do performs one authorized request and decodes a 2xx response into out
// (when out is non-nil).  Non-2xx responses become an *APIError carrying
// the server message when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
    var reader *bytes.Reader
    if body != nil {
        raw, err := json.Marshal(body)
        if err != nil {
            return fmt.Errorf("encode request: %w", err)
        }
        reader = bytes.NewReader(raw)
    } else {
        reader = bytes.NewReader(nil)
    }

    req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
    if err != nil {
        return err
    }
    req.Header.Set("Content-Type", "application/json")
    tok, err := c.token(ctx)
    if err != nil {
        return fmt.Errorf("token source: %w", err)
    }
    req.Header.Set("Authorization", "Bearer "+tok)

    resp, err := c.http.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()

    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        var serverErr struct {
            Error   string `json:"error"`
            Message string `json:"message"`
        }
        _ = json.NewDecoder(resp.Body).Decode(&serverErr)
        msg := serverErr.Error
        if msg == "" {
            msg = serverErr.Message
        }
        return &APIError{StatusCode: resp.StatusCode, Message: msg}
    }
    if out == nil {
        return nil
    }
    if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
        return fmt.Errorf("decode response: %w", err)
    }
    return nil
}

// Create submits a reservation-creation payload and returns the created
// reservation as echoed by the server.
func (c *Client) Create(ctx context.Context, req model.ReservationRequest) (model.Reservation, error) {
    var w wireReservation
    if err := c.do(ctx, http.MethodPost, "/api/Reservation", req, &w); err != nil {
        return model.Reservation{}, err
    }
    return w.toModel()
}

// ListAll returns every reservation visible to the caller.
func (c *Client) ListAll(ctx context.Context) ([]model.Reservation, error) {
    return c.list(ctx, "/api/Reservation")
}

// ListPending returns reservations awaiting an agent.
func (c *Client) ListPending(ctx context.Context) ([]model.Reservation, error) {
    return c.list(ctx, "/api/Reservation/pending")
}

// ListAcceptedBy returns reservations currently accepted by the given agent.
func (c *Client) ListAcceptedBy(ctx context.Context, agentID uint64) ([]model.Reservation, error) {
    return c.list(ctx, fmt.Sprintf("/api/Reservation/accepted/%d", agentID))
}

func (c *Client) list(ctx context.Context, path string) ([]model.Reservation, error) {
    var ws []wireReservation
    if err := c.do(ctx, http.MethodGet, path, nil, &ws); err != nil {
        return nil, err
    }
    out := make([]model.Reservation, 0, len(ws))
    for _, w := range ws {
        r, err := w.toModel()
        if err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    return out, nil
}

// Accept transitions a pending reservation to accepted.
func (c *Client) Accept(ctx context.Context, id uint64) (model.Reservation, error) {
    return c.transition(ctx, id, "accept", model.StatusAccepted)
}

// Release puts an accepted reservation back to pending.
func (c *Client) Release(ctx context.Context, id uint64) (model.Reservation, error) {
    return c.transition(ctx, id, "release", model.StatusPending)
}

// Cancel cancels a pending or accepted reservation.
func (c *Client) Cancel(ctx context.Context, id uint64) (model.Reservation, error) {
    return c.transition(ctx, id, "cancel", model.StatusCancelled)
}

// Complete marks an accepted reservation as completed.
func (c *Client) Complete(ctx context.Context, id uint64) (model.Reservation, error) {
    return c.transition(ctx, id, "complete", model.StatusCompleted)
}

// transition performs one lifecycle call.  On success the returned copy is
// relabeled with the target status regardless of what the server echoed,
// since observed servers are inconsistent about echoing canonical status
// strings.  On failure the server is authoritative: the error is returned
// and no local relabel happens.
func (c *Client) transition(ctx context.Context, id uint64, action string, target model.Status) (model.Reservation, error) {
    var w wireReservation
    if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/Reservation/%d/%s", id, action), nil, &w); err != nil {
        return model.Reservation{}, err
    }
    res, err := w.toModel()
    if err != nil {
        // The call itself succeeded; a garbled echo must not undo the
        // transition.  Fall back to a minimal local copy.
        res = model.Reservation{ID: id}
    }
    if res.ID == 0 {
        res.ID = id
    }
    res.Status = target
    return res, nil
}
