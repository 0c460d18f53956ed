package handler

import (
	"errors"   // errors.Is comparisons against geo sentinels
	"net/http" // HTTP status codes
	"strings"  // mode normalization

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/mobiway/pmr-assist/internal/booking"
	"github.com/mobiway/pmr-assist/internal/geo"
	"github.com/mobiway/pmr-assist/internal/itinerary"
	"github.com/mobiway/pmr-assist/internal/model"
)

// ItineraryHandler exposes the search pipeline server-side so thin clients
// can resolve addresses, fetch candidate journeys and price an assistance
// request without embedding the provider integration themselves.
type ItineraryHandler struct {
	Service *itinerary.Service
	Builder *booking.Builder
}

// NewItineraryHandler constructs an ItineraryHandler. Both dependencies
// must be non-nil.
func NewItineraryHandler(svc *itinerary.Service, b *booking.Builder) *ItineraryHandler {
	if svc == nil || b == nil {
		panic("nil dependency passed to NewItineraryHandler")
	}
	return &ItineraryHandler{Service: svc, Builder: b}
}

type itinerarySearchReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"` // transit (default), drive, cycle, walk
}

type itineraryQuoteReq struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Itinerary   model.Itinerary `json:"itinerary"`
}

// Search handles POST /v1/itineraries/search. Both addresses must resolve
// before any routing call happens; a failed resolution is a 404, a
// provider failure a 502. An empty candidate list is a successful search
// with no results, returned as 200 [].
func (h *ItineraryHandler) Search(c echo.Context) error {
	var req itinerarySearchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination required"})
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown mode"})
	}

	list, err := h.Service.SearchByAddress(c.Request().Context(), req.Origin, req.Destination, mode)
	if err != nil {
		if errors.Is(err, geo.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coordinates unavailable"})
		}
		if errors.Is(err, geo.ErrProvider) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "routing provider error"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "itinerary search failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// Quote handles POST /v1/itineraries/quote. It runs the booking builder on
// a selected itinerary and returns the priced creation payload, or the
// specific rejection reason as a 422. The requester identity comes from
// the token.
func (h *ItineraryHandler) Quote(c echo.Context) error {
	uid := contextString(c, "uid")
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req itineraryQuoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	identity := model.Identity{
		UID:       uid,
		FirstName: contextString(c, "first_name"),
		LastName:  contextString(c, "last_name"),
	}
	payload, err := h.Builder.Build(identity, req.Itinerary, req.Origin, req.Destination)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidItinerary),
			errors.Is(err, booking.ErrNoBillableSection),
			errors.Is(err, booking.ErrUnsupportedTransport):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quote failed"})
	}
	return c.JSON(http.StatusOK, payload)
}

func parseMode(raw string) (geo.Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "transit":
		return geo.ModeTransit, true
	case "drive", "driving":
		return geo.ModeDrive, true
	case "cycle", "bicycling":
		return geo.ModeCycle, true
	case "walk", "walking":
		return geo.ModeWalk, true
	}
	return "", false
}
