package handler

import (
	"context"  // publish timeouts detached from the request
	"errors"   // errors.Is comparisons against repository sentinels
	"log"      // best-effort publish failures are logged only
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // timestamps on published events

	"github.com/go-playground/validator/v10" // payload validation
	"github.com/google/uuid"                 // event IDs for consumer-side dedup
	"github.com/labstack/echo/v4"            // Echo web framework

	"github.com/mobiway/pmr-assist/internal/model"
	"github.com/mobiway/pmr-assist/internal/queue"
	"github.com/mobiway/pmr-assist/internal/repository"
	queue_publisher "github.com/mobiway/pmr-assist/internal/service"
)

// ReservationHandler groups the dependencies for assistance-reservation
// endpoints. All methods assume that JWT authentication and role
// validation have already been performed by middleware; the requester
// identity is read from the claims stashed in the context.
type ReservationHandler struct {
	Repo     *repository.ReservationRepo
	Validate *validator.Validate
}

// NewReservationHandler constructs a ReservationHandler. The repository
// must be non-nil.
func NewReservationHandler(repo *repository.ReservationRepo) *ReservationHandler {
	if repo == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Repo: repo, Validate: validator.New()}
}

// Create handles POST /api/Reservation. The body is a fully priced
// builder payload; the requester identity comes from the token, never
// from the body, so a passenger cannot create reservations for someone
// else. New reservations always start as pending.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid := contextString(c, "uid")
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req model.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RequesterUID = uid
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation payload"})
	}

	sections := make([]model.ReservationSection, 0, len(req.Sections))
	for i, s := range req.Sections {
		sections = append(sections, model.ReservationSection{
			Position:        i,
			Operator:        s.Operator,
			Origin:          s.Origin,
			Destination:     s.Destination,
			Price:           s.Price,
			Billable:        s.Billable,
			DurationSeconds: s.DurationSeconds,
			DepartureAt:     s.DepartureAt,
			ArrivalAt:       s.ArrivalAt,
		})
	}
	// Token claims win over the payload for the passenger's name; older
	// tokens without name claims fall back to what the builder sent.
	firstName := contextString(c, "first_name")
	if firstName == "" {
		firstName = req.FirstName
	}
	lastName := contextString(c, "last_name")
	if lastName == "" {
		lastName = req.LastName
	}
	res := &model.Reservation{
		RequesterUID:    uid,
		FirstName:       firstName,
		LastName:        lastName,
		Origin:          req.Origin,
		Destination:     req.Destination,
		Operator:        req.Operator,
		Price:           req.Price,
		DepartureAt:     req.DepartureAt,
		ArrivalAt:       req.ArrivalAt,
		DurationSeconds: req.DurationSeconds,
		DistanceMeters:  req.DistanceMeters,
		DisabilityType:  req.DisabilityType,
		Assistance:      req.Assistance,
		Status:          model.StatusPending,
		Sections:        sections,
	}

	created, err := h.Repo.Create(c.Request().Context(), res)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	publishStatus(created, "", model.StatusPending)
	return c.JSON(http.StatusCreated, created)
}

// ListAll handles GET /api/Reservation, returning every reservation.
func (h *ReservationHandler) ListAll(c echo.Context) error {
	list, err := h.Repo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// ListPending handles GET /api/Reservation/pending, the agents' work queue.
func (h *ReservationHandler) ListPending(c echo.Context) error {
	list, err := h.Repo.ListPending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// ListAcceptedBy handles GET /api/Reservation/accepted/:agentID.
func (h *ReservationHandler) ListAcceptedBy(c echo.Context) error {
	agentID, err := strconv.ParseUint(c.Param("agentID"), 10, 64)
	if err != nil || agentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid agent id"})
	}
	list, err := h.Repo.ListAcceptedByAgent(c.Request().Context(), agentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// ListMine handles GET /api/Reservation/mine, returning the calling
// passenger's own reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid := contextString(c, "uid")
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Repo.ListByRequester(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// Accept handles POST /api/Reservation/:id/accept. Only pending
// reservations may be accepted; the accepting agent is recorded. The
// status check runs inside the repository UPDATE, so two agents racing
// for the same reservation cannot both win.
func (h *ReservationHandler) Accept(c echo.Context) error {
	agentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return h.doTransition(c, []model.Status{model.StatusPending}, model.StatusAccepted, &agentID)
}

// Release handles POST /api/Reservation/:id/release, returning an
// accepted reservation to the pending queue.
func (h *ReservationHandler) Release(c echo.Context) error {
	return h.doTransition(c, []model.Status{model.StatusAccepted}, model.StatusPending, nil)
}

// Cancel handles POST /api/Reservation/:id/cancel. Pending and accepted
// reservations may be cancelled; cancelled is terminal.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.doTransition(c, []model.Status{model.StatusPending, model.StatusAccepted}, model.StatusCancelled, nil)
}

// Complete handles POST /api/Reservation/:id/complete, closing out an
// accepted journey once assistance has been delivered.
func (h *ReservationHandler) Complete(c echo.Context) error {
	return h.doTransition(c, []model.Status{model.StatusAccepted}, model.StatusCompleted, nil)
}

// doTransition parses the reservation ID, applies the status change and
// translates repository sentinels: missing reservation -> 404, disallowed
// move -> 409. On success the updated reservation is returned and a
// status event is published.
func (h *ReservationHandler) doTransition(c echo.Context, from []model.Status, to model.Status, agentID *uint64) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	// With a single allowed source the prior status is implied; with
	// several (cancel) it is read from the row so the published event
	// reports the real transition.
	var fromStatus model.Status
	if len(from) == 1 {
		fromStatus = from[0]
	} else if prev, err := h.Repo.GetByID(c.Request().Context(), id); err == nil {
		fromStatus = prev.Status
	}
	res, err := h.Repo.Transition(c.Request().Context(), id, from, to, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrInvalidTransition) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
	}
	publishStatus(res, fromStatus, to)
	return c.JSON(http.StatusOK, res)
}

// publishEvent is indirected so tests can capture events without a broker.
var publishEvent = queue_publisher.PublishReservationStatus

// publishStatus emits a reservation.status event in the background.
// Publishing is best effort: a broker outage must never fail the HTTP
// request that triggered it.
func publishStatus(res *model.Reservation, from, to model.Status) {
	ev := queue.ReservationStatusEvent{
		EventID:       uuid.NewString(),
		ReservationID: res.ID,
		RequesterUID:  res.RequesterUID,
		AgentID:       res.AgentID,
		Origin:        res.Origin,
		Destination:   res.Destination,
		Operator:      res.Operator,
		Price:         res.Price,
		FromStatus:    string(from),
		ToStatus:      string(to),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publishEvent(ctx, ev); err != nil {
			log.Printf("reservation-handler: publish status event failed: %v", err)
		}
	}()
}

// contextString reads a string claim stashed by the JWT middleware.
func contextString(c echo.Context, key string) string {
	if v, ok := c.Get(key).(string); ok {
		return v
	}
	return ""
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
