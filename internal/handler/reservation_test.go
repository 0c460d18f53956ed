package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/mobiway/pmr-assist/internal/queue"
	"github.com/mobiway/pmr-assist/internal/repository"
)

func newTestContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newMockHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewReservationHandler(repository.NewReservationRepo(db)), mock
}

func TestAcceptOnTerminalReservationReturns409(t *testing.T) {
	h, mock := newMockHandler(t)

	mock.ExpectExec("UPDATE reservations SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, rec := newTestContext(t, http.MethodPost, "")
	c.Set("user_id", float64(9)) // JWT numeric claims decode as float64
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Accept(c); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, expected 409 for a disallowed transition", rec.Code)
	}
}

func TestAcceptMissingReservationReturns404(t *testing.T) {
	h, mock := newMockHandler(t)

	mock.ExpectExec("UPDATE reservations SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	c, rec := newTestContext(t, http.MethodPost, "")
	c.Set("user_id", float64(9))
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := h.Accept(c); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
}

func TestAcceptWithoutIdentityReturns401(t *testing.T) {
	h, _ := newMockHandler(t)

	c, rec := newTestContext(t, http.MethodPost, "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Accept(c); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, expected 401 without user_id claim", rec.Code)
	}
}

func TestCancelEventCarriesPriorStatus(t *testing.T) {
	h, mock := newMockHandler(t)

	events := make(chan queue.ReservationStatusEvent, 1)
	orig := publishEvent
	publishEvent = func(_ context.Context, ev queue.ReservationStatusEvent) error {
		events <- ev
		return nil
	}
	t.Cleanup(func() { publishEvent = orig })

	cols := []string{
		"id", "requester_uid", "first_name", "last_name",
		"origin", "destination", "operator", "price",
		"departure_at", "arrival_at", "duration_seconds", "distance_meters",
		"disability_type", "assistance", "status", "agent_id",
		"created_at", "updated_at",
	}
	sectionCols := []string{
		"reservation_id", "position", "operator", "origin", "destination",
		"price", "billable", "duration_seconds", "departure_at", "arrival_at",
	}
	row := func(status string) *sqlmock.Rows {
		return sqlmock.NewRows(cols).AddRow(
			uint64(5), "uid-123", "Marie", "Durand",
			"Gare du Nord", "Orly", "SNCF", 3.30,
			nil, nil, int64(3960), 0.0,
			"reduced mobility", true, status, int64(9),
			nil, nil,
		)
	}

	// cancel allows two source statuses, so the handler reads the row
	// first; the event must carry what it found there, not a blank
	mock.ExpectQuery("SELECT r.id").WillReturnRows(row("accepted"))
	mock.ExpectQuery("SELECT reservation_id").WillReturnRows(sqlmock.NewRows(sectionCols))
	mock.ExpectExec("UPDATE reservations SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT r.id").WillReturnRows(row("cancelled"))
	mock.ExpectQuery("SELECT reservation_id").WillReturnRows(sqlmock.NewRows(sectionCols))

	c, rec := newTestContext(t, http.MethodPost, "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := h.Cancel(c); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	select {
	case ev := <-events:
		if ev.FromStatus != "accepted" || ev.ToStatus != "cancelled" {
			t.Errorf("event transition %q -> %q, expected accepted -> cancelled", ev.FromStatus, ev.ToStatus)
		}
		if ev.ReservationID != 5 {
			t.Errorf("event reservation id = %d", ev.ReservationID)
		}
	case <-time.After(time.Second):
		t.Fatal("no status event published")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateRejectsIncompletePayload(t *testing.T) {
	h, _ := newMockHandler(t)

	// operator and sections missing, so validation fails before any DB call
	c, rec := newTestContext(t, http.MethodPost, `{"origin":"A","destination":"B"}`)
	c.Set("uid", "uid-123")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400 for invalid payload", rec.Code)
	}
}

func TestCreateWithoutTokenUIDReturns401(t *testing.T) {
	h, _ := newMockHandler(t)

	c, rec := newTestContext(t, http.MethodPost, `{}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, expected 401", rec.Code)
	}
}

func TestListAcceptedByValidatesAgentID(t *testing.T) {
	h, _ := newMockHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "")
	c.SetParamNames("agentID")
	c.SetParamValues("not-a-number")

	if err := h.ListAcceptedBy(c); err != nil {
		t.Fatalf("ListAcceptedBy: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400 for bad agent id", rec.Code)
	}
}
