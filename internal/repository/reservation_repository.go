package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mobiway/pmr-assist/internal/model"
)

// ReservationRepo provides CRUD operations for assistance reservations and
// their journey sections. A reservation covers one door-to-door journey for
// a passenger; the sections table stores the billable transit legs that
// make it up. All timestamp fields are assumed to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `r.id, r.requester_uid, r.first_name, r.last_name,
       r.origin, r.destination, r.operator, r.price,
       r.departure_at, r.arrival_at, r.duration_seconds, r.distance_meters,
       r.disability_type, r.assistance, r.status, r.agent_id,
       r.created_at, r.updated_at`

// Create inserts a reservation together with its sections inside a single
// transaction, so a failed section insert never leaves a partial journey
// behind. The reservation's status is stored as provided (new requests
// arrive as pending). It returns the reservation re-read from the
// database so generated ID and timestamps are populated.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) (*model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `INSERT INTO reservations
	             (requester_uid, first_name, last_name, origin, destination,
	              operator, price, departure_at, arrival_at, duration_seconds,
	              distance_meters, disability_type, assistance, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.RequesterUID, res.FirstName, res.LastName, res.Origin, res.Destination,
		res.Operator, res.Price, res.DepartureAt, res.ArrivalAt, res.DurationSeconds,
		res.DistanceMeters, res.DisabilityType, res.Assistance, string(res.Status),
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	res.ID = uint64(id)

	if len(res.Sections) > 0 {
		query := `INSERT INTO reservation_sections
		            (reservation_id, position, operator, origin, destination,
		             price, billable, duration_seconds, departure_at, arrival_at)
		          VALUES `
		args := make([]interface{}, 0, len(res.Sections)*10)
		for i, s := range res.Sections {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
			args = append(args, res.ID, s.Position, s.Operator, s.Origin, s.Destination,
				s.Price, s.Billable, s.DurationSeconds, s.DepartureAt, s.ArrivalAt)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, res.ID)
}

// GetByID returns a single reservation with its sections. When no
// reservation with the specified ID exists, ErrReservationNotFound is
// returned.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	res, err := scanReservation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := r.attachSections(ctx, []*model.Reservation{res}); err != nil {
		return nil, err
	}
	return res, nil
}

// ListAll returns every reservation ordered by creation time descending
// (newest first). When no reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           ORDER BY r.created_at DESC`
	return r.listQuery(ctx, q)
}

// ListPending returns reservations still awaiting an agent, oldest first
// so the longest-waiting passenger surfaces at the top of the queue.
func (r *ReservationRepo) ListPending(ctx context.Context) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           WHERE r.status = 'pending'
	           ORDER BY r.created_at ASC`
	return r.listQuery(ctx, q)
}

// ListAcceptedByAgent returns the reservations currently accepted by the
// given agent, ordered by departure time.
func (r *ReservationRepo) ListAcceptedByAgent(ctx context.Context, agentID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           WHERE r.status = 'accepted' AND r.agent_id = ?
	           ORDER BY r.departure_at ASC`
	return r.listQuery(ctx, q, agentID)
}

// ListByRequester returns all reservations created by the given passenger
// UID, newest first.
func (r *ReservationRepo) ListByRequester(ctx context.Context, uid string) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           WHERE r.requester_uid = ?
	           ORDER BY r.created_at DESC`
	return r.listQuery(ctx, q, uid)
}

// Transition moves a reservation from one of the allowed statuses to the
// target status. The status check happens inside the UPDATE itself, so two
// agents racing to accept the same reservation cannot both win. agentID is
// recorded when moving to accepted and cleared when moving back to
// pending; it is left untouched for terminal statuses so the handling
// agent stays visible on completed journeys.
//
// It returns ErrReservationNotFound when the ID does not exist and
// ErrInvalidTransition when the reservation exists but its current status
// is not in the allowed set.
func (r *ReservationRepo) Transition(ctx context.Context, id uint64, from []model.Status, to model.Status, agentID *uint64) (*model.Reservation, error) {
	placeholders := make([]string, 0, len(from))
	args := make([]interface{}, 0, len(from)+3)
	args = append(args, string(to))

	var setAgent string
	switch to {
	case model.StatusAccepted:
		setAgent = ", agent_id = ?"
		args = append(args, agentID)
	case model.StatusPending:
		setAgent = ", agent_id = NULL"
	}
	args = append(args, id)
	for _, s := range from {
		placeholders = append(placeholders, "?")
		args = append(args, string(s))
	}

	query := `UPDATE reservations SET status = ?` + setAgent +
		` WHERE id = ? AND status IN (` + strings.Join(placeholders, ",") + `)`
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Either the reservation is missing or its status disallows the
		// move. Distinguish the two for the handler.
		const existsQ = `SELECT COUNT(*) FROM reservations WHERE id = ?`
		var n int
		if err := r.db.QueryRowContext(ctx, existsQ, id).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrReservationNotFound
		}
		return nil, ErrInvalidTransition
	}
	return r.GetByID(ctx, id)
}

// listQuery runs a reservation SELECT, scans all rows and attaches their
// sections with a single follow-up query.
func (r *ReservationRepo) listQuery(ctx context.Context, query string, args ...interface{}) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachSections(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachSections loads the sections for all given reservations in one
// query and appends them in position order.
func (r *ReservationRepo) attachSections(ctx context.Context, list []*model.Reservation) error {
	if len(list) == 0 {
		return nil
	}
	index := make(map[uint64]*model.Reservation, len(list))
	ids := make([]interface{}, 0, len(list))
	placeholders := make([]string, 0, len(list))
	for _, res := range list {
		res.Sections = []model.ReservationSection{}
		index[res.ID] = res
		ids = append(ids, res.ID)
		placeholders = append(placeholders, "?")
	}
	query := `SELECT reservation_id, position, operator, origin, destination,
	                 price, billable, duration_seconds, departure_at, arrival_at
	          FROM reservation_sections
	          WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY reservation_id, position`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rid uint64
		var s model.ReservationSection
		var departure, arrival sql.NullTime
		if err := rows.Scan(&rid, &s.Position, &s.Operator, &s.Origin, &s.Destination,
			&s.Price, &s.Billable, &s.DurationSeconds, &departure, &arrival); err != nil {
			return err
		}
		if departure.Valid {
			s.DepartureAt = departure.Time.UTC()
		}
		if arrival.Valid {
			s.ArrivalAt = arrival.Time.UTC()
		}
		res, ok := index[rid]
		if !ok {
			continue
		}
		res.Sections = append(res.Sections, s)
	}
	return rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation reads one reservations row into a model.Reservation.
// The stored status string goes through model.ParseStatus so legacy
// spellings in old rows never leak past the repository.
func scanReservation(row rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	var rawStatus string
	var agentID sql.NullInt64
	var departure, arrival, created, updated sql.NullTime
	err := row.Scan(
		&res.ID, &res.RequesterUID, &res.FirstName, &res.LastName,
		&res.Origin, &res.Destination, &res.Operator, &res.Price,
		&departure, &arrival, &res.DurationSeconds, &res.DistanceMeters,
		&res.DisabilityType, &res.Assistance, &rawStatus, &agentID,
		&created, &updated,
	)
	if err != nil {
		return nil, err
	}
	status, err := model.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	res.Status = status
	if agentID.Valid {
		res.AgentID = uint64(agentID.Int64)
	}
	if departure.Valid {
		res.DepartureAt = departure.Time.UTC()
	}
	if arrival.Valid {
		res.ArrivalAt = arrival.Time.UTC()
	}
	if created.Valid {
		res.CreatedAt = created.Time.UTC()
	}
	if updated.Valid {
		res.UpdatedAt = updated.Time.UTC()
	}
	return &res, nil
}
