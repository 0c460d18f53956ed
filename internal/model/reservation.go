package model

import "time"

// Reservation is the durable record of a PMR assistance booking.  The
// backend is the system of record; clients hold at most a cached copy.
// Status only ever changes through the lifecycle transitions defined in
// status.go.
//
// Origin and Destination are the place names the requester searched for.
// They are carried independently of the itinerary's first/last section
// names, which come from the routing provider and are not guaranteed to
// match.
type Reservation struct {
    ID              uint64               `json:"id"`
    RequesterUID    string               `json:"requesterUid"`
    FirstName       string               `json:"firstName"`
    LastName        string               `json:"lastName"`
    Origin          string               `json:"origin"`
    Destination     string               `json:"destination"`
    Operator        string               `json:"operator"`
    Price           float64              `json:"price"`
    DepartureAt     time.Time            `json:"departureAt"`
    ArrivalAt       time.Time            `json:"arrivalAt"`
    DurationSeconds int64                `json:"durationSeconds"`
    DistanceMeters  float64              `json:"distanceMeters"`
    DisabilityType  string               `json:"disabilityType"`
    Assistance      bool                 `json:"assistance"`
    Status          Status               `json:"status"`
    AgentID         uint64               `json:"agentId,omitempty"`
    Sections        []ReservationSection `json:"sections"`
    CreatedAt       time.Time            `json:"createdAt"`
    UpdatedAt       time.Time            `json:"updatedAt"`
}

// ReservationSection is one billing-relevant leg of a reservation.  Only
// transit sections of the originating itinerary are mirrored here; walking
// legs are never billed.  Position preserves the itinerary order.
type ReservationSection struct {
    Position        int       `json:"position"`
    Operator        string    `json:"operator"`
    Origin          string    `json:"origin"`
    Destination     string    `json:"destination"`
    Price           float64   `json:"price"`
    Billable        bool      `json:"billable"`
    DurationSeconds int64     `json:"durationSeconds"`
    DepartureAt     time.Time `json:"departureAt"`
    ArrivalAt       time.Time `json:"arrivalAt"`
}

// ReservationRequest is the creation payload submitted to the reservation
// API.  It is produced by the booking builder and validated before any
// network call is made.
type ReservationRequest struct {
    RequesterUID    string                      `json:"requesterUid" validate:"required"`
    FirstName       string                      `json:"firstName" validate:"required"`
    LastName        string                      `json:"lastName" validate:"required"`
    Origin          string                      `json:"origin" validate:"required"`
    Destination     string                      `json:"destination" validate:"required"`
    Operator        string                      `json:"operator" validate:"required"`
    Price           float64                     `json:"price" validate:"gte=0"`
    DepartureAt     time.Time                   `json:"departureAt" validate:"required"`
    ArrivalAt       time.Time                   `json:"arrivalAt" validate:"required"`
    DurationSeconds int64                       `json:"durationSeconds" validate:"gte=0"`
    DistanceMeters  float64                     `json:"distanceMeters" validate:"gte=0"`
    DisabilityType  string                      `json:"disabilityType" validate:"required"`
    Assistance      bool                        `json:"assistance"`
    Sections        []ReservationSectionRequest `json:"sections" validate:"required,min=1,dive"`
}

// ReservationSectionRequest is one section of a creation payload.
type ReservationSectionRequest struct {
    Operator        string    `json:"operator" validate:"required"`
    Origin          string    `json:"origin" validate:"required"`
    Destination     string    `json:"destination" validate:"required"`
    Price           float64   `json:"price" validate:"gte=0"`
    Billable        bool      `json:"billable"`
    DurationSeconds int64     `json:"durationSeconds" validate:"gte=0"`
    DepartureAt     time.Time `json:"departureAt"`
    ArrivalAt       time.Time `json:"arrivalAt"`
}
