// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationStatusEvent is published on every reservation lifecycle
// transition, including creation (from "" to pending). It contains enough
// information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type ReservationStatusEvent struct {
    EventID       string  `json:"event_id"` // uuid, for consumer-side dedup
    ReservationID uint64  `json:"reservation_id"`
    RequesterUID  string  `json:"requester_uid"`
    AgentID       uint64  `json:"agent_id,omitempty"`
    Origin        string  `json:"origin"`
    Destination   string  `json:"destination"`
    Operator      string  `json:"operator"`
    Price         float64 `json:"price"`
    FromStatus    string  `json:"from_status"`
    ToStatus      string  `json:"to_status"`
    OccurredAt    string  `json:"occurred_at"`
}
