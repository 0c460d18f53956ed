package model

import (
    "fmt"
    "strings"
)

// Status is the lifecycle state of an assistance reservation.  The set is
// closed: pending, accepted, cancelled and completed.  Raw server strings
// never flow past ParseStatus; anything outside the set is an error, not
// a silently coerced value.
type Status string

const (
    StatusPending   Status = "pending"
    StatusAccepted  Status = "accepted"
    StatusCancelled Status = "cancelled"
    StatusCompleted Status = "completed"
)

// transitions lists, for each status, the states it may move to.  Cancelled
// and completed are terminal and have no outgoing edges.
var transitions = map[Status][]Status{
    StatusPending:  {StatusAccepted, StatusCancelled},
    StatusAccepted: {StatusPending, StatusCancelled, StatusCompleted},
}

// CanTransitionTo reports whether moving from s to target is a legal
// lifecycle transition.
func (s Status) CanTransitionTo(target Status) bool {
    for _, t := range transitions[s] {
        if t == target {
            return true
        }
    }
    return false
}

// Terminal reports whether no further transitions are defined out of s.
func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

// statusAliases maps every observed spelling of a status to the canonical
// value.  Older backend versions returned French labels and mixed casing;
// they are all normalized here and nowhere else.
var statusAliases = map[string]Status{
    "pending":    StatusPending,
    "en attente": StatusPending,
    "accepted":   StatusAccepted,
    "acceptee":   StatusAccepted,
    "acceptée":   StatusAccepted,
    "cancelled":  StatusCancelled,
    "canceled":   StatusCancelled,
    "annulee":    StatusCancelled,
    "annulée":    StatusCancelled,
    "completed":  StatusCompleted,
    "terminee":   StatusCompleted,
    "terminée":   StatusCompleted,
}

// ParseStatus normalizes a raw server status string into a Status.  An empty
// string defaults to pending, matching servers that omit the field on
// freshly created reservations.  Any other unrecognized value is an error.
func ParseStatus(raw string) (Status, error) {
    s := strings.ToLower(strings.TrimSpace(raw))
    if s == "" {
        return StatusPending, nil
    }
    if st, ok := statusAliases[s]; ok {
        return st, nil
    }
    return "", fmt.Errorf("unrecognized reservation status %q", raw)
}
