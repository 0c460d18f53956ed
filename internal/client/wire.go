package client

import (
    "time"

    "github.com/mobiway/pmr-assist/internal/model"
)

// wireReservation is the defensive decoding shape for reservations coming
// back from the API.  Several backend versions have shipped with different
// field vocabularies (canonical camelCase and the legacy French names);
// both are accepted here and nowhere else.  Missing fields default, they
// never fail the decode.
type wireReservation struct {
    ID               uint64        `json:"id"`
    RequesterUID     string        `json:"requesterUid"`
    FirebaseUID      string        `json:"firebaseUid"` // legacy
    FirstName        string        `json:"firstName"`
    Prenom           string        `json:"prenom"` // legacy
    LastName         string        `json:"lastName"`
    Nom              string        `json:"nom"` // legacy
    Origin           string        `json:"origin"`
    LieuDepart       string        `json:"lieuDepart"` // legacy
    Destination      string        `json:"destination"`
    LieuArrivee      string        `json:"lieuArrivee"` // legacy
    Operator         string        `json:"operator"`
    TypeTransport    string        `json:"typeTransport"` // legacy
    Price            float64       `json:"price"`
    Prix             float64       `json:"prix"` // legacy
    DepartureAt      *time.Time    `json:"departureAt"`
    DateHeureDepart  *time.Time    `json:"dateHeureDepart"` // legacy
    ArrivalAt        *time.Time    `json:"arrivalAt"`
    DateHeureArrivee *time.Time    `json:"dateHeureArrivee"` // legacy
    DurationSeconds  int64         `json:"durationSeconds"`
    DureeTotale      int64         `json:"dureeTotaleEnSecondes"` // legacy
    DistanceMeters   float64       `json:"distanceMeters"`
    DistanceTotale   float64       `json:"distanceTotale"` // legacy
    DisabilityType   string        `json:"disabilityType"`
    TypeHandicap     string        `json:"typeHandicap"` // legacy
    Assistance       bool          `json:"assistance"`
    AssistancePMR    bool          `json:"assistancePMR"` // legacy
    Status           string        `json:"status"`
    Statut           string        `json:"statut"` // legacy
    AgentID          uint64        `json:"agentId"`
    Sections         []wireSection `json:"sections"`
    CreatedAt        *time.Time    `json:"createdAt"`
    UpdatedAt        *time.Time    `json:"updatedAt"`
}

type wireSection struct {
    Position         int        `json:"position"`
    Operator         string     `json:"operator"`
    ModeTransport    string     `json:"modeTransport"` // legacy
    Origin           string     `json:"origin"`
    Depart           string     `json:"depart"` // legacy
    Destination      string     `json:"destination"`
    Arrivee          string     `json:"arrivee"` // legacy
    Price            float64    `json:"price"`
    Prix             float64    `json:"prix"` // legacy
    Billable         bool       `json:"billable"`
    Facturation      bool       `json:"facturation"` // legacy
    DurationSeconds  int64      `json:"durationSeconds"`
    DureeTotale      int64      `json:"dureeTotaleEnSecondes"` // legacy
    DepartureAt      *time.Time `json:"departureAt"`
    DateHeureDepart  *time.Time `json:"dateHeureDepart"` // legacy
    ArrivalAt        *time.Time `json:"arrivalAt"`
    DateHeureArrivee *time.Time `json:"dateHeureArrivee"` // legacy
}

func firstString(vals ...string) string {
    for _, v := range vals {
        if v != "" {
            return v
        }
    }
    return ""
}

func firstFloat(vals ...float64) float64 {
    for _, v := range vals {
        if v != 0 {
            return v
        }
    }
    return 0
}

func firstInt(vals ...int64) int64 {
    for _, v := range vals {
        if v != 0 {
            return v
        }
    }
    return 0
}

func firstTime(vals ...*time.Time) time.Time {
    for _, v := range vals {
        if v != nil && !v.IsZero() {
            return *v
        }
    }
    return time.Time{}
}

// toModel normalizes a wire reservation into the internal shape.  The only
// fatal condition is an unrecognized non-empty status: raw status strings
// must never leak past this boundary, and coercing an unknown one would
// hide a contract break.
func (w wireReservation) toModel() (model.Reservation, error) {
    status, err := model.ParseStatus(firstString(w.Status, w.Statut))
    if err != nil {
        return model.Reservation{}, err
    }

    // Legacy payloads omit positions entirely, which decodes as all
    // zeros; only then do array indices stand in. A payload with any
    // explicit position keeps them all, including a real position 0.
    allZero := true
    for _, s := range w.Sections {
        if s.Position != 0 {
            allZero = false
            break
        }
    }

    sections := make([]model.ReservationSection, 0, len(w.Sections))
    for i, s := range w.Sections {
        pos := s.Position
        if allZero {
            pos = i
        }
        sections = append(sections, model.ReservationSection{
            Position:        pos,
            Operator:        firstString(s.Operator, s.ModeTransport),
            Origin:          firstString(s.Origin, s.Depart),
            Destination:     firstString(s.Destination, s.Arrivee),
            Price:           firstFloat(s.Price, s.Prix),
            Billable:        s.Billable || s.Facturation,
            DurationSeconds: firstInt(s.DurationSeconds, s.DureeTotale),
            DepartureAt:     firstTime(s.DepartureAt, s.DateHeureDepart),
            ArrivalAt:       firstTime(s.ArrivalAt, s.DateHeureArrivee),
        })
    }

    return model.Reservation{
        ID:              w.ID,
        RequesterUID:    firstString(w.RequesterUID, w.FirebaseUID),
        FirstName:       firstString(w.FirstName, w.Prenom),
        LastName:        firstString(w.LastName, w.Nom),
        Origin:          firstString(w.Origin, w.LieuDepart),
        Destination:     firstString(w.Destination, w.LieuArrivee),
        Operator:        firstString(w.Operator, w.TypeTransport),
        Price:           firstFloat(w.Price, w.Prix),
        DepartureAt:     firstTime(w.DepartureAt, w.DateHeureDepart),
        ArrivalAt:       firstTime(w.ArrivalAt, w.DateHeureArrivee),
        DurationSeconds: firstInt(w.DurationSeconds, w.DureeTotale),
        DistanceMeters:  firstFloat(w.DistanceMeters, w.DistanceTotale),
        DisabilityType:  firstString(w.DisabilityType, w.TypeHandicap),
        Assistance:      w.Assistance || w.AssistancePMR,
        Status:          status,
        AgentID:         w.AgentID,
        Sections:        sections,
        CreatedAt:       firstTime(w.CreatedAt),
        UpdatedAt:       firstTime(w.UpdatedAt),
    }, nil
}
