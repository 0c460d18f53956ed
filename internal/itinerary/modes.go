package itinerary

import "strings"

// Operator is the canonical classification of a transport mode.  Provider
// mode strings collapse into this small closed set; anything unrecognized
// maps to OperatorUnknown, which the booking builder treats as rejectable.
type Operator string

const (
    OperatorSNCF      Operator = "SNCF"
    OperatorRATP      Operator = "RATP"
    OperatorAirFrance Operator = "Air France"
    OperatorUnknown   Operator = "unknown"
)

// operatorTable maps lower-cased provider mode strings to operators.  The
// assignments (train -> SNCF, urban transit -> RATP, airplane -> Air
// France) are placeholder business rules inherited from the product and
// deliberately kept in one table.
var operatorTable = map[string]Operator{
    "heavy_rail":     OperatorSNCF,
    "rail":           OperatorSNCF,
    "train":          OperatorSNCF,
    "commuter_train": OperatorSNCF,
    "subway":         OperatorRATP,
    "metro":          OperatorRATP,
    "metro_rail":     OperatorRATP,
    "tram":           OperatorRATP,
    "bus":            OperatorRATP,
    "airplane":       OperatorAirFrance,
}

// CanonicalOperator maps a provider transport-mode string to its operator.
// Unrecognized and empty modes return OperatorUnknown; they are surfaced,
// never silently replaced.
func CanonicalOperator(mode string) Operator {
    if op, ok := operatorTable[strings.ToLower(strings.TrimSpace(mode))]; ok {
        return op
    }
    return OperatorUnknown
}
