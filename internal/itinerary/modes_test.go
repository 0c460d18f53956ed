package itinerary

import "testing"

func TestCanonicalOperator(t *testing.T) {
    tests := []struct {
        mode     string
        expected Operator
    }{
        {"heavy_rail", OperatorSNCF},
        {"HEAVY_RAIL", OperatorSNCF},
        {"train", OperatorSNCF},
        {"rail", OperatorSNCF},
        {"subway", OperatorRATP},
        {"metro", OperatorRATP},
        {"tram", OperatorRATP},
        {"bus", OperatorRATP},
        {"airplane", OperatorAirFrance},
        {" bus ", OperatorRATP},

        // unrecognized modes surface as unknown, never coerced
        {"", OperatorUnknown},
        {"ferry", OperatorUnknown},
        {"gondola_lift", OperatorUnknown},
    }
    for _, tc := range tests {
        if got := CanonicalOperator(tc.mode); got != tc.expected {
            t.Errorf("CanonicalOperator(%q) = %q, expected %q", tc.mode, got, tc.expected)
        }
    }
}
