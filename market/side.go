package market

import (
	"fmt"
	"strings"
)

// Side is the option right traded: call or put.
type Side string

const (
	Call Side = "call"
	Put  Side = "put"
)

func (s Side) String() string { return string(s) }

func (s Side) Valid() bool {
	return s == Call || s == Put
}

// ParseSide accepts "call"/"put" in any case, plus the single letter forms
// used in OCC option symbols.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	default:
		return "", fmt.Errorf("unknown side %q (want call or put)", s)
	}
}
