// Package fortiparse groups FortiOS-style configuration text into ordered
// section blocks. It knows two dialects, switch and wireless, each described
// by a marker table, and runs one generic line automaton over either.
package fortiparse

import (
	"errors"
	"fmt"
	"strings"
)

// Dialect selects a configuration family and, with it, a marker table and a
// check catalog.
type Dialect string

const (
	DialectSwitch   Dialect = "switch"
	DialectWireless Dialect = "wireless"
)

// ErrUnknownDialect is returned when a dialect selector matches neither
// family. Callers must resolve the dialect before any parsing starts.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialects lists the supported dialects in display order.
func Dialects() []Dialect {
	return []Dialect{DialectSwitch, DialectWireless}
}

// ParseDialect resolves a user-supplied selector. Matching is case-insensitive
// and "wifi" is accepted as an alias for the wireless dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "switch":
		return DialectSwitch, nil
	case "wireless", "wifi", "wi-fi":
		return DialectWireless, nil
	default:
		return "", fmt.Errorf("%w: %q (expected switch or wireless)", ErrUnknownDialect, s)
	}
}

// String returns the dialect selector.
func (d Dialect) String() string {
	return string(d)
}
