// Package param turns loosely formatted user input into validated domain
// values. Every parser is pure: it either returns a value whose invariants
// hold or an error naming the input and the accepted shapes. Nothing here
// does I/O.
package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseFiniteFloat parses a float and rejects inf/nan, which ParseFloat
// accepts but no domain value here can hold.
func parseFiniteFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

// parsePair splits "a,b" into two trimmed numeric fields.
func parsePair(raw string) (float64, float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma-separated numbers, got %q", raw)
	}
	a, err := parseFiniteFloat(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", parts[0])
	}
	b, err := parseFiniteFloat(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", parts[1])
	}
	return a, b, nil
}

// parseDims splits "WxH" into two positive integers.
func parseDims(raw string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(raw)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected WxH, got %q", raw)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q", parts[0])
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q", parts[1])
	}
	return w, h, nil
}
