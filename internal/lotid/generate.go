package lotid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Lot numbers are 15 characters: the literal "40", two-digit year,
// two-digit ISO week, a station segment ("4" plus the zero-padded numeric
// station code), the literal "40", and a four-digit sequence.
const (
	companyPrefix = "40"
	stationMarker = "4"
	// GeneratedLength is the length of an auto-generated lot number.
	GeneratedLength = 15
	// MinManualLength is the minimum length callers must enforce for
	// manually entered identifiers. The generator itself does not
	// validate manual IDs beyond this contract.
	MinManualLength = 10
)

// Prefix builds the identity prefix for a station at a point in time.
func Prefix(stationCode string, now time.Time) (string, error) {
	numeric, ok := stationNumber(stationCode)
	if !ok {
		return "", fmt.Errorf("station code %q has no numeric component", stationCode)
	}
	isoYear, isoWeek := now.ISOWeek()
	return fmt.Sprintf("%s%02d%02d%s%02d%s",
		companyPrefix, isoYear%100, isoWeek, stationMarker, numeric, companyPrefix), nil
}

// Sequence returns the next sequence number for a prefix given the lot
// numbers that already exist: one more than the count of matches.
//
// Counting a snapshot races under concurrent creation at the same station;
// the store's per-prefix counter is the safe path. This form is kept for
// callers that only have a snapshot.
func Sequence(prefix string, existing []string) int {
	count := 0
	for _, lotNumber := range existing {
		if strings.HasPrefix(lotNumber, prefix) {
			count++
		}
	}
	return count + 1
}

// Format appends a zero-padded sequence to a prefix.
func Format(prefix string, sequence int) string {
	return fmt.Sprintf("%s%04d", prefix, sequence)
}

// Generate builds the next lot number for a station from a snapshot of
// existing lot numbers.
func Generate(stationCode string, now time.Time, existing []string) (string, error) {
	prefix, err := Prefix(stationCode, now)
	if err != nil {
		return "", err
	}
	return Format(prefix, Sequence(prefix, existing)), nil
}

// Hints returns advisory format remarks for a scanned or typed code. They
// are hints only: lookups proceed regardless, and a non-matching code is a
// lookup failure, not a format error.
func Hints(code string) []string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil
	}
	var hints []string
	if len(trimmed) != GeneratedLength {
		hints = append(hints, fmt.Sprintf("expected %d characters, got %d", GeneratedLength, len(trimmed)))
	}
	if !strings.HasPrefix(trimmed, companyPrefix) {
		hints = append(hints, fmt.Sprintf("expected prefix %q", companyPrefix))
	}
	return hints
}

// stationNumber extracts the trailing numeric portion of a station code,
// e.g. "BH11" -> 11.
func stationNumber(stationCode string) (int, bool) {
	trimmed := strings.TrimSpace(stationCode)
	start := len(trimmed)
	for start > 0 && trimmed[start-1] >= '0' && trimmed[start-1] <= '9' {
		start--
	}
	if start == len(trimmed) {
		return 0, false
	}
	number, err := strconv.Atoi(trimmed[start:])
	if err != nil {
		return 0, false
	}
	return number, true
}
