package routing

import (
	"strconv"
	"strings"

	"fitlot/internal/lifecycle"
)

// Disposition is the quality-gate decision for a lot at unloading.
type Disposition string

const (
	DispositionOK         Disposition = "ok"
	DispositionTempReject Disposition = "temp_reject"
	DispositionReject     Disposition = "reject"
)

// ParseDisposition converts a string into a known Disposition.
func ParseDisposition(value string) (Disposition, bool) {
	switch Disposition(strings.ToLower(strings.TrimSpace(value))) {
	case DispositionOK:
		return DispositionOK, true
	case DispositionTempReject:
		return DispositionTempReject, true
	case DispositionReject:
		return DispositionReject, true
	}
	return "", false
}

// Destination is the resolved next position for a lot. Station carries the
// canonical location code; callers may substitute site-specific hold and
// scrap codes.
type Destination struct {
	Step    lifecycle.Step
	Station string
}

// Canonical station codes for resolved destinations.
const (
	StationMazak         = "MAZAK"
	StationNabewerken    = "NABEWERKEN"
	StationEindinspectie = "EINDINSPECTIE"
	StationHold          = "HOLD_AREA"
	StationScrap         = "SCRAP"
)

// Winding machine groups, keyed by the numeric suffix of the origin
// station code. Machines 16/18/31 feed the manual finishing line directly;
// 11/12/15/17 produce flanges that need CNC machining first.
var (
	nabewerkenOnlyOrigins = map[int]struct{}{16: {}, 18: {}, 31: {}}
	flangeSplitOrigins    = map[int]struct{}{11: {}, 12: {}, 15: {}, 17: {}}
)

// ResolveDestination decides where a lot goes after unloading. Reject and
// temporary reject bypass classification entirely; for an ok disposition
// the winding-machine group and product family pick the post-processing
// line. The function is pure.
func ResolveDestination(class Classification, originStation string, disposition Disposition) Destination {
	switch disposition {
	case DispositionReject:
		return Destination{Step: lifecycle.StepRejected, Station: StationScrap}
	case DispositionTempReject:
		return Destination{Step: lifecycle.StepHold, Station: StationHold}
	}

	suffix, ok := originSuffix(originStation)
	if ok {
		if _, only := nabewerkenOnlyOrigins[suffix]; only {
			return Destination{Step: lifecycle.StepNabewerken, Station: StationNabewerken}
		}
		if _, split := flangeSplitOrigins[suffix]; split {
			if class == ClassFlange {
				return Destination{Step: lifecycle.StepMazak, Station: StationMazak}
			}
			return Destination{Step: lifecycle.StepNabewerken, Station: StationNabewerken}
		}
	}
	return Destination{Step: lifecycle.StepNabewerken, Station: StationNabewerken}
}

// AllowedOverrides lists the destinations an operator may substitute for
// the computed one while the disposition is ok.
func AllowedOverrides() []Destination {
	return []Destination{
		{Step: lifecycle.StepNabewerken, Station: StationNabewerken},
		{Step: lifecycle.StepMazak, Station: StationMazak},
		{Step: lifecycle.StepEindinspectie, Station: StationEindinspectie},
	}
}

// ParseOverride maps an operator-entered destination name onto an allowed
// override. Accepted names: Nabewerken, Mazak, Eindinspectie.
func ParseOverride(value string) (Destination, bool) {
	trimmed := strings.TrimSpace(value)
	for _, dest := range AllowedOverrides() {
		if strings.EqualFold(trimmed, string(dest.Step)) {
			return dest, true
		}
	}
	return Destination{}, false
}

// originSuffix extracts the trailing numeric portion of a station code,
// e.g. "BH17" -> 17.
func originSuffix(station string) (int, bool) {
	trimmed := strings.TrimSpace(station)
	start := len(trimmed)
	for start > 0 && trimmed[start-1] >= '0' && trimmed[start-1] <= '9' {
		start--
	}
	if start == len(trimmed) {
		return 0, false
	}
	suffix, err := strconv.Atoi(trimmed[start:])
	if err != nil {
		return 0, false
	}
	return suffix, true
}
