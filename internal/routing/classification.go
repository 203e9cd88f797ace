package routing

import "strings"

// Classification is the product family tag used by routing and the quality
// gate. It is computed once at order import and carried on both Order and
// Lot; Classify remains available for legacy records that predate the tag.
type Classification string

const (
	ClassFlange  Classification = "flange"
	ClassCB      Classification = "cb"
	ClassTB      Classification = "tb"
	ClassGeneric Classification = "generic"
)

// ParseClassification converts a stored string into a known Classification.
func ParseClassification(value string) (Classification, bool) {
	switch Classification(strings.ToLower(strings.TrimSpace(value))) {
	case ClassFlange:
		return ClassFlange, true
	case ClassCB:
		return ClassCB, true
	case ClassTB:
		return ClassTB, true
	case ClassGeneric:
		return ClassGeneric, true
	}
	return "", false
}

// Classify derives a classification from a free-text item description by
// case-insensitive substring match. Flange markers win over CB/TB so that
// items like "FL-200-CB" machine as flanges.
func Classify(item string) Classification {
	upper := strings.ToUpper(item)
	switch {
	case strings.Contains(upper, "FLANGE"), strings.Contains(upper, "FL"):
		return ClassFlange
	case strings.Contains(upper, "CB"):
		return ClassCB
	case strings.Contains(upper, "TB"):
		return ClassTB
	default:
		return ClassGeneric
	}
}

// EffectiveClassification prefers the explicit tag and falls back to the
// substring heuristic for legacy data without one.
func EffectiveClassification(tag Classification, item string) Classification {
	if parsed, ok := ParseClassification(string(tag)); ok {
		return parsed
	}
	return Classify(item)
}
