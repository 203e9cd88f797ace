package quality

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"fitlot/internal/routing"
)

// Wall-thickness measurement field names recorded at unloading.
const (
	FieldTF   = "tf"
	FieldTW   = "tw"
	FieldTWCB = "twcb"
	FieldTWTB = "twtb"
)

// RequiredMeasurements returns the measurement fields that apply to a
// product family. Generic products carry no measurements at all.
func RequiredMeasurements(class routing.Classification) []string {
	switch class {
	case routing.ClassFlange:
		return []string{FieldTF}
	case routing.ClassCB:
		return []string{FieldTF, FieldTW, FieldTWCB}
	case routing.ClassTB:
		return []string{FieldTF, FieldTW, FieldTWTB}
	}
	return nil
}

// ValidateMeasurements checks that every supplied field applies to the
// classification and parses as a positive decimal, and, when required is
// true, that no applicable field is missing. Fields that do not apply must
// be omitted rather than sent empty.
func ValidateMeasurements(class routing.Classification, measurements map[string]string, required bool) error {
	applicable := make(map[string]struct{})
	for _, field := range RequiredMeasurements(class) {
		applicable[field] = struct{}{}
	}

	keys := make([]string, 0, len(measurements))
	for key := range measurements {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := applicable[key]; !ok {
			return fmt.Errorf("measurement %q does not apply to %s products", key, class)
		}
		value, err := decimal.NewFromString(measurements[key])
		if err != nil {
			return fmt.Errorf("measurement %q: %q is not a number", key, measurements[key])
		}
		if !value.IsPositive() {
			return fmt.Errorf("measurement %q must be positive, got %s", key, value)
		}
	}

	if required {
		for _, field := range RequiredMeasurements(class) {
			if _, ok := measurements[field]; !ok {
				return fmt.Errorf("measurement %q is required for %s products", field, class)
			}
		}
	}
	return nil
}
