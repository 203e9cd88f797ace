package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func marshalMeasurements(measurements map[string]string) (any, error) {
	if len(measurements) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(measurements)
	if err != nil {
		return nil, fmt.Errorf("marshal measurements: %w", err)
	}
	return string(data), nil
}

func unmarshalMeasurements(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	var measurements map[string]string
	if err := json.Unmarshal([]byte(raw), &measurements); err != nil {
		return nil, fmt.Errorf("unmarshal measurements: %w", err)
	}
	return measurements, nil
}
