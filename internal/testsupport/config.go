package testsupport

import (
	"path/filepath"
	"testing"

	"fitlot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Station.Code = "BH11"
	cfg.Operator.Email = "test@fitlot.local"

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithStation overrides the station code on the test config.
func WithStation(code string) ConfigOption {
	return func(c *config.Config) {
		c.Station.Code = code
	}
}

// WithOperator overrides the operator email on the test config.
func WithOperator(email string) ConfigOption {
	return func(c *config.Config) {
		c.Operator.Email = email
	}
}
