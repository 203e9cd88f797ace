package config

import (
	"os"
	"strings"
)

// normalize expands path fields and applies environment overrides.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	if env := strings.TrimSpace(os.Getenv("FITLOT_STATION")); env != "" {
		c.Station.Code = env
	}
	if env := strings.TrimSpace(os.Getenv("FITLOT_OPERATOR_EMAIL")); env != "" {
		c.Operator.Email = env
	}

	c.Station.Code = strings.ToUpper(strings.TrimSpace(c.Station.Code))
	c.Station.HoldStation = strings.TrimSpace(c.Station.HoldStation)
	c.Station.ScrapStation = strings.TrimSpace(c.Station.ScrapStation)
	c.Operator.Email = strings.TrimSpace(c.Operator.Email)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Station.HoldStation == "" {
		c.Station.HoldStation = defaultHoldStation
	}
	if c.Station.ScrapStation == "" {
		c.Station.ScrapStation = defaultScrapStation
	}
	return nil
}
