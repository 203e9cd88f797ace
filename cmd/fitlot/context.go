package main

import (
	"context"
	"strings"
	"sync"

	"fitlot/internal/config"
	"fitlot/internal/identity"
	"fitlot/internal/logging"
	"fitlot/internal/production"
	"fitlot/internal/store"
)

type commandContext struct {
	configFlag   *string
	stationFlag  *string
	operatorFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, stationFlag, operatorFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		stationFlag:  stationFlag,
		operatorFlag: operatorFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.stationFlag != nil && strings.TrimSpace(*c.stationFlag) != "" {
			cfg.Station.Code = strings.ToUpper(strings.TrimSpace(*c.stationFlag))
		}
		if c.operatorFlag != nil && strings.TrimSpace(*c.operatorFlag) != "" {
			cfg.Operator.Email = strings.TrimSpace(*c.operatorFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// requestContext returns a context carrying the operator identity.
func (c *commandContext) requestContext(cfg *config.Config) context.Context {
	return identity.WithOperator(context.Background(), cfg.Operator.Email)
}

// withStore opens the shared database for one command invocation.
func (c *commandContext) withStore(fn func(ctx context.Context, cfg *config.Config, st *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(c.requestContext(cfg), cfg, st)
}

// withService opens the store and wires the production service over it.
func (c *commandContext) withService(fn func(ctx context.Context, svc *production.Service, st *store.Store) error) error {
	return c.withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		logger, err := logging.NewFileOnly(cfg)
		if err != nil {
			logger = logging.NewNop()
		}
		return fn(ctx, production.New(st, cfg, logger), st)
	})
}
