package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"fitlot/internal/config"
	"fitlot/internal/lifecycle"
	"fitlot/internal/logging"
	"fitlot/internal/metrics"
	"fitlot/internal/notifications"
	"fitlot/internal/store"
)

// Daemon is the long-running dashboard process: it follows the shared
// pool's change feed, keeps an aggregated report warm for the HTTP API,
// and pushes reject/hold notifications. It never mutates lots; terminals
// write to the store directly.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	notifier  notifications.Service
	sessionID string

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	mu        sync.RWMutex
	report    *metrics.Report
	refreshed time.Time
	lastSteps map[string]lifecycle.Step
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	SessionID    string
	DatabasePath string
	LockFilePath string
	RefreshedAt  time.Time
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "fitlotd.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     st,
		notifier:  notifications.NewService(cfg),
		sessionID: uuid.NewString(),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		lastSteps: make(map[string]lifecycle.Step),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// SessionID returns the unique identifier for this daemon run.
func (d *Daemon) SessionID() string {
	return d.sessionID
}

// APIAddr returns the bound API address, empty when the API is disabled
// or not yet listening.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Start acquires the daemon lock, primes the report cache, and launches
// the change-feed follower and the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another fitlot daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})

	if err := d.refresh(d.ctx, false); err != nil {
		d.releaseStart()
		return fmt.Errorf("prime report cache: %w", err)
	}
	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			d.releaseStart()
			return err
		}
	}

	interval := time.Duration(d.cfg.Workflow.FeedPollInterval) * time.Second
	go d.follow(d.ctx, interval)

	d.running.Store(true)
	d.logger.Info("fitlot daemon started",
		logging.String("session_id", d.sessionID),
		logging.String("lock", d.lockPath),
	)
	return nil
}

func (d *Daemon) releaseStart() {
	_ = d.lock.Unlock()
	d.cancel()
	d.ctx = nil
	d.cancel = nil
	close(d.done)
	d.done = nil
}

// Stop shuts down the feed follower and the API and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("fitlot daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// follow consumes change-feed ticks and refreshes the cached report.
func (d *Daemon) follow(ctx context.Context, interval time.Duration) {
	defer close(d.done)
	feed := d.store.WatchChanges(ctx, interval)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-feed:
			if !ok {
				return
			}
			if err := d.refresh(ctx, true); err != nil {
				d.logger.Warn("report refresh failed", logging.Error(err))
			}
		}
	}
}

// refresh re-reads the pool, rebuilds the aggregate report, and notifies
// about lots that newly landed on REJECTED or Hold.
func (d *Daemon) refresh(ctx context.Context, notify bool) error {
	snapshot, err := d.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	report := metrics.Aggregate(snapshot.Orders, snapshot.Lots)

	d.mu.Lock()
	d.report = report
	d.refreshed = time.Now()
	previous := d.lastSteps
	current := make(map[string]lifecycle.Step, len(snapshot.Lots))
	for _, lot := range snapshot.Lots {
		current[lot.LotNumber] = lot.CurrentStep
	}
	d.lastSteps = current
	d.mu.Unlock()

	if !notify {
		return nil
	}
	for _, lot := range snapshot.Lots {
		if previous[lot.LotNumber] == lot.CurrentStep {
			continue
		}
		switch lot.CurrentStep {
		case lifecycle.StepRejected:
			if err := d.notifier.NotifyLotRejected(ctx, lot); err != nil {
				d.logger.Warn("reject notification failed",
					logging.String(logging.FieldLotNumber, lot.LotNumber),
					logging.Error(err),
				)
			}
		case lifecycle.StepHold:
			if err := d.notifier.NotifyLotOnHold(ctx, lot); err != nil {
				d.logger.Warn("hold notification failed",
					logging.String(logging.FieldLotNumber, lot.LotNumber),
					logging.Error(err),
				)
			}
		}
	}
	return nil
}

// Report returns the cached aggregate report and when it was built.
func (d *Daemon) Report() (*metrics.Report, time.Time) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.report, d.refreshed
}

// Orders lists all orders from the shared pool.
func (d *Daemon) Orders(ctx context.Context) ([]*store.Order, error) {
	return d.store.ListOrders(ctx)
}

// Lots lists lots, optionally filtered by step.
func (d *Daemon) Lots(ctx context.Context, steps ...lifecycle.Step) ([]*store.Lot, error) {
	return d.store.ListLots(ctx, steps...)
}

// Lot fetches one lot by number. Returns nil when absent.
func (d *Daemon) Lot(ctx context.Context, lotNumber string) (*store.Lot, error) {
	return d.store.GetLot(ctx, lotNumber)
}

// TestNotification triggers a test notification using the current
// configuration.
func (d *Daemon) TestNotification(ctx context.Context) error {
	return d.notifier.TestNotification(ctx)
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	d.mu.RLock()
	refreshed := d.refreshed
	d.mu.RUnlock()
	return Status{
		Running:      d.running.Load(),
		SessionID:    d.sessionID,
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		RefreshedAt:  refreshed,
	}
}
