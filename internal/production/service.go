package production

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fitlot/internal/config"
	"fitlot/internal/identity"
	"fitlot/internal/lifecycle"
	"fitlot/internal/logging"
	"fitlot/internal/lotid"
	"fitlot/internal/metrics"
	"fitlot/internal/quality"
	"fitlot/internal/routing"
	"fitlot/internal/store"
)

// Service wires the lifecycle, routing, quality, and identity pieces over
// the shared store. Every terminal runs one Service against the same
// database file; mutations are single last-write-wins statements.
type Service struct {
	store    *store.Store
	gate     quality.Gate
	logger   *slog.Logger
	station  string
	operator string
	now      func() time.Time
}

// New constructs a Service for the configured station.
func New(st *store.Store, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store: st,
		gate: quality.Gate{
			HoldStation:  cfg.Station.HoldStation,
			ScrapStation: cfg.Station.ScrapStation,
		},
		logger:   logging.NewComponentLogger(logger, "production"),
		station:  cfg.Station.Code,
		operator: cfg.Operator.Email,
		now:      time.Now,
	}
}

// Station returns the configured station code.
func (s *Service) Station() string {
	return s.station
}

// StartProduction creates a lot for an order at this station. With an empty
// manualLotID the identity comes from the station prefix plus the store's
// atomic per-prefix counter; a manual identifier must be at least ten
// characters and is otherwise taken as entered.
func (s *Service) StartProduction(ctx context.Context, orderID, manualLotID string) (*store.Lot, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, Wrap(ErrRemoteWrite, "start", "read order", err)
	}
	if order == nil {
		return nil, Wrap(ErrLookup, "start", "unknown order "+orderID, nil)
	}

	lotNumber := strings.TrimSpace(manualLotID)
	if lotNumber != "" {
		if len(lotNumber) < lotid.MinManualLength {
			return nil, Wrap(ErrValidation, "start", "manual lot id shorter than 10 characters", nil)
		}
	} else {
		prefix, err := lotid.Prefix(s.station, s.now())
		if err != nil {
			return nil, Wrap(ErrValidation, "start", "station code", err)
		}
		seq, err := s.store.NextLotSequence(ctx, prefix)
		if err != nil {
			return nil, Wrap(ErrRemoteWrite, "start", "claim lot sequence", err)
		}
		lotNumber = lotid.Format(prefix, seq)
	}

	lot := &store.Lot{
		LotNumber:      lotNumber,
		OrderID:        order.OrderID,
		Item:           order.Item,
		Classification: routing.EffectiveClassification(order.Classification, order.Item),
		OriginMachine:  s.station,
		CurrentStation: s.station,
		CurrentStep:    lifecycle.StepWikkelen,
		Status:         lifecycle.LotActive,
		Urgency:        order.Urgency,
		LastOperator:   s.operatorFor(ctx),
	}
	created, err := s.store.InsertLot(ctx, lot)
	if err != nil {
		return nil, Wrap(ErrRemoteWrite, "start", "insert lot", err)
	}

	s.logger.InfoContext(ctx, "lot started",
		logging.String(logging.FieldLotNumber, created.LotNumber),
		logging.String(logging.FieldOrderID, created.OrderID),
		logging.String(logging.FieldStation, s.station),
	)
	return created, nil
}

// Advance moves a lot to its next step after a terminal scan. Format
// checks on the code are advisory; the lookup runs for any non-empty
// input and a miss never mutates anything.
func (s *Service) Advance(ctx context.Context, code string) (*store.Lot, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, Wrap(ErrLookup, "advance", "empty lot code", nil)
	}
	if hints := lotid.Hints(code); len(hints) > 0 {
		s.logger.DebugContext(ctx, "lot code format hints",
			logging.String(logging.FieldLotNumber, code),
			logging.String("hints", strings.Join(hints, "; ")),
		)
	}

	lot, err := s.store.GetLot(ctx, code)
	if err != nil {
		return nil, Wrap(ErrRemoteWrite, "advance", "read lot", err)
	}
	if lot == nil {
		return nil, Wrap(ErrLookup, "advance", "no lot with number "+code, nil)
	}

	next, err := lifecycle.Advance(lot.CurrentStep)
	if err != nil {
		return nil, Wrap(ErrValidation, "advance", "", err)
	}

	lot.CurrentStep = next
	switch next {
	case lifecycle.StepEindinspectie:
		lot.CurrentStation = routing.StationEindinspectie
		arrived := s.now().UTC()
		lot.ArrivedAtInspectionAt = &arrived
	case lifecycle.StepFinished:
		// Station stays where final inspection released it.
	}
	lot.LastOperator = s.operatorFor(ctx)

	if err := s.store.UpdateLot(ctx, lot); err != nil {
		return nil, Wrap(ErrRemoteWrite, "advance", "write lot", err)
	}

	s.logger.InfoContext(ctx, "lot advanced",
		logging.String(logging.FieldLotNumber, lot.LotNumber),
		logging.String(logging.FieldStep, string(lot.CurrentStep)),
	)
	return lot, nil
}

// SubmitDisposition records the unloading decision for a lot. Validation
// failures surface before any write; the previous persisted state stays
// intact.
func (s *Service) SubmitDisposition(ctx context.Context, code string, sub quality.Submission) (*store.Lot, error) {
	lot, err := s.store.GetLot(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, Wrap(ErrRemoteWrite, "disposition", "read lot", err)
	}
	if lot == nil {
		return nil, Wrap(ErrLookup, "disposition", "no lot with number "+code, nil)
	}
	if lot.CurrentStep.IsTerminal() {
		return nil, Wrap(ErrValidation, "disposition", "lot already at "+string(lot.CurrentStep), nil)
	}

	if err := s.gate.Apply(lot, sub, s.now()); err != nil {
		return nil, Wrap(err, "disposition", "", nil)
	}
	lot.LastOperator = s.operatorFor(ctx)

	if err := s.store.UpdateLot(ctx, lot); err != nil {
		return nil, Wrap(ErrRemoteWrite, "disposition", "write lot", err)
	}

	s.logger.InfoContext(ctx, "disposition recorded",
		logging.String(logging.FieldLotNumber, lot.LotNumber),
		logging.String("disposition", string(sub.Disposition)),
		logging.String(logging.FieldStep, string(lot.CurrentStep)),
	)
	return lot, nil
}

// Metrics reads the full shared pool and aggregates it.
func (s *Service) Metrics(ctx context.Context) (*metrics.Report, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, Wrap(ErrRemoteWrite, "metrics", "read snapshot", err)
	}
	return metrics.Aggregate(snapshot.Orders, snapshot.Lots), nil
}

func (s *Service) operatorFor(ctx context.Context) string {
	if operator, ok := identity.OperatorFromContext(ctx); ok {
		return operator
	}
	return s.operator
}
