package production

import (
	"context"
	"fmt"
	"strings"

	"fitlot/internal/lifecycle"
	"fitlot/internal/logging"
	"fitlot/internal/routing"
	"fitlot/internal/store"
)

// PatchKind selects the record type a patch applies to.
type PatchKind string

const (
	PatchOrderKind PatchKind = "order"
	PatchLotKind   PatchKind = "lot"
)

// ParsePatchKind converts a string into a known PatchKind.
func ParsePatchKind(value string) (PatchKind, bool) {
	switch PatchKind(strings.ToLower(strings.TrimSpace(value))) {
	case PatchOrderKind:
		return PatchOrderKind, true
	case PatchLotKind:
		return PatchLotKind, true
	}
	return "", false
}

// Fields is a partial update. Nil pointers leave the field untouched; no
// validation happens beyond field presence and enum membership.
type Fields struct {
	Urgency   *string
	Notes     *string
	IdentCode *string

	// ResumeTo re-enters a held lot into the flow at the named step
	// (Nabewerken, Mazak, or Eindinspectie). Lot patches only; this is
	// the single path out of Hold.
	ResumeTo *string
}

func (f Fields) empty() bool {
	return f.Urgency == nil && f.Notes == nil && f.IdentCode == nil && f.ResumeTo == nil
}

// Patch applies a partial correction to an order or lot, independent of the
// state machine.
func (s *Service) Patch(ctx context.Context, kind PatchKind, id string, fields Fields) error {
	switch kind {
	case PatchOrderKind:
		_, err := s.PatchOrder(ctx, id, fields)
		return err
	case PatchLotKind:
		_, err := s.PatchLot(ctx, id, fields)
		return err
	}
	return Wrap(ErrValidation, "patch", fmt.Sprintf("unknown record kind %q", kind), nil)
}

// PatchOrder applies bookkeeping corrections to an order.
func (s *Service) PatchOrder(ctx context.Context, orderID string, fields Fields) (*store.Order, error) {
	if fields.empty() {
		return nil, Wrap(ErrValidation, "patch", "no fields to apply", nil)
	}
	if fields.ResumeTo != nil {
		return nil, Wrap(ErrValidation, "patch", "resume applies to lots only", nil)
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, Wrap(ErrRemoteWrite, "patch", "read order", err)
	}
	if order == nil {
		return nil, Wrap(ErrLookup, "patch", "unknown order "+orderID, nil)
	}

	if fields.Urgency != nil {
		urgency, ok := store.ParseUrgency(*fields.Urgency)
		if !ok {
			return nil, Wrap(ErrValidation, "patch", fmt.Sprintf("unknown urgency %q", *fields.Urgency), nil)
		}
		order.Urgency = urgency
	}
	if fields.Notes != nil {
		order.Notes = *fields.Notes
	}
	if fields.IdentCode != nil {
		order.IdentCode = *fields.IdentCode
	}

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return nil, Wrap(ErrRemoteWrite, "patch", "write order", err)
	}
	s.logger.InfoContext(ctx, "order patched",
		logging.String(logging.FieldOrderID, order.OrderID),
	)
	return order, nil
}

// PatchLot applies bookkeeping corrections to a lot, including re-entering
// a held lot into the flow.
func (s *Service) PatchLot(ctx context.Context, lotNumber string, fields Fields) (*store.Lot, error) {
	if fields.empty() {
		return nil, Wrap(ErrValidation, "patch", "no fields to apply", nil)
	}

	lot, err := s.store.GetLot(ctx, lotNumber)
	if err != nil {
		return nil, Wrap(ErrRemoteWrite, "patch", "read lot", err)
	}
	if lot == nil {
		return nil, Wrap(ErrLookup, "patch", "no lot with number "+lotNumber, nil)
	}

	if fields.Urgency != nil {
		urgency, ok := store.ParseUrgency(*fields.Urgency)
		if !ok {
			return nil, Wrap(ErrValidation, "patch", fmt.Sprintf("unknown urgency %q", *fields.Urgency), nil)
		}
		lot.Urgency = urgency
	}
	if fields.Notes != nil {
		lot.Notes = *fields.Notes
	}
	if fields.IdentCode != nil {
		lot.IdentCode = *fields.IdentCode
	}
	if fields.ResumeTo != nil {
		if lot.CurrentStep != lifecycle.StepHold {
			return nil, Wrap(ErrValidation, "patch", "lot is not on hold", nil)
		}
		dest, ok := routing.ParseOverride(*fields.ResumeTo)
		if !ok {
			return nil, Wrap(ErrValidation, "patch", fmt.Sprintf("cannot resume to %q", *fields.ResumeTo), nil)
		}
		lot.CurrentStep = dest.Step
		lot.CurrentStation = dest.Station
		lot.Status = lifecycle.LotActive
		// The inspection record stays; the temporary-reject count follows
		// the sentinel, not the current step.
	}
	lot.LastOperator = s.operatorFor(ctx)

	if err := s.store.UpdateLot(ctx, lot); err != nil {
		return nil, Wrap(ErrRemoteWrite, "patch", "write lot", err)
	}
	s.logger.InfoContext(ctx, "lot patched",
		logging.String(logging.FieldLotNumber, lot.LotNumber),
		logging.String(logging.FieldStep, string(lot.CurrentStep)),
	)
	return lot, nil
}
