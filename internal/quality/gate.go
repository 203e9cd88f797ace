package quality

import (
	"errors"
	"fmt"
	"time"

	"fitlot/internal/lifecycle"
	"fitlot/internal/routing"
	"fitlot/internal/store"
)

// ErrMissingReason signals a reject or temporary reject submitted without a
// reason from the fixed list. The check runs before any write.
var ErrMissingReason = errors.New("rejection reason required")

// Submission is one operator decision at the unloading checkpoint.
type Submission struct {
	Disposition  routing.Disposition
	Measurements map[string]string
	Comments     string
	Reason       string

	// Override substitutes the resolved destination. Honored only while
	// the disposition is ok.
	Override *routing.Destination
}

// Gate applies unloading decisions to a lot. Hold and scrap station codes
// are site configuration; zero values fall back to the canonical codes.
type Gate struct {
	HoldStation  string
	ScrapStation string
}

// NewGate returns a gate using the canonical hold and scrap stations.
func NewGate() Gate {
	return Gate{HoldStation: routing.StationHold, ScrapStation: routing.StationScrap}
}

// Validate checks a submission against the lot's classification without
// touching the lot. Reject paths need a known reason; measurement fields
// must apply to the product family and parse as positive decimals. For an
// ok disposition every applicable field must be present.
func (g Gate) Validate(class routing.Classification, sub Submission) error {
	switch sub.Disposition {
	case routing.DispositionOK, routing.DispositionTempReject, routing.DispositionReject:
	default:
		return fmt.Errorf("unknown disposition %q", sub.Disposition)
	}

	if sub.Disposition != routing.DispositionOK {
		if sub.Reason == "" {
			return ErrMissingReason
		}
		if !KnownReason(sub.Reason) {
			return fmt.Errorf("%w: %q is not on the reason list", ErrMissingReason, sub.Reason)
		}
	}

	return ValidateMeasurements(class, sub.Measurements, sub.Disposition == routing.DispositionOK)
}

// Apply validates the submission and mutates the lot in memory. The caller
// persists the result; nothing is written here, so a validation failure
// leaves every persisted record untouched.
func (g Gate) Apply(lot *store.Lot, sub Submission, now time.Time) error {
	if lot == nil {
		return errors.New("lot is nil")
	}
	class := routing.EffectiveClassification(lot.Classification, lot.Item)
	if err := g.Validate(class, sub); err != nil {
		return err
	}

	lot.Measurements = sub.Measurements
	lot.Comments = sub.Comments

	switch sub.Disposition {
	case routing.DispositionReject:
		lot.Status = lifecycle.LotRejected
		lot.CurrentStep = lifecycle.StepRejected
		lot.CurrentStation = g.scrapStation()
		lot.RejectionReason = sub.Reason
		lot.Inspection = store.Inspection{Note: sub.Comments, Reason: sub.Reason}

	case routing.DispositionTempReject:
		lot.Status = lifecycle.LotHold
		lot.CurrentStep = lifecycle.StepHold
		lot.CurrentStation = g.holdStation()
		lot.RejectionReason = sub.Reason
		lot.Inspection = store.Inspection{
			Status: store.InspectionTempReject,
			Note:   sub.Comments,
			Reason: sub.Reason,
		}

	case routing.DispositionOK:
		dest := routing.ResolveDestination(class, lot.OriginMachine, routing.DispositionOK)
		if sub.Override != nil {
			dest = *sub.Override
		}
		lot.Status = lifecycle.LotActive
		lot.CurrentStep = dest.Step
		lot.CurrentStation = dest.Station
		lot.RejectionReason = ""
		unloaded := now.UTC()
		lot.UnloadedAt = &unloaded
	}
	return nil
}

func (g Gate) holdStation() string {
	if g.HoldStation != "" {
		return g.HoldStation
	}
	return routing.StationHold
}

func (g Gate) scrapStation() string {
	if g.ScrapStation != "" {
		return g.ScrapStation
	}
	return routing.StationScrap
}
