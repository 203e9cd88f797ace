package store

import (
	"strings"
	"time"

	"fitlot/internal/lifecycle"
	"fitlot/internal/routing"
)

// InspectionTempReject is the inspection status sentinel recorded for
// temporarily rejected lots. Dashboards count holds by this value,
// independent of the lot's current step.
const InspectionTempReject = "Tijdelijke afkeur"

// Urgency is the manual expediting label applied through the patch path.
type Urgency string

const (
	UrgencySpoed  Urgency = "SPOED"
	UrgencyHold   Urgency = "HOLD"
	UrgencyNormal Urgency = "NORMAAL"
)

// ParseUrgency converts a string into a known Urgency.
func ParseUrgency(value string) (Urgency, bool) {
	switch Urgency(strings.ToUpper(strings.TrimSpace(value))) {
	case UrgencySpoed:
		return UrgencySpoed, true
	case UrgencyHold:
		return UrgencyHold, true
	case UrgencyNormal:
		return UrgencyNormal, true
	}
	return "", false
}

// Order is a planning record created by import. Orders are historical
// records: they are updated in place and never deleted.
type Order struct {
	OrderID        string
	Machine        string
	Item           string
	Classification routing.Classification
	Plan           int
	DeliveryDate   string
	Drawing        string
	Project        string
	Status         string
	Urgency        Urgency
	Notes          string
	IdentCode      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Inspection carries the quality-gate verdict details for a lot.
type Inspection struct {
	Status string
	Note   string
	Reason string
}

// Lot is a single physically tracked unit. LotNumber is immutable once
// assigned. OrderID is a soft reference: the order must have existed when
// the lot was created, but nothing cascades.
type Lot struct {
	LotNumber             string
	OrderID               string
	Item                  string
	Classification        routing.Classification
	OriginMachine         string
	CurrentStation        string
	CurrentStep           lifecycle.Step
	Status                lifecycle.LotStatus
	Measurements          map[string]string
	Comments              string
	RejectionReason       string
	Inspection            Inspection
	Urgency               Urgency
	Notes                 string
	IdentCode             string
	LastOperator          string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	UnloadedAt            *time.Time
	ArrivedAtInspectionAt *time.Time
}

// IsActive reports whether the lot still counts toward live work.
func (l *Lot) IsActive() bool {
	return l != nil && l.CurrentStep.IsActive()
}

// IsTempRejected reports whether the lot carries the temporary-reject
// inspection sentinel.
func (l *Lot) IsTempRejected() bool {
	return l != nil && l.Inspection.Status == InspectionTempReject
}

// Snapshot is a full read of the shared pool, the unit delivered by the
// change feed.
type Snapshot struct {
	Orders []*Order
	Lots   []*Lot
}
