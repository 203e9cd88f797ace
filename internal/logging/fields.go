package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldLotNumber is the standardized structured logging key for lot identifiers.
	FieldLotNumber = "lot_number"
	// FieldOrderID is the standardized structured logging key for order business keys.
	FieldOrderID = "order_id"
	// FieldStation is the standardized structured logging key for station codes.
	FieldStation = "station"
	// FieldStep is the standardized structured logging key for lifecycle steps.
	FieldStep = "step"
	// FieldOperator is the standardized structured logging key for operator identity.
	FieldOperator = "operator"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)
