package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitlot/internal/lifecycle"
	"fitlot/internal/routing"
)

const lotColumns = "lot_number, order_id, item, classification, origin_machine, current_station, current_step, status, measurements_json, comments, rejection_reason, inspection_status, inspection_note, inspection_reason, urgency, notes, ident_code, last_operator, created_at, updated_at, unloaded_at, arrived_at_inspection_at"

// InsertLot persists a newly started lot. The lot number must be unique;
// a duplicate fails on the primary key rather than overwriting history.
func (s *Store) InsertLot(ctx context.Context, lot *Lot) (*Lot, error) {
	if lot == nil {
		return nil, errors.New("lot is nil")
	}
	now := time.Now().UTC()
	lot.CreatedAt = now
	lot.UpdatedAt = now
	timestamp := now.Format(time.RFC3339Nano)

	measurements, err := marshalMeasurements(lot.Measurements)
	if err != nil {
		return nil, err
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO lots (
            lot_number, order_id, item, classification, origin_machine,
            current_station, current_step, status, measurements_json,
            comments, rejection_reason, inspection_status, inspection_note,
            inspection_reason, urgency, notes, ident_code, last_operator,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lot.LotNumber,
		lot.OrderID,
		nullableString(lot.Item),
		nullableString(string(lot.Classification)),
		nullableString(lot.OriginMachine),
		nullableString(lot.CurrentStation),
		string(lot.CurrentStep),
		string(lot.Status),
		measurements,
		nullableString(lot.Comments),
		nullableString(lot.RejectionReason),
		nullableString(lot.Inspection.Status),
		nullableString(lot.Inspection.Note),
		nullableString(lot.Inspection.Reason),
		nullableString(string(lot.Urgency)),
		nullableString(lot.Notes),
		nullableString(lot.IdentCode),
		nullableString(lot.LastOperator),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert lot: %w", err)
	}
	return s.GetLot(ctx, lot.LotNumber)
}

// GetLot fetches a lot by lot number. Returns nil when absent.
func (s *Store) GetLot(ctx context.Context, lotNumber string) (*Lot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+lotColumns+` FROM lots WHERE lot_number = ?`, lotNumber)
	lot, err := scanLot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// ListLots returns all lots, optionally filtered by step, ordered by
// creation time.
func (s *Store) ListLots(ctx context.Context, steps ...lifecycle.Step) ([]*Lot, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + lotColumns + ` FROM lots`
	orderClause := ` ORDER BY created_at, lot_number`

	if len(steps) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(steps))
		args := make([]any, len(steps))
		for i, step := range steps {
			args[i] = string(step)
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE current_step IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []*Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// UpdateLot persists changes to an existing lot. The lot number itself is
// never rewritten.
func (s *Store) UpdateLot(ctx context.Context, lot *Lot) error {
	if lot == nil {
		return errors.New("lot is nil")
	}
	lot.UpdatedAt = time.Now().UTC()

	measurements, err := marshalMeasurements(lot.Measurements)
	if err != nil {
		return err
	}

	_, err = s.execWithRetry(
		ctx,
		`UPDATE lots
         SET order_id = ?, item = ?, classification = ?, origin_machine = ?,
             current_station = ?, current_step = ?, status = ?,
             measurements_json = ?, comments = ?, rejection_reason = ?,
             inspection_status = ?, inspection_note = ?, inspection_reason = ?,
             urgency = ?, notes = ?, ident_code = ?, last_operator = ?,
             updated_at = ?, unloaded_at = ?, arrived_at_inspection_at = ?
         WHERE lot_number = ?`,
		lot.OrderID,
		nullableString(lot.Item),
		nullableString(string(lot.Classification)),
		nullableString(lot.OriginMachine),
		nullableString(lot.CurrentStation),
		string(lot.CurrentStep),
		string(lot.Status),
		measurements,
		nullableString(lot.Comments),
		nullableString(lot.RejectionReason),
		nullableString(lot.Inspection.Status),
		nullableString(lot.Inspection.Note),
		nullableString(lot.Inspection.Reason),
		nullableString(string(lot.Urgency)),
		nullableString(lot.Notes),
		nullableString(lot.IdentCode),
		nullableString(lot.LastOperator),
		lot.UpdatedAt.Format(time.RFC3339Nano),
		nullableTime(lot.UnloadedAt),
		nullableTime(lot.ArrivedAtInspectionAt),
		lot.LotNumber,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	return nil
}

// NextLotSequence atomically claims the next per-prefix sequence number.
// The counter seeds itself from lots that predate it, so legacy data keeps
// numbering where it left off.
func (s *Store) NextLotSequence(ctx context.Context, prefix string) (int, error) {
	ctx = ensureContext(ctx)
	var seq int
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(
			ctx,
			`INSERT INTO lot_sequences (prefix, next_seq)
             VALUES (?, (SELECT COUNT(1) FROM lots WHERE lot_number LIKE ? || '%') + 1)
             ON CONFLICT(prefix) DO UPDATE SET next_seq = next_seq + 1
             RETURNING next_seq`,
			prefix,
			prefix,
		)
		return row.Scan(&seq)
	})
	if err != nil {
		return 0, fmt.Errorf("next lot sequence: %w", err)
	}
	s.markDirty()
	return seq, nil
}

// CountLotsWithPrefix counts lots whose number starts with the prefix.
func (s *Store) CountLotsWithPrefix(ctx context.Context, prefix string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lots WHERE lot_number LIKE ? || '%'`, prefix)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count lots with prefix: %w", err)
	}
	return count, nil
}

// Snapshot reads the full order and lot sets in one pass, the shape the
// change feed delivers to the aggregator.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	lots, err := s.ListLots(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Orders: orders, Lots: lots}, nil
}

// Stats returns a count of lots grouped by step.
func (s *Store) Stats(ctx context.Context) (map[lifecycle.Step]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT current_step, COUNT(1) FROM lots GROUP BY current_step`)
	if err != nil {
		return nil, fmt.Errorf("lot stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[lifecycle.Step]int)
	for rows.Next() {
		var step string
		var count int
		if err := rows.Scan(&step, &count); err != nil {
			return nil, err
		}
		stats[lifecycle.Step(step)] = count
	}
	return stats, rows.Err()
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func scanLot(scanner interface{ Scan(dest ...any) error }) (*Lot, error) {
	var (
		lotNumber        string
		orderID          string
		item             sql.NullString
		classification   sql.NullString
		originMachine    sql.NullString
		currentStation   sql.NullString
		currentStep      string
		status           string
		measurementsRaw  sql.NullString
		comments         sql.NullString
		rejectionReason  sql.NullString
		inspectionStatus sql.NullString
		inspectionNote   sql.NullString
		inspectionReason sql.NullString
		urgency          sql.NullString
		notes            sql.NullString
		identCode        sql.NullString
		lastOperator     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		unloadedRaw      sql.NullString
		arrivedRaw       sql.NullString
	)

	if err := scanner.Scan(
		&lotNumber,
		&orderID,
		&item,
		&classification,
		&originMachine,
		&currentStation,
		&currentStep,
		&status,
		&measurementsRaw,
		&comments,
		&rejectionReason,
		&inspectionStatus,
		&inspectionNote,
		&inspectionReason,
		&urgency,
		&notes,
		&identCode,
		&lastOperator,
		&createdRaw,
		&updatedRaw,
		&unloadedRaw,
		&arrivedRaw,
	); err != nil {
		return nil, err
	}

	measurements, err := unmarshalMeasurements(measurementsRaw.String)
	if err != nil {
		return nil, err
	}

	lot := &Lot{
		LotNumber:       lotNumber,
		OrderID:         orderID,
		Item:            item.String,
		Classification:  routing.Classification(classification.String),
		OriginMachine:   originMachine.String,
		CurrentStation:  currentStation.String,
		CurrentStep:     lifecycle.Step(currentStep),
		Status:          lifecycle.LotStatus(status),
		Measurements:    measurements,
		Comments:        comments.String,
		RejectionReason: rejectionReason.String,
		Inspection: Inspection{
			Status: inspectionStatus.String,
			Note:   inspectionNote.String,
			Reason: inspectionReason.String,
		},
		Urgency:      Urgency(urgency.String),
		Notes:        notes.String,
		IdentCode:    identCode.String,
		LastOperator: lastOperator.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		lot.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		lot.UpdatedAt = updated
	}
	if unloadedRaw.Valid {
		if unloaded, err := parseTimeString(unloadedRaw.String); err == nil {
			lot.UnloadedAt = &unloaded
		}
	}
	if arrivedRaw.Valid {
		if arrived, err := parseTimeString(arrivedRaw.String); err == nil {
			lot.ArrivedAtInspectionAt = &arrived
		}
	}
	return lot, nil
}
