package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitlot/internal/routing"
)

const orderColumns = "order_id, machine, item, classification, plan, delivery_date, drawing, project, status, urgency, notes, ident_code, created_at, updated_at"

// UpsertOrder inserts an order or updates the import-owned fields of an
// existing one. Bookkeeping fields applied through patches survive
// re-imports.
func (s *Store) UpsertOrder(ctx context.Context, order *Order) (*Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO orders (
            order_id, machine, item, classification, plan, delivery_date,
            drawing, project, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(order_id) DO UPDATE SET
            machine = excluded.machine,
            item = excluded.item,
            classification = excluded.classification,
            plan = excluded.plan,
            delivery_date = excluded.delivery_date,
            drawing = excluded.drawing,
            project = excluded.project,
            status = excluded.status,
            updated_at = excluded.updated_at`,
		order.OrderID,
		nullableString(order.Machine),
		nullableString(order.Item),
		nullableString(string(order.Classification)),
		order.Plan,
		nullableString(order.DeliveryDate),
		nullableString(order.Drawing),
		nullableString(order.Project),
		nullableString(order.Status),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert order: %w", err)
	}
	return s.GetOrder(ctx, order.OrderID)
}

// GetOrder fetches an order by its business key. Returns nil when absent.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListOrders returns all orders sorted by creation time.
func (s *Store) ListOrders(ctx context.Context) ([]*Order, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at, order_id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateOrder persists the patchable bookkeeping fields of an order.
func (s *Store) UpdateOrder(ctx context.Context, order *Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	order.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(
		ctx,
		`UPDATE orders
         SET machine = ?, item = ?, classification = ?, plan = ?, delivery_date = ?,
             drawing = ?, project = ?, status = ?, urgency = ?, notes = ?,
             ident_code = ?, updated_at = ?
         WHERE order_id = ?`,
		nullableString(order.Machine),
		nullableString(order.Item),
		nullableString(string(order.Classification)),
		order.Plan,
		nullableString(order.DeliveryDate),
		nullableString(order.Drawing),
		nullableString(order.Project),
		nullableString(order.Status),
		nullableString(string(order.Urgency)),
		nullableString(order.Notes),
		nullableString(order.IdentCode),
		order.UpdatedAt.Format(time.RFC3339Nano),
		order.OrderID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func scanOrder(scanner interface{ Scan(dest ...any) error }) (*Order, error) {
	var (
		orderID        string
		machine        sql.NullString
		item           sql.NullString
		classification sql.NullString
		plan           int
		deliveryDate   sql.NullString
		drawing        sql.NullString
		project        sql.NullString
		status         sql.NullString
		urgency        sql.NullString
		notes          sql.NullString
		identCode      sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&orderID,
		&machine,
		&item,
		&classification,
		&plan,
		&deliveryDate,
		&drawing,
		&project,
		&status,
		&urgency,
		&notes,
		&identCode,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	order := &Order{
		OrderID:        orderID,
		Machine:        machine.String,
		Item:           item.String,
		Classification: routing.Classification(classification.String),
		Plan:           plan,
		DeliveryDate:   deliveryDate.String,
		Drawing:        drawing.String,
		Project:        project.String,
		Status:         status.String,
		Urgency:        Urgency(urgency.String),
		Notes:          notes.String,
		IdentCode:      identCode.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		order.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		order.UpdatedAt = updated
	}
	return order, nil
}
