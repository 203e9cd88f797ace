package testsupport

import (
	"context"
	"testing"
	"time"

	"fitlot/internal/config"
	"fitlot/internal/lifecycle"
	"fitlot/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedOrder upserts a planning order with sensible defaults for tests.
func SeedOrder(t testing.TB, st *store.Store, orderID, item string, plan int) *store.Order {
	t.Helper()

	order, err := st.UpsertOrder(context.Background(), &store.Order{
		OrderID: orderID,
		Item:    item,
		Plan:    plan,
		Machine: "BH11",
	})
	if err != nil {
		t.Fatalf("store.UpsertOrder: %v", err)
	}
	return order
}

// SeedLot inserts an active lot at the winding step for tests.
func SeedLot(t testing.TB, st *store.Store, lotNumber, orderID string) *store.Lot {
	t.Helper()

	lot, err := st.InsertLot(context.Background(), &store.Lot{
		LotNumber:      lotNumber,
		OrderID:        orderID,
		OriginMachine:  "BH11",
		CurrentStation: "BH11",
		CurrentStep:    lifecycle.StepWikkelen,
		Status:         lifecycle.LotActive,
	})
	if err != nil {
		t.Fatalf("store.InsertLot: %v", err)
	}
	return lot
}

// WaitForTick waits for a change-feed tick or fails the test after the
// timeout.
func WaitForTick(t testing.TB, ch <-chan struct{}, timeout time.Duration) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("no change-feed tick within %s", timeout)
	}
}
