// Package store persists orders and lots in a shared SQLite database and
// exposes the change feed that drives live dashboards.
//
// Every terminal process opens the same database file. Each mutation is a
// single atomic statement with last-write-wins semantics; there are no
// per-record locks and no cross-operation transactions. Mutual exclusion
// on a lot relies on the physical one-scan-per-unit workflow.
package store
