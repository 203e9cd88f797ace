// Package metrics turns the full order and lot sets into the live
// per-machine and per-order progress figures shown on dashboards.
package metrics
