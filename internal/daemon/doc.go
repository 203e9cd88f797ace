// Package daemon coordinates the long-running fitlot dashboard process.
//
// It follows the shared store's change feed, keeps the aggregated progress
// report warm, serves it over a small HTTP API, and pushes reject/hold
// notifications. Flock-based locking prevents a second instance. The
// daemon is strictly a reader of the lot pool; terminals mutate the store
// directly.
package daemon
