// Package main hosts the fitlot terminal CLI entrypoint and command graph.
//
// The Cobra-based command tree translates barcode scans and keyboard input at
// a production terminal into database operations: starting lots, advancing
// them between steps, recording unload inspections, patching orders, and
// importing planning exports. It centralizes configuration resolution, store
// access, and operator identity so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
