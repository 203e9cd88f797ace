// Package logging provides the shared slog construction and attribute
// conventions used across fitlot binaries.
package logging
