// Package lifecycle defines the fixed production step vocabulary and the
// operator-triggered transition rules for tracked lots.
package lifecycle
