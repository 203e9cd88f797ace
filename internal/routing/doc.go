// Package routing holds the pure decision logic that maps a lot's product
// classification, origin station, and quality disposition to its next
// physical destination.
package routing
