// Package notifications pushes reject and hold alerts to an ntfy topic so
// the quality lead hears about problems without watching a dashboard.
package notifications
