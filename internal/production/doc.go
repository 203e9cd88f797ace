// Package production is the service layer behind every terminal action:
// starting lots, advancing them, recording dispositions, patching records,
// and aggregating dashboard figures.
package production
