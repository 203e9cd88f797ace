// Package quality implements the unloading checkpoint: conditional
// measurement collection, the fixed rejection-reason list, and the
// disposition effects that move a lot to its next station.
package quality
