// Package lotid builds unique lot identifiers from station and time
// context.
package lotid
