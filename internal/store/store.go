// Package store provides the persisted configuration for the rig: a raw
// integer-slot storage capability plus the typed, clamped settings view the
// editor mutates. The real storage is a bbolt file; the fake is in-memory.
package store

// Slot layout. Indices are stable across versions.
const (
	NumSlots     = 7 // six pump offsets + shared runtime
	NumPumps     = 6
	RuntimeIndex = 6
)

// Storage is the raw persisted-storage capability: integer slots staged in
// memory by Set and flushed by Save.
type Storage interface {
	// GetInt returns the persisted value for a slot. Missing slots read as 0.
	GetInt(index int) (int, error)

	// Set stages a value for a slot. It never fails locally.
	Set(index, value int)

	// Save flushes staged values to the backing medium.
	Save() error

	// Close releases the backing medium.
	Close() error
}
