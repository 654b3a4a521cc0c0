package store

import (
	"fmt"
	"log"
)

// Settings is the typed, clamped, write-through view over the storage
// slots. It is mutated only by the editor, from the control loop, so it
// needs no locking.
type Settings struct {
	storage Storage
	vals    [NumSlots]int
	loaded  bool
}

// NewSettings creates a Settings view over the given storage. Values are
// zero until Load is called.
func NewSettings(storage Storage) *Settings {
	return &Settings{storage: storage}
}

// Load reads all slots from storage. On failure the in-memory values keep
// whatever was read so far and Loaded reports false; the rig keeps running
// in degraded mode rather than refusing to start.
func (s *Settings) Load() error {
	for i := 0; i < NumSlots; i++ {
		v, err := s.storage.GetInt(i)
		if err != nil {
			s.loaded = false
			return fmt.Errorf("load slot %d: %w", i, err)
		}
		if v < 0 {
			v = 0
		}
		s.vals[i] = v
	}
	s.loaded = true
	return nil
}

// Loaded reports whether the last Load succeeded.
func (s *Settings) Loaded() bool {
	return s.loaded
}

// Get returns the value (minutes) for slot 0..6.
func (s *Settings) Get(index int) int {
	if index < 0 || index >= NumSlots {
		return 0
	}
	return s.vals[index]
}

// Offset returns pump i's start offset in minutes.
func (s *Settings) Offset(i int) int {
	return s.Get(i)
}

// Offsets returns all six pump offsets.
func (s *Settings) Offsets() [NumPumps]int {
	var out [NumPumps]int
	copy(out[:], s.vals[:NumPumps])
	return out
}

// Runtime returns the shared pump runtime in minutes.
func (s *Settings) Runtime() int {
	return s.Get(RuntimeIndex)
}

// Modify adds delta to a slot, clamping at zero, and persists immediately.
// A persist failure keeps the in-memory edit and is logged, not returned:
// the editor has no use for the error and the edit must not be lost.
func (s *Settings) Modify(index, delta int) {
	if index < 0 || index >= NumSlots {
		return
	}
	v := s.vals[index] + delta
	if v < 0 {
		v = 0
	}
	s.vals[index] = v
	s.storage.Set(index, v)
	if err := s.storage.Save(); err != nil {
		log.Printf("settings: persist slot %d: %v", index, err)
	}
}
