package store

// FakeStorage is a test double backed by a map.
type FakeStorage struct {
	// Values holds the "persisted" slots.
	Values map[int]int

	// staged holds values set but not yet saved.
	staged map[int]int

	// Saves counts Save calls.
	Saves int

	// GetErr, if set, is returned by GetInt.
	GetErr error

	// SaveErr, if set, is returned by Save (staged values are kept).
	SaveErr error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeStorage creates a FakeStorage with the given initial slots.
func NewFakeStorage(values map[int]int) *FakeStorage {
	if values == nil {
		values = make(map[int]int)
	}
	return &FakeStorage{Values: values, staged: make(map[int]int)}
}

// GetInt returns the persisted slot value, 0 if never written.
func (f *FakeStorage) GetInt(index int) (int, error) {
	if f.GetErr != nil {
		return 0, f.GetErr
	}
	return f.Values[index], nil
}

// Set stages a slot value.
func (f *FakeStorage) Set(index, value int) {
	f.staged[index] = value
}

// Save moves staged values into Values.
func (f *FakeStorage) Save() error {
	f.Saves++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	for index, value := range f.staged {
		f.Values[index] = value
	}
	f.staged = make(map[int]int)
	return nil
}

// Close marks the storage as closed.
func (f *FakeStorage) Close() error {
	f.Closed = true
	return nil
}
