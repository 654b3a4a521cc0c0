package store

import (
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket is the bbolt bucket holding the configuration slots.
const Bucket = "settings"

// BoltStorage persists slots in a bbolt file on the rig's SD card.
type BoltStorage struct {
	db      *bolt.DB
	pending map[int]int
}

// OpenBolt opens (or creates) the settings database at path.
func OpenBolt(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(Bucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create settings bucket: %w", err)
	}
	return &BoltStorage{db: db, pending: make(map[int]int)}, nil
}

// GetInt reads a slot from the database. A slot never written reads as 0.
func (b *BoltStorage) GetInt(index int) (int, error) {
	if index < 0 || index >= NumSlots {
		return 0, fmt.Errorf("slot %d out of range", index)
	}
	var v int
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(Bucket)).Get(slotKey(index))
		if raw == nil {
			return nil
		}
		n, err := strconv.Atoi(string(raw))
		if err != nil {
			return fmt.Errorf("slot %d: %w", index, err)
		}
		v = n
		return nil
	})
	return v, err
}

// Set stages a slot value for the next Save.
func (b *BoltStorage) Set(index, value int) {
	if index < 0 || index >= NumSlots {
		return
	}
	b.pending[index] = value
}

// Save writes all staged slots in one transaction.
func (b *BoltStorage) Save() error {
	if len(b.pending) == 0 {
		return nil
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(Bucket))
		for index, value := range b.pending {
			if err := bkt.Put(slotKey(index), []byte(strconv.Itoa(value))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	b.pending = make(map[int]int)
	return nil
}

// Close closes the database.
func (b *BoltStorage) Close() error {
	return b.db.Close()
}

func slotKey(index int) []byte {
	return []byte(strconv.Itoa(index))
}
