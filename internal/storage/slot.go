package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// KeySlot is a persistence slot bound to one key of a DB.
type KeySlot struct {
	db  *DB
	key string
}

// Slot binds key as a persistence slot.
func (s *DB) Slot(key string) *KeySlot {
	return &KeySlot{db: s, key: key}
}

func (k *KeySlot) Key() string { return k.key }

// Load returns nil data when the key has never been written.
func (k *KeySlot) Load() ([]byte, error) {
	v, ok, err := k.db.Get(k.key)
	if err != nil || !ok {
		return nil, err
	}
	return []byte(v), nil
}

func (k *KeySlot) Save(data []byte) error {
	return k.db.Put(k.key, string(data))
}

// FileSlot keeps the slot value in a single JSON file.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (f *FileSlot) Path() string { return f.path }

// Load returns nil data when the file does not exist.
func (f *FileSlot) Load() ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return b, nil
}

// Save writes through a temp file and rename so a crash never leaves a
// half-written collection behind.
func (f *FileSlot) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
