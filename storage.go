package bizmanager

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// StoreKey is the key the whole serialized Store lives under.
const StoreKey = "bizmanagerpro_state_v2"

// Storage is the key-value boundary the model persists through. It never
// raises to the caller: an implementation that cannot reach its medium must
// degrade to an in-process substitute instead of failing a mutation.
type Storage interface {
	Get(key string) (value string, ok bool)
	Set(key, value string)
	Remove(key string)
}

// MemStore is the in-process substitute store. Contents are lost when the
// process ends.
type MemStore struct {
	m map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *MemStore) Set(key, value string) { s.m[key] = value }
func (s *MemStore) Remove(key string)     { delete(s.m, key) }

// FileStore persists each key as a file in a directory. On the first
// underlying failure it flips permanently into an in-memory substitute;
// Degraded reports that so the caller can warn the user that durability is
// gone for the rest of the session.
type FileStore struct {
	dir      string
	degraded bool
	mem      *MemStore
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, mem: NewMemStore()}
}

// Degraded reports whether the store fell back to memory.
func (s *FileStore) Degraded() bool { return s.degraded }

func (s *FileStore) degrade(op string, err error) {
	if !s.degraded {
		log.Printf("storage degraded to memory after %s failure: %v", op, err)
	}
	s.degraded = true
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(key string) (string, bool) {
	if s.degraded {
		return s.mem.Get(key)
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false
	}
	if err != nil {
		s.degrade("read", err)
		return s.mem.Get(key)
	}
	return string(data), true
}

func (s *FileStore) Set(key, value string) {
	if !s.degraded {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			s.degrade("mkdir", err)
		} else if err := os.WriteFile(s.path(key), []byte(value), 0644); err != nil {
			s.degrade("write", err)
		}
	}
	// The memory copy is kept current either way, so a mid-session
	// degradation never loses the last written state.
	s.mem.Set(key, value)
}

func (s *FileStore) Remove(key string) {
	if !s.degraded {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.degrade("remove", err)
		}
	}
	s.mem.Remove(key)
}

// LoadStore reads and normalizes the persisted blob. A missing blob is a
// fresh start, not an error.
func LoadStore(st Storage) (*Store, []Discard) {
	raw, ok := st.Get(StoreKey)
	if !ok {
		return DefaultStore(), nil
	}
	return DecodeStore([]byte(raw))
}

// SaveStore persists the whole store as one blob, write-through. Movements
// are kept chronological on disk.
func SaveStore(st Storage, s *Store) error {
	s.SortMovements()
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not serialize store: %w", err)
	}
	st.Set(StoreKey, string(data))
	return nil
}
