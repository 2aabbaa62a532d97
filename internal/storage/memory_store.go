package storage

import "fmt"

// MemoryStore keeps the slot in process memory. FailWrites makes every
// WriteSlot fail, for exercising write-failure paths.
type MemoryStore struct {
	data       []byte
	Writes     int
	FailWrites bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) ReadSlot() ([]byte, error) {
	if len(s.data) == 0 {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStore) WriteSlot(data []byte) error {
	if s.FailWrites {
		return fmt.Errorf("failed to write storage: quota exceeded")
	}
	s.data = append([]byte(nil), data...)
	s.Writes++
	return nil
}

// Seed replaces the stored bytes without counting a write.
func (s *MemoryStore) Seed(data []byte) {
	s.data = append([]byte(nil), data...)
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}
