package storage

import "errors"

// ErrSlotEmpty is returned by ReadSlot when nothing has been persisted yet.
var ErrSlotEmpty = errors.New("storage slot is empty")

// Provider persists the serialized planner document in a single named slot.
// WriteSlot always replaces the whole slot; a concurrent reader sees either
// the previous or the new bytes, never a mix.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slot
	ReadSlot() ([]byte, error)
	WriteSlot(data []byte) error

	// Utils
	GetConfigPath() string
}
