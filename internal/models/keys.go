package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/timebox/internal/constants"
)

// UserName identifies a planner user.
type UserName string

// DateKey is a canonical, zero-padded YYYY-MM-DD date. Keys sort
// lexicographically in chronological order.
type DateKey string

// SlotKey addresses one 10-minute slot as "hour-slotIndex".
type SlotKey string

// CategoryID identifies a category in the category map.
type CategoryID string

// SlotIndex is the absolute position of a slot within a day, hour*6 + slot.
type SlotIndex int

// ParseDateKey validates that s is a canonical YYYY-MM-DD date.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	// time.Parse accepts some non-padded forms; the key must round-trip exactly
	if t.Format(constants.DateFormat) != s {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return DateKey(s), nil
}

// Time returns the date at midnight UTC.
func (d DateKey) Time() (time.Time, error) {
	return time.Parse(constants.DateFormat, string(d))
}

// NewSlotKey encodes an hour and a slot-within-hour.
func NewSlotKey(hour, slot int) (SlotKey, error) {
	if hour < 0 || hour >= constants.HoursPerDay {
		return "", fmt.Errorf("hour %d out of range 0-%d", hour, constants.HoursPerDay-1)
	}
	if slot < 0 || slot >= constants.SlotsPerHour {
		return "", fmt.Errorf("slot %d out of range 0-%d", slot, constants.SlotsPerHour-1)
	}
	return SlotKey(fmt.Sprintf("%d-%d", hour, slot)), nil
}

// ParseSlotKey decodes and validates a stored slot key.
func ParseSlotKey(s string) (SlotKey, error) {
	hourPart, slotPart, ok := strings.Cut(s, "-")
	if !ok {
		return "", fmt.Errorf("invalid slot key %q", s)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return "", fmt.Errorf("invalid slot key %q: %w", s, err)
	}
	slot, err := strconv.Atoi(slotPart)
	if err != nil {
		return "", fmt.Errorf("invalid slot key %q: %w", s, err)
	}
	key, err := NewSlotKey(hour, slot)
	if err != nil {
		return "", fmt.Errorf("invalid slot key %q: %w", s, err)
	}
	// reject "09-1" style keys that would not re-encode identically
	if string(key) != s {
		return "", fmt.Errorf("invalid slot key %q", s)
	}
	return key, nil
}

// SlotKeyFromIndex converts an absolute index back into a key.
func SlotKeyFromIndex(i SlotIndex) (SlotKey, error) {
	if !i.Valid() {
		return "", fmt.Errorf("slot index %d out of range 0-%d", i, constants.SlotsPerDay-1)
	}
	return NewSlotKey(int(i)/constants.SlotsPerHour, int(i)%constants.SlotsPerHour)
}

// Hour returns the hour part of a valid key.
func (k SlotKey) Hour() int {
	h, _, _ := k.parts()
	return h
}

// Slot returns the slot-within-hour part of a valid key.
func (k SlotKey) Slot() int {
	_, s, _ := k.parts()
	return s
}

// Index returns the absolute slot index.
func (k SlotKey) Index() SlotIndex {
	h, s, _ := k.parts()
	return SlotIndex(h*constants.SlotsPerHour + s)
}

// Label renders the slot start time as HH:MM.
func (k SlotKey) Label() string {
	return k.Index().Label()
}

func (k SlotKey) parts() (int, int, bool) {
	hourPart, slotPart, ok := strings.Cut(string(k), "-")
	if !ok {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(hourPart)
	s, err2 := strconv.Atoi(slotPart)
	return h, s, err1 == nil && err2 == nil
}

// Valid reports whether the index lies within one day.
func (i SlotIndex) Valid() bool {
	return i >= 0 && i < constants.SlotsPerDay
}

// Label renders the slot start time as HH:MM.
func (i SlotIndex) Label() string {
	minutes := int(i) * constants.SlotMinutes
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
