package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// FormatDate renders t as a date key in t's own location.
func FormatDate(t time.Time) models.DateKey {
	return models.DateKey(t.Format(constants.DateFormat))
}

// ParseDate parses a canonical YYYY-MM-DD string to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	key, err := models.ParseDateKey(s)
	if err != nil {
		return time.Time{}, err
	}
	return key.Time()
}

// Today returns the date key of now as seen from loc.
func Today(now time.Time, loc *time.Location) models.DateKey {
	return FormatDate(now.In(loc))
}

// ResolveDate turns "today", "yesterday", "tomorrow" or a YYYY-MM-DD string into a key.
func ResolveDate(s string, today models.DateKey) (models.DateKey, error) {
	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return PrevDay(today)
	case "tomorrow":
		return NextDay(today)
	}
	return models.ParseDateKey(s)
}

// AddDays moves a date key by n calendar days. Month and year boundaries
// roll over through time.AddDate.
func AddDays(d models.DateKey, n int) (models.DateKey, error) {
	t, err := ParseDate(string(d))
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// PrevDay returns the calendar day before d.
func PrevDay(d models.DateKey) (models.DateKey, error) {
	return AddDays(d, -1)
}

// NextDay returns the calendar day after d.
func NextDay(d models.DateKey) (models.DateKey, error) {
	return AddDays(d, 1)
}

// ParseClock converts an "HH:MM" start time into an absolute slot index.
// Minutes must fall on a 10-minute boundary.
func ParseClock(s string) (models.SlotIndex, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	if t.Minute()%constants.SlotMinutes != 0 {
		return 0, fmt.Errorf("invalid time %q, minutes must be a multiple of %d", s, constants.SlotMinutes)
	}
	return models.SlotIndex(t.Hour()*constants.SlotsPerHour + t.Minute()/constants.SlotMinutes), nil
}

// MonthGrid lays out a month as six Sunday-first weeks. Cells outside the
// month are zero.
func MonthGrid(year int, month time.Month) [6][7]int {
	var grid [6][7]int
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())
	for day := 1; day <= daysInMonth; day++ {
		cell := offset + day - 1
		grid[cell/7][cell%7] = day
	}
	return grid
}

// MonthOf returns the first day of the month containing d, shifted by delta months.
func MonthOf(d models.DateKey, delta int) (int, time.Month, error) {
	t, err := ParseDate(string(d))
	if err != nil {
		return 0, 0, err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return first.Year(), first.Month(), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
