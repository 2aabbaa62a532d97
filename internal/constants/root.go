package constants

const (
	AppName           = "timebox"
	DefaultConfigPath = "~/.config/timebox/timebox.json"
	Version           = "v0.3.0"

	// StorageKey names the single persisted slot holding the whole document.
	StorageKey = "tmsData_v1"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Grid geometry
	HoursPerDay    = 24
	SlotsPerHour   = 6
	SlotMinutes    = 10
	SlotsPerDay    = HoursPerDay * SlotsPerHour
	MinRatingScore = 0.0
	MaxRatingScore = 10.0
	MaxStars       = 5

	// Defaults
	GuestUser              = "guest"
	DefaultCategoryID      = "default"
	DefaultCategoryColor   = "#4a90e2"
	FallbackCategoryPrefix = "cat_"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "timebox-"
)

// Font is a UI font preference.
type Font string

// Theme is a UI colour theme preference.
type Theme string

const (
	FontDefault Font = "default"
	FontSerif   Font = "serif"
	FontMono    Font = "mono"

	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Fonts lists every accepted font preference.
var Fonts = []Font{FontDefault, FontSerif, FontMono}

// Themes lists every accepted theme preference.
var Themes = []Theme{ThemeLight, ThemeDark}

// BuiltinCategoryIDs are seeded on first use and can never be deleted.
// The order is the display order.
var BuiltinCategoryIDs = []string{"default", "study", "work", "exercise", "rest", "etc"}

// MotivationQuotes are shown in the TUI header.
var MotivationQuotes = []string{
	"If you don't manage your time, your time will manage you.",
	"Save ten minutes today and you win an hour tomorrow.",
	"Only someone who designs the day can change the week.",
	"Fill even one small block and today has already moved forward.",
}
