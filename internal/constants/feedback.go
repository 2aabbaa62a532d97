package constants

// ChangeKind identifies what a mutating store operation touched.
type ChangeKind string

// SessionState represents the current state of the TUI application
type SessionState int

const (
	ChangeUser     ChangeKind = "user"
	ChangePlan     ChangeKind = "plan"
	ChangeTodo     ChangeKind = "todo"
	ChangeRating   ChangeKind = "rating"
	ChangeReview   ChangeKind = "review"
	ChangeCategory ChangeKind = "category"
	ChangeUI       ChangeKind = "ui"
)

// Session States
const (
	StateGrid SessionState = iota
	StateCalendar
	StateCategories
	StateEditSlot
	StateEditRange
	StateEditTodo
	StateEditRating
	StateEditReview
	StateEditUser
	StateAddCategory
	StateConfirmReset
	StateConfirmDeleteCategory
)
