package models

import (
	"slices"
	"strings"

	"github.com/julianstephens/timebox/internal/constants"
)

// SlotEntry is the task written into one slot. An empty slot has no entry;
// an entry never carries blank text.
type SlotEntry struct {
	Text     string     `json:"text"`
	Category CategoryID `json:"category"`
}

// Plan holds every filled slot of one user on one date.
type Plan map[SlotKey]SlotEntry

// UserRecord holds a user's plans keyed by date.
type UserRecord struct {
	Plans map[DateKey]Plan `json:"plans"`
}

// Category is a labeled colour applied to slot entries.
type Category struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Review is the end-of-day reflection and the goal stated for the next day.
type Review struct {
	Reflection   string `json:"reflection"`
	TomorrowGoal string `json:"tomorrowGoal"`
}

// UIPrefs are presentation preferences stored with the document.
type UIPrefs struct {
	Font  constants.Font  `json:"font"`
	Theme constants.Theme `json:"theme"`
}

// Document is the single persisted root object.
type Document struct {
	CurrentUser  UserName                         `json:"currentUser"`
	Users        map[UserName]UserRecord          `json:"users"`
	Categories   map[CategoryID]Category          `json:"categories"`
	DailyTodos   map[UserName]map[DateKey]string  `json:"dailyTodos"`
	DailyRatings map[UserName]map[DateKey]float64 `json:"dailyRatings"`
	DailyReviews map[UserName]map[DateKey]Review  `json:"dailyReviews"`
	UI           UIPrefs                          `json:"ui"`
}

// BuiltinCategories returns the six seeded categories.
func BuiltinCategories() map[CategoryID]Category {
	return map[CategoryID]Category{
		"default":  {Label: "Default", Color: constants.DefaultCategoryColor},
		"study":    {Label: "Study", Color: "#4caf50"},
		"work":     {Label: "Work/Project", Color: "#2196f3"},
		"exercise": {Label: "Exercise", Color: "#ff9800"},
		"rest":     {Label: "Rest", Color: "#9c27b0"},
		"etc":      {Label: "Etc", Color: "#607d8b"},
	}
}

// IsBuiltinCategory reports whether id is one of the undeletable seeds.
func IsBuiltinCategory(id CategoryID) bool {
	return slices.Contains(constants.BuiltinCategoryIDs, string(id))
}

// DefaultUIPrefs returns the preferences of a fresh document.
func DefaultUIPrefs() UIPrefs {
	return UIPrefs{Font: constants.FontDefault, Theme: constants.ThemeLight}
}

// NewDocument returns the seed document used when nothing is persisted.
// Categories stay nil until EnsureCategories runs.
func NewDocument() *Document {
	return &Document{
		CurrentUser: constants.GuestUser,
		Users: map[UserName]UserRecord{
			constants.GuestUser: {Plans: map[DateKey]Plan{}},
		},
		Categories:   nil,
		DailyTodos:   map[UserName]map[DateKey]string{},
		DailyRatings: map[UserName]map[DateKey]float64{},
		DailyReviews: map[UserName]map[DateKey]Review{},
		UI:           DefaultUIPrefs(),
	}
}

// EnsureUser creates an empty plan map for an unseen user.
func (d *Document) EnsureUser(u UserName) {
	if d.Users == nil {
		d.Users = map[UserName]UserRecord{}
	}
	rec := d.Users[u]
	if rec.Plans == nil {
		rec.Plans = map[DateKey]Plan{}
		d.Users[u] = rec
	}
}

// EnsurePlan returns the mutable plan for a user and date, creating it if absent.
func (d *Document) EnsurePlan(u UserName, date DateKey) Plan {
	d.EnsureUser(u)
	rec := d.Users[u]
	plan, ok := rec.Plans[date]
	if !ok || plan == nil {
		plan = Plan{}
		rec.Plans[date] = plan
	}
	return plan
}

// EnsureCategories seeds the built-in categories when the map is absent.
// An existing map is never reset.
func (d *Document) EnsureCategories() {
	if d.Categories == nil {
		d.Categories = BuiltinCategories()
	}
}

// EnsureDailyTodosRoot creates the to-do root map.
func (d *Document) EnsureDailyTodosRoot() {
	if d.DailyTodos == nil {
		d.DailyTodos = map[UserName]map[DateKey]string{}
	}
}

// EnsureDailyRatingsRoot creates the rating root map.
func (d *Document) EnsureDailyRatingsRoot() {
	if d.DailyRatings == nil {
		d.DailyRatings = map[UserName]map[DateKey]float64{}
	}
}

// EnsureDailyReviewsRoot creates the review root map.
func (d *Document) EnsureDailyReviewsRoot() {
	if d.DailyReviews == nil {
		d.DailyReviews = map[UserName]map[DateKey]Review{}
	}
}

// EnsureUI replaces unknown or missing preferences with defaults.
func (d *Document) EnsureUI() {
	defaults := DefaultUIPrefs()
	if !slices.Contains(constants.Fonts, d.UI.Font) {
		d.UI.Font = defaults.Font
	}
	if !slices.Contains(constants.Themes, d.UI.Theme) {
		d.UI.Theme = defaults.Theme
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{CurrentUser: d.CurrentUser, UI: d.UI}
	if d.Users != nil {
		c.Users = make(map[UserName]UserRecord, len(d.Users))
		for u, rec := range d.Users {
			var plans map[DateKey]Plan
			if rec.Plans != nil {
				plans = make(map[DateKey]Plan, len(rec.Plans))
				for date, plan := range rec.Plans {
					plans[date] = clonePlan(plan)
				}
			}
			c.Users[u] = UserRecord{Plans: plans}
		}
	}
	if d.Categories != nil {
		c.Categories = make(map[CategoryID]Category, len(d.Categories))
		for id, cat := range d.Categories {
			c.Categories[id] = cat
		}
	}
	c.DailyTodos = cloneNested(d.DailyTodos)
	c.DailyRatings = cloneNested(d.DailyRatings)
	c.DailyReviews = cloneNested(d.DailyReviews)
	return c
}

func clonePlan(p Plan) Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func cloneNested[V any](m map[UserName]map[DateKey]V) map[UserName]map[DateKey]V {
	if m == nil {
		return nil
	}
	out := make(map[UserName]map[DateKey]V, len(m))
	for u, inner := range m {
		if inner == nil {
			out[u] = nil
			continue
		}
		cp := make(map[DateKey]V, len(inner))
		for k, v := range inner {
			cp[k] = v
		}
		out[u] = cp
	}
	return out
}

// Normalize returns a fully seeded copy of doc. It is the only migration
// step: documents saved by older versions (no ratings, reviews or UI
// preferences) come out in the current shape, and stored placeholders that
// break the delete-on-empty rule are dropped. The input is not modified.
func Normalize(doc *Document) *Document {
	if doc == nil {
		doc = NewDocument()
	}
	d := doc.Clone()

	if strings.TrimSpace(string(d.CurrentUser)) == "" {
		d.CurrentUser = constants.GuestUser
	}
	d.EnsureUser(d.CurrentUser)
	for u := range d.Users {
		d.EnsureUser(u)
	}
	d.EnsureCategories()
	d.EnsureDailyTodosRoot()
	d.EnsureDailyRatingsRoot()
	d.EnsureDailyReviewsRoot()
	d.EnsureUI()

	for _, rec := range d.Users {
		for date, plan := range rec.Plans {
			if plan == nil {
				rec.Plans[date] = Plan{}
				continue
			}
			for key, entry := range plan {
				if strings.TrimSpace(entry.Text) == "" {
					delete(plan, key)
					continue
				}
				if entry.Category == "" {
					entry.Category = constants.DefaultCategoryID
					plan[key] = entry
				}
			}
		}
	}
	for u, todos := range d.DailyTodos {
		if todos == nil {
			d.DailyTodos[u] = map[DateKey]string{}
			continue
		}
		for date, text := range todos {
			if strings.TrimSpace(text) == "" {
				delete(todos, date)
			}
		}
	}
	for u, ratings := range d.DailyRatings {
		if ratings == nil {
			d.DailyRatings[u] = map[DateKey]float64{}
			continue
		}
		for date, score := range ratings {
			if score < constants.MinRatingScore || score > constants.MaxRatingScore {
				delete(ratings, date)
			}
		}
	}
	for u, reviews := range d.DailyReviews {
		if reviews == nil {
			d.DailyReviews[u] = map[DateKey]Review{}
			continue
		}
		for date, r := range reviews {
			if strings.TrimSpace(r.Reflection) == "" && strings.TrimSpace(r.TomorrowGoal) == "" {
				delete(reviews, date)
			}
		}
	}
	return d
}
