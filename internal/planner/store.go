package planner

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/timebox/internal/constants"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/storage"
	"github.com/julianstephens/timebox/internal/utils"
)

// Change describes a successful mutation. Listeners treat every change as
// a request to re-render whatever they display.
type Change struct {
	Kind constants.ChangeKind
	User models.UserName
	Date models.DateKey
}

// Listener receives change signals after the document has been saved.
type Listener func(Change)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTimezone sets the IANA zone used to decide which date is today.
func WithTimezone(tz string) Option {
	return func(s *Store) {
		s.timezone = tz
	}
}

type carryKey struct {
	user models.UserName
	date models.DateKey
}

// Store owns the planner document and is the only thing that mutates it.
// Every mutating call works on a copy, persists it and only then swaps it
// in, so a failed write leaves the in-memory document untouched.
type Store struct {
	provider  storage.Provider
	doc       *models.Document
	now       func() time.Time
	timezone  string
	listeners map[int]Listener
	nextID    int
	carried   map[carryKey]bool
}

var (
	colorPattern   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	slugStrip      = regexp.MustCompile(`[^a-z0-9_]`)
)

// Open loads the persisted document. A missing or unparseable slot yields a
// freshly seeded document; only backend I/O failures are returned.
func Open(p storage.Provider, opts ...Option) (*Store, error) {
	s := &Store{
		provider:  p,
		now:       time.Now,
		timezone:  "Local",
		listeners: map[int]Listener{},
		carried:   map[carryKey]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := p.Load(); err != nil {
		return nil, fmt.Errorf("failed to load storage: %w", err)
	}

	var doc *models.Document
	data, err := p.ReadSlot()
	switch {
	case errors.Is(err, storage.ErrSlotEmpty):
		logger.Debug("No stored planner data, starting fresh", "path", p.GetConfigPath())
	case err != nil:
		return nil, err
	default:
		doc, err = storage.DecodeDocument(data)
		if err != nil {
			logger.Warn("Stored planner data is unreadable, starting fresh", "path", p.GetConfigPath(), "error", err)
			doc = nil
		}
	}

	s.doc = models.Normalize(doc)
	return s, nil
}

// Close releases the storage backend.
func (s *Store) Close() error {
	return s.provider.Close()
}

// Provider returns the backend the store persists to.
func (s *Store) Provider() storage.Provider {
	return s.provider
}

// Document returns the live document. Callers must not modify it.
func (s *Store) Document() *models.Document {
	return s.doc
}

// Snapshot returns a deep copy of the document.
func (s *Store) Snapshot() *models.Document {
	return s.doc.Clone()
}

// Save serializes the whole document and overwrites the persisted slot.
func (s *Store) Save() error {
	return s.persist(s.doc)
}

func (s *Store) persist(doc *models.Document) error {
	data, err := storage.EncodeDocument(doc)
	if err != nil {
		return err
	}
	if err := s.provider.WriteSlot(data); err != nil {
		logger.Error("Failed to persist planner data", "error", err)
		return fmt.Errorf("failed to save planner data: %w", err)
	}
	return nil
}

func (s *Store) mutate(change Change, fn func(doc *models.Document) error) error {
	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.doc = next
	s.notify(change)
	return nil
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		delete(s.listeners, id)
	}
}

func (s *Store) notify(c Change) {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		s.listeners[id](c)
	}
}

// Now returns the wall clock in the store's timezone.
func (s *Store) Now() (time.Time, error) {
	loc, err := utils.LoadLocation(s.timezone)
	if err != nil {
		return time.Time{}, err
	}
	return s.now().In(loc), nil
}

// Today returns the current date in the store's timezone.
func (s *Store) Today() (models.DateKey, error) {
	loc, err := utils.LoadLocation(s.timezone)
	if err != nil {
		return "", err
	}
	return utils.Today(s.now(), loc), nil
}

func checkDate(d models.DateKey) error {
	if d == "" {
		return apperrors.NewValidation("date", "no date selected")
	}
	if _, err := models.ParseDateKey(string(d)); err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}
	return nil
}

// Users

// CurrentUser returns the active user.
func (s *Store) CurrentUser() models.UserName {
	return s.doc.CurrentUser
}

// Users lists every known user, sorted.
func (s *Store) Users() []models.UserName {
	users := make([]models.UserName, 0, len(s.doc.Users))
	for u := range s.doc.Users {
		users = append(users, u)
	}
	slices.Sort(users)
	return users
}

// EnsureUser creates an empty plan map for an unseen user. It is a no-op,
// and writes nothing, when the user already exists.
func (s *Store) EnsureUser(u models.UserName) error {
	if _, ok := s.doc.Users[u]; ok {
		return nil
	}
	return s.mutate(Change{Kind: constants.ChangeUser, User: u}, func(doc *models.Document) error {
		doc.EnsureUser(u)
		return nil
	})
}

// SetCurrentUser switches the active user. Blank names select the guest user.
func (s *Store) SetCurrentUser(name string) (models.UserName, error) {
	u := models.UserName(strings.TrimSpace(name))
	if u == "" {
		u = constants.GuestUser
	}
	err := s.mutate(Change{Kind: constants.ChangeUser, User: u}, func(doc *models.Document) error {
		doc.EnsureUser(u)
		doc.CurrentUser = u
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.Info("Switched user", "user", u)
	return u, nil
}

// Plans

// EnsurePlan returns the live plan for a user and date, creating and
// persisting an empty one if absent. Writes to the returned map are only
// persisted by a later Save.
func (s *Store) EnsurePlan(u models.UserName, d models.DateKey) (models.Plan, error) {
	if err := checkDate(d); err != nil {
		return nil, err
	}
	if rec, ok := s.doc.Users[u]; ok {
		if plan, ok := rec.Plans[d]; ok && plan != nil {
			return plan, nil
		}
	}
	err := s.mutate(Change{Kind: constants.ChangePlan, User: u, Date: d}, func(doc *models.Document) error {
		doc.EnsurePlan(u, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.doc.Users[u].Plans[d], nil
}

// GetPlan returns a copy of the plan, or an empty plan. It never creates one.
func (s *Store) GetPlan(u models.UserName, d models.DateKey) models.Plan {
	out := models.Plan{}
	rec, ok := s.doc.Users[u]
	if !ok {
		return out
	}
	for k, v := range rec.Plans[d] {
		out[k] = v
	}
	return out
}

// ClearPlan wipes every slot of one user's date.
func (s *Store) ClearPlan(u models.UserName, d models.DateKey) error {
	if err := checkDate(d); err != nil {
		return err
	}
	return s.mutate(Change{Kind: constants.ChangePlan, User: u, Date: d}, func(doc *models.Document) error {
		doc.EnsureUser(u)
		doc.Users[u].Plans[d] = models.Plan{}
		return nil
	})
}

// ResetDay clears both the plan and the to-do for a date.
func (s *Store) ResetDay(u models.UserName, d models.DateKey) error {
	if err := checkDate(d); err != nil {
		return err
	}
	return s.mutate(Change{Kind: constants.ChangePlan, User: u, Date: d}, func(doc *models.Document) error {
		doc.EnsureUser(u)
		doc.Users[u].Plans[d] = models.Plan{}
		delete(doc.DailyTodos[u], d)
		return nil
	})
}

// SetSlot writes one slot. Blank text deletes the entry. A nil or empty
// category keeps the slot's existing category, or falls back to default.
func (s *Store) SetSlot(u models.UserName, d models.DateKey, key models.SlotKey, text string, category *models.CategoryID) error {
	if err := checkDate(d); err != nil {
		return err
	}
	if _, err := models.ParseSlotKey(string(key)); err != nil {
		return apperrors.NewValidation("slot", "%v", err)
	}

	return s.mutate(Change{Kind: constants.ChangePlan, User: u, Date: d}, func(doc *models.Document) error {
		plan := doc.EnsurePlan(u, d)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			delete(plan, key)
			return nil
		}

		cat := models.CategoryID(constants.DefaultCategoryID)
		if existing, ok := plan[key]; ok && existing.Category != "" {
			cat = existing.Category
		}
		if category != nil && *category != "" {
			cat = *category
		}
		plan[key] = models.SlotEntry{Text: trimmed, Category: cat}
		return nil
	})
}

// ApplyRange writes the same entry into every slot between from and to,
// inclusive, in either order.
func (s *Store) ApplyRange(u models.UserName, d models.DateKey, from, to models.SlotIndex, text string, category models.CategoryID) error {
	if err := checkDate(d); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return apperrors.NewValidation("text", "task text is required")
	}
	if !from.Valid() || !to.Valid() {
		return apperrors.NewValidation("range", "slot index out of range 0-%d", constants.SlotsPerDay-1)
	}
	if to < from {
		from, to = to, from
	}
	if category == "" {
		category = constants.DefaultCategoryID
	}

	return s.mutate(Change{Kind: constants.ChangePlan, User: u, Date: d}, func(doc *models.Document) error {
		plan := doc.EnsurePlan(u, d)
		for i := from; i <= to; i++ {
			key, err := models.SlotKeyFromIndex(i)
			if err != nil {
				return err
			}
			plan[key] = models.SlotEntry{Text: trimmed, Category: category}
		}
		return nil
	})
}

// DatesWithPlans returns the sorted dates on which the user filled any slot.
func (s *Store) DatesWithPlans(u models.UserName) []models.DateKey {
	var dates []models.DateKey
	for d, plan := range s.doc.Users[u].Plans {
		if len(plan) > 0 {
			dates = append(dates, d)
		}
	}
	slices.Sort(dates)
	return dates
}

// To-dos

func (s *Store) GetDailyTodo(u models.UserName, d models.DateKey) string {
	return s.doc.DailyTodos[u][d]
}

// SetDailyTodo stores the text as typed; blank text removes the entry.
func (s *Store) SetDailyTodo(u models.UserName, d models.DateKey, text string) error {
	if err := checkDate(d); err != nil {
		return err
	}
	return s.mutate(Change{Kind: constants.ChangeTodo, User: u, Date: d}, func(doc *models.Document) error {
		if strings.TrimSpace(text) == "" {
			delete(doc.DailyTodos[u], d)
			return nil
		}
		if doc.DailyTodos[u] == nil {
			doc.DailyTodos[u] = map[models.DateKey]string{}
		}
		doc.DailyTodos[u][d] = text
		return nil
	})
}

// Ratings

// GetDailyRating returns the score and whether the day was rated at all.
func (s *Store) GetDailyRating(u models.UserName, d models.DateKey) (float64, bool) {
	score, ok := s.doc.DailyRatings[u][d]
	return score, ok
}

// SetDailyRating stores a score in [0,10]. A nil or NaN score removes it.
func (s *Store) SetDailyRating(u models.UserName, d models.DateKey, score *float64) error {
	if err := checkDate(d); err != nil {
		return err
	}
	remove := score == nil || math.IsNaN(*score)
	if !remove && (*score < constants.MinRatingScore || *score > constants.MaxRatingScore) {
		return apperrors.NewValidation("rating", "score %g out of range %g-%g", *score, constants.MinRatingScore, constants.MaxRatingScore)
	}

	return s.mutate(Change{Kind: constants.ChangeRating, User: u, Date: d}, func(doc *models.Document) error {
		if remove {
			delete(doc.DailyRatings[u], d)
			return nil
		}
		if doc.DailyRatings[u] == nil {
			doc.DailyRatings[u] = map[models.DateKey]float64{}
		}
		doc.DailyRatings[u][d] = *score
		return nil
	})
}

// Reviews

func (s *Store) GetDailyReview(u models.UserName, d models.DateKey) models.Review {
	return s.doc.DailyReviews[u][d]
}

// SetDailyReview trims both fields and removes the record only when both
// are blank.
func (s *Store) SetDailyReview(u models.UserName, d models.DateKey, reflection, tomorrowGoal string) error {
	if err := checkDate(d); err != nil {
		return err
	}
	r := models.Review{
		Reflection:   strings.TrimSpace(reflection),
		TomorrowGoal: strings.TrimSpace(tomorrowGoal),
	}
	return s.mutate(Change{Kind: constants.ChangeReview, User: u, Date: d}, func(doc *models.Document) error {
		if r.Reflection == "" && r.TomorrowGoal == "" {
			delete(doc.DailyReviews[u], d)
			return nil
		}
		if doc.DailyReviews[u] == nil {
			doc.DailyReviews[u] = map[models.DateKey]models.Review{}
		}
		doc.DailyReviews[u][d] = r
		return nil
	})
}

// Categories

// Slugify derives a category id from a label. It may return "".
func Slugify(label string) string {
	slug := strings.ToLower(strings.TrimSpace(label))
	slug = whitespaceRuns.ReplaceAllString(slug, "_")
	return slugStrip.ReplaceAllString(slug, "")
}

// AddCategory creates a category and returns its id. A blank color uses
// the default blue.
func (s *Store) AddCategory(label, color string) (models.CategoryID, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", apperrors.NewValidation("label", "category name is required")
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = constants.DefaultCategoryColor
	}
	if !colorPattern.MatchString(color) {
		return "", apperrors.NewValidation("color", "%q is not a #rrggbb color", color)
	}
	color = strings.ToLower(color)

	base := Slugify(label)
	if base == "" {
		base = fmt.Sprintf("%s%d", constants.FallbackCategoryPrefix, s.now().UnixMilli())
	}
	id := models.CategoryID(base)
	for n := 1; ; n++ {
		if _, taken := s.doc.Categories[id]; !taken {
			break
		}
		id = models.CategoryID(fmt.Sprintf("%s_%d", base, n))
	}

	err := s.mutate(Change{Kind: constants.ChangeCategory}, func(doc *models.Document) error {
		doc.Categories[id] = models.Category{Label: label, Color: color}
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.Info("Added category", "id", id, "label", label)
	return id, nil
}

// DeleteCategory removes a user category. Slots that used it keep the id.
func (s *Store) DeleteCategory(id models.CategoryID) error {
	if models.IsBuiltinCategory(id) {
		return apperrors.NewValidation("category", "%q is built in and cannot be deleted", id)
	}
	if _, ok := s.doc.Categories[id]; !ok {
		return apperrors.NewValidation("category", "no category %q", id)
	}
	err := s.mutate(Change{Kind: constants.ChangeCategory}, func(doc *models.Document) error {
		delete(doc.Categories, id)
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Deleted category", "id", id)
	return nil
}

// Categories returns the built-in ids in seed order followed by user ids, sorted.
func (s *Store) Categories() []models.CategoryID {
	var ids []models.CategoryID
	for _, b := range constants.BuiltinCategoryIDs {
		if _, ok := s.doc.Categories[models.CategoryID(b)]; ok {
			ids = append(ids, models.CategoryID(b))
		}
	}
	var custom []models.CategoryID
	for id := range s.doc.Categories {
		if !models.IsBuiltinCategory(id) {
			custom = append(custom, id)
		}
	}
	slices.Sort(custom)
	return append(ids, custom...)
}

// UI preferences

func (s *Store) UI() models.UIPrefs {
	return s.doc.UI
}

func (s *Store) SetFont(f constants.Font) error {
	if !slices.Contains(constants.Fonts, f) {
		return apperrors.NewValidation("font", "unknown font %q", f)
	}
	return s.mutate(Change{Kind: constants.ChangeUI}, func(doc *models.Document) error {
		doc.UI.Font = f
		return nil
	})
}

func (s *Store) SetTheme(t constants.Theme) error {
	if !slices.Contains(constants.Themes, t) {
		return apperrors.NewValidation("theme", "unknown theme %q", t)
	}
	return s.mutate(Change{Kind: constants.ChangeUI}, func(doc *models.Document) error {
		doc.UI.Theme = t
		return nil
	})
}
