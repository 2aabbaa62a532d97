package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDanglingCategory ConflictType = "dangling_category"
	ConflictInvalidSlotKey   ConflictType = "invalid_slot_key"
	ConflictInvalidDateKey   ConflictType = "invalid_date_key"
	ConflictRatingOutOfRange ConflictType = "rating_out_of_range"
	ConflictUnknownUser      ConflictType = "unknown_current_user"
	ConflictInvalidColor     ConflictType = "invalid_color"
)

// Conflict is one problem found in a stored document. Informational
// conflicts are reported but never fail a check.
type Conflict struct {
	Type          ConflictType
	Description   string
	User          models.UserName
	Date          string
	Key           string
	Informational bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction describes one change made by AutoFix.
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors reports whether any non-informational conflict was found.
func (vr *ValidationResult) HasErrors() bool {
	for _, c := range vr.Conflicts {
		if !c.Informational {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		marker := "-"
		if conflict.Informational {
			marker = "~"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, conflict.Description)
	}
	return b.String()
}

// Validator checks a planner document for entries the planner would never write.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateDocument inspects doc without modifying it. Output order is stable.
func (v *Validator) ValidateDocument(doc *models.Document) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	if doc == nil {
		return result
	}

	if _, ok := doc.Users[doc.CurrentUser]; !ok {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictUnknownUser,
			Description: fmt.Sprintf("Current user %q has no record", doc.CurrentUser),
			User:        doc.CurrentUser,
		})
	}

	for _, id := range sortedKeys(doc.Categories) {
		cat := doc.Categories[id]
		if !isColor(cat.Color) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidColor,
				Description: fmt.Sprintf("Category %q has invalid color %q", id, cat.Color),
				Key:         string(id),
			})
		}
	}

	for _, u := range sortedKeys(doc.Users) {
		plans := doc.Users[u].Plans
		for _, d := range sortedKeys(plans) {
			if !validDate(d) {
				result.Conflicts = append(result.Conflicts, invalidDate(u, d, "plan"))
				continue
			}
			plan := plans[d]
			for _, k := range sortedKeys(plan) {
				if _, err := models.ParseSlotKey(string(k)); err != nil {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:        ConflictInvalidSlotKey,
						Description: fmt.Sprintf("%s %s has invalid slot key %q", u, d, k),
						User:        u,
						Date:        string(d),
						Key:         string(k),
					})
					continue
				}
				entry := plan[k]
				if _, ok := doc.Categories[entry.Category]; !ok {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:          ConflictDanglingCategory,
						Description:   fmt.Sprintf("%s %s %s uses missing category %q (shown as default)", u, d, k.Label(), entry.Category),
						User:          u,
						Date:          string(d),
						Key:           string(k),
						Informational: true,
					})
				}
			}
		}
	}

	for _, u := range sortedKeys(doc.DailyTodos) {
		for _, d := range sortedKeys(doc.DailyTodos[u]) {
			if !validDate(d) {
				result.Conflicts = append(result.Conflicts, invalidDate(u, d, "to-do"))
			}
		}
	}

	for _, u := range sortedKeys(doc.DailyRatings) {
		ratings := doc.DailyRatings[u]
		for _, d := range sortedKeys(ratings) {
			if !validDate(d) {
				result.Conflicts = append(result.Conflicts, invalidDate(u, d, "rating"))
				continue
			}
			score := ratings[d]
			if score < constants.MinRatingScore || score > constants.MaxRatingScore {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictRatingOutOfRange,
					Description: fmt.Sprintf("%s %s has rating %g outside %g-%g", u, d, score, constants.MinRatingScore, constants.MaxRatingScore),
					User:        u,
					Date:        string(d),
				})
			}
		}
	}

	for _, u := range sortedKeys(doc.DailyReviews) {
		for _, d := range sortedKeys(doc.DailyReviews[u]) {
			if !validDate(d) {
				result.Conflicts = append(result.Conflicts, invalidDate(u, d, "review"))
			}
		}
	}

	return result
}

// AutoFix removes the entries behind every non-informational conflict.
// Dangling categories are left alone; they resolve to default when drawn.
func AutoFix(doc *models.Document, conflicts []Conflict) []FixAction {
	var actions []FixAction
	for _, c := range conflicts {
		var action string
		d := models.DateKey(c.Date)

		switch c.Type {
		case ConflictUnknownUser:
			doc.EnsureUser(c.User)
			action = fmt.Sprintf("Created missing user %q", c.User)
		case ConflictInvalidSlotKey:
			delete(doc.Users[c.User].Plans[d], models.SlotKey(c.Key))
			action = fmt.Sprintf("Removed slot %q from %s %s", c.Key, c.User, c.Date)
		case ConflictInvalidDateKey:
			delete(doc.Users[c.User].Plans, d)
			delete(doc.DailyTodos[c.User], d)
			delete(doc.DailyRatings[c.User], d)
			delete(doc.DailyReviews[c.User], d)
			action = fmt.Sprintf("Removed entries under invalid date %q for %s", c.Date, c.User)
		case ConflictRatingOutOfRange:
			delete(doc.DailyRatings[c.User], d)
			action = fmt.Sprintf("Removed out-of-range rating for %s %s", c.User, c.Date)
		case ConflictInvalidColor:
			id := models.CategoryID(c.Key)
			cat := doc.Categories[id]
			cat.Color = constants.DefaultCategoryColor
			doc.Categories[id] = cat
			action = fmt.Sprintf("Reset color of category %q", c.Key)
		default:
			continue
		}
		actions = append(actions, FixAction{Action: action, SourceConflict: c})
	}
	return actions
}

func invalidDate(u models.UserName, d models.DateKey, where string) Conflict {
	return Conflict{
		Type:        ConflictInvalidDateKey,
		Description: fmt.Sprintf("%s has a %s under invalid date %q", u, where, d),
		User:        u,
		Date:        string(d),
	}
}

func validDate(d models.DateKey) bool {
	_, err := models.ParseDateKey(string(d))
	return err == nil
}

func isColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
