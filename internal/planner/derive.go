package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/timebox/internal/constants"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/utils"
)

// TodoForDisplay returns the to-do to show for a date. When it is empty,
// yesterday's stated goal is copied in and persisted, at most once per
// user and date for the lifetime of the store.
func (s *Store) TodoForDisplay(u models.UserName, today models.DateKey) (string, error) {
	if todo := s.GetDailyTodo(u, today); strings.TrimSpace(todo) != "" {
		return todo, nil
	}

	key := carryKey{user: u, date: today}
	if s.carried[key] {
		return "", nil
	}

	yesterday, err := utils.PrevDay(today)
	if err != nil {
		return "", apperrors.NewValidation("date", "%v", err)
	}
	goal := s.GetDailyReview(u, yesterday).TomorrowGoal
	if strings.TrimSpace(goal) == "" {
		return "", nil
	}

	if err := s.SetDailyTodo(u, today, goal); err != nil {
		return "", err
	}
	s.carried[key] = true
	logger.Debug("Carried goal into to-do", "user", u, "from", yesterday, "to", today)
	return goal, nil
}

// StarRating is the star display of a daily score.
type StarRating struct {
	Filled int
	Rated  bool
}

// Stars maps a 0-10 score to 0-5 filled stars.
func Stars(score float64, rated bool) StarRating {
	if !rated || math.IsNaN(score) {
		return StarRating{}
	}
	filled := int(math.Round(score / 2))
	filled = max(0, min(constants.MaxStars, filled))
	return StarRating{Filled: filled, Rated: true}
}

func (r StarRating) String() string {
	stars := strings.Repeat("★", r.Filled) + strings.Repeat("☆", constants.MaxStars-r.Filled)
	if !r.Rated {
		return stars + " (unrated)"
	}
	return stars
}

// DailyStars returns the star display for a user's date.
func (s *Store) DailyStars(u models.UserName, d models.DateKey) StarRating {
	return Stars(s.GetDailyRating(u, d))
}

// ResolveCategory returns the category used to draw id. Unknown or deleted
// ids resolve to the default category; storage is not touched.
func (s *Store) ResolveCategory(id models.CategoryID) (models.CategoryID, models.Category) {
	if cat, ok := s.doc.Categories[id]; ok {
		return id, cat
	}
	def := models.CategoryID(constants.DefaultCategoryID)
	if cat, ok := s.doc.Categories[def]; ok {
		return def, cat
	}
	return def, models.BuiltinCategories()[def]
}

// FormatScore renders a stored score the way it was entered.
func FormatScore(score float64) string {
	return fmt.Sprintf("%g/%g", score, constants.MaxRatingScore)
}

// Block is a run of adjacent slots holding the same entry.
type Block struct {
	From  models.SlotIndex
	To    models.SlotIndex
	Entry models.SlotEntry
}

// Span renders the block as "HH:MM-HH:MM", end exclusive.
func (b Block) Span() string {
	return b.From.Label() + "-" + (b.To + 1).Label()
}

// Blocks merges a plan into runs of identical adjacent entries, in time order.
// Keys that do not parse are skipped.
func Blocks(plan models.Plan) []Block {
	var filled [constants.SlotsPerDay]*models.SlotEntry
	for key, entry := range plan {
		k, err := models.ParseSlotKey(string(key))
		if err != nil {
			continue
		}
		e := entry
		filled[k.Index()] = &e
	}

	var blocks []Block
	for i := models.SlotIndex(0); i < constants.SlotsPerDay; i++ {
		e := filled[i]
		if e == nil {
			continue
		}
		if n := len(blocks); n > 0 && blocks[n-1].To == i-1 && blocks[n-1].Entry == *e {
			blocks[n-1].To = i
			continue
		}
		blocks = append(blocks, Block{From: i, To: i, Entry: *e})
	}
	return blocks
}
