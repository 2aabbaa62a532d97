package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timebox/internal/constants"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/models"
)

func (m Model) categoryOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(m.categories))
	for _, id := range m.categories {
		opts = append(opts, huh.NewOption(m.categoryLabel(id), string(id)))
	}
	return opts
}

// NewSlotForm edits a single slot. Blank text clears it.
func (m Model) NewSlotForm(fm *SlotFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("leave blank to clear").
				Value(&fm.Text),
			huh.NewSelect[string]().
				Title("Category").
				Options(m.categoryOptions()...).
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewRangeForm fills a marked range. Text is required.
func (m Model) NewRangeForm(fm *SlotFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("task text is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(m.categoryOptions()...).
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewTodoForm(fm *TodoFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("To-do").
				Description("One item per line").
				Lines(8).
				Value(&fm.Text),
		),
	).WithTheme(huh.ThemeDracula())
}

// ParseScore reads a rating form value. Blank means remove the rating.
func ParseScore(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil, apperrors.NewValidation("rating", "score must be a number")
	}
	if v < constants.MinRatingScore || v > constants.MaxRatingScore {
		return nil, fmt.Errorf("score must be between %g and %g", constants.MinRatingScore, constants.MaxRatingScore)
	}
	return &v, nil
}

func NewRatingForm(fm *RatingFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Score (%g-%g)", constants.MinRatingScore, constants.MaxRatingScore)).
				Placeholder("leave blank to remove").
				Value(&fm.Score).
				Validate(func(s string) error {
					_, err := ParseScore(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewReviewForm(fm *ReviewFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("How did today go?").
				Lines(5).
				Value(&fm.Reflection),
			huh.NewText().
				Title("Goal for tomorrow").
				Lines(3).
				Value(&fm.Goal),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewUserForm(fm *UserFormModel, users []models.UserName) *huh.Form {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = string(u)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User").
				Description("Known: "+strings.Join(names, ", ")).
				Suggestions(names).
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("user name is required")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewCategoryForm(fm *CategoryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Label).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("category name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Color").
				Placeholder(constants.DefaultCategoryColor).
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}
