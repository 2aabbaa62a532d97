package plans

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/timebox/internal/cli"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/planner"
)

type TodoCmd struct {
	Text  []string `arg:"" optional:"" help:"To-do text. Omit to show the current to-do."`
	Clear bool     `help:"Remove the to-do."`
	Date  string   `help:"Date (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	User  string   `help:"User to act as (defaults to the current user)."`
}

func (c *TodoCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}
	user := ctx.User(c.User)

	if c.Clear {
		if err := ctx.Planner.SetDailyTodo(user, date, ""); err != nil {
			return err
		}
		fmt.Printf("Cleared to-do for %s\n", date)
		return nil
	}

	if len(c.Text) == 0 {
		todo, err := ctx.Planner.TodoForDisplay(user, date)
		if err != nil {
			return err
		}
		fmt.Println(orDash(todo))
		return nil
	}

	if err := ctx.Planner.SetDailyTodo(user, date, strings.Join(c.Text, " ")); err != nil {
		return err
	}
	fmt.Printf("Saved to-do for %s\n", date)
	return nil
}

type RateCmd struct {
	Score string `arg:"" optional:"" help:"Score from 0 to 10. Omit to show the rating."`
	Clear bool   `help:"Remove the rating."`
	Date  string `help:"Date (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	User  string `help:"User to act as (defaults to the current user)."`
}

func (c *RateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}
	user := ctx.User(c.User)

	if c.Clear {
		if err := ctx.Planner.SetDailyRating(user, date, nil); err != nil {
			return err
		}
		fmt.Printf("Cleared rating for %s\n", date)
		return nil
	}

	if c.Score == "" {
		fmt.Println(ctx.Planner.DailyStars(user, date))
		return nil
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(c.Score), 64)
	if err != nil || math.IsNaN(score) {
		return apperrors.NewValidation("rating", "%q is not a number", c.Score)
	}
	if err := ctx.Planner.SetDailyRating(user, date, &score); err != nil {
		return err
	}
	fmt.Printf("Rated %s %s\n", date, planner.Stars(score, true))
	return nil
}

type ReviewCmd struct {
	Reflection *string `help:"How the day went."`
	Goal       *string `help:"Goal for tomorrow; carried into tomorrow's to-do."`
	Date       string  `help:"Date (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	User       string  `help:"User to act as (defaults to the current user)."`
}

func (c *ReviewCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}
	user := ctx.User(c.User)
	review := ctx.Planner.GetDailyReview(user, date)

	if c.Reflection == nil && c.Goal == nil {
		fmt.Printf("Reflection: %s\n", orDash(review.Reflection))
		fmt.Printf("Tomorrow:   %s\n", orDash(review.TomorrowGoal))
		return nil
	}

	// unset flags keep their stored value
	if c.Reflection != nil {
		review.Reflection = *c.Reflection
	}
	if c.Goal != nil {
		review.TomorrowGoal = *c.Goal
	}
	if err := ctx.Planner.SetDailyReview(user, date, review.Reflection, review.TomorrowGoal); err != nil {
		return err
	}
	fmt.Printf("Saved review for %s\n", date)
	return nil
}
