package plans

import (
	"fmt"
	"strings"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/planner"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	User string `help:"User to show (defaults to the current user)."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	user := ctx.User(c.User)
	p := ctx.Planner

	fmt.Printf("%s  %s\n", date, user)
	fmt.Println(strings.Repeat("-", 40))

	blocks := planner.Blocks(p.GetPlan(user, date))
	if len(blocks) == 0 {
		fmt.Println("No slots planned.")
	}
	for _, b := range blocks {
		id, cat := p.ResolveCategory(b.Entry.Category)
		label := cat.Label
		if id != b.Entry.Category {
			label += " *"
		}
		fmt.Printf("  %s  %-30s [%s]\n", b.Span(), b.Entry.Text, label)
	}

	todo, err := p.TodoForDisplay(user, date)
	if err != nil {
		return err
	}
	review := p.GetDailyReview(user, date)

	fmt.Println()
	fmt.Printf("To-do:      %s\n", orDash(todo))
	fmt.Printf("Rating:     %s\n", p.DailyStars(user, date))
	if score, ok := p.GetDailyRating(user, date); ok {
		fmt.Printf("            %s\n", planner.FormatScore(score))
	}
	fmt.Printf("Reflection: %s\n", orDash(review.Reflection))
	fmt.Printf("Tomorrow:   %s\n", orDash(review.TomorrowGoal))
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
