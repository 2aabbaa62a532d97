package plans

import (
	"fmt"
	"strings"

	"github.com/julianstephens/timebox/internal/cli"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/utils"
)

type SlotCmd struct {
	Time     string   `arg:"" help:"Slot start time (HH:MM, multiple of 10 minutes)."`
	Text     []string `arg:"" optional:"" help:"Task text. Omit to clear the slot."`
	Category string   `help:"Category id (keeps the slot's category when omitted)." short:"c"`
	Date     string   `help:"Date (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	User     string   `help:"User to act as (defaults to the current user)."`
}

func (c *SlotCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}
	idx, err := utils.ParseClock(c.Time)
	if err != nil {
		return apperrors.NewValidation("time", "%v", err)
	}
	key, err := models.SlotKeyFromIndex(idx)
	if err != nil {
		return apperrors.NewValidation("time", "%v", err)
	}

	var category *models.CategoryID
	if c.Category != "" {
		id := models.CategoryID(c.Category)
		category = &id
	}

	text := strings.Join(c.Text, " ")
	if err := ctx.Planner.SetSlot(ctx.User(c.User), date, key, text, category); err != nil {
		return err
	}

	if strings.TrimSpace(text) == "" {
		fmt.Printf("Cleared %s on %s\n", key.Label(), date)
	} else {
		fmt.Printf("Set %s on %s\n", key.Label(), date)
	}
	return nil
}

type RangeCmd struct {
	From     string   `arg:"" help:"First slot start time (HH:MM)."`
	To       string   `arg:"" help:"Last slot start time (HH:MM), inclusive."`
	Text     []string `arg:"" help:"Task text."`
	Category string   `help:"Category id." short:"c" default:"default"`
	Date     string   `help:"Date (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	User     string   `help:"User to act as (defaults to the current user)."`
}

func (c *RangeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}
	from, err := utils.ParseClock(c.From)
	if err != nil {
		return apperrors.NewValidation("from", "%v", err)
	}
	to, err := utils.ParseClock(c.To)
	if err != nil {
		return apperrors.NewValidation("to", "%v", err)
	}

	err = ctx.Planner.ApplyRange(ctx.User(c.User), date, from, to, strings.Join(c.Text, " "), models.CategoryID(c.Category))
	if err != nil {
		return err
	}

	if to < from {
		from, to = to, from
	}
	fmt.Printf("Filled %d slot(s) %s-%s on %s\n", int(to-from)+1, from.Label(), (to + 1).Label(), date)
	return nil
}

type ClearCmd struct {
	Date string `arg:"" optional:"" help:"Date to clear." default:"today"`
	User string `help:"User to act as (defaults to the current user)."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}
	if err := ctx.Planner.ClearPlan(ctx.User(c.User), date); err != nil {
		return err
	}
	fmt.Printf("Cleared plan for %s\n", date)
	return nil
}

type ResetCmd struct {
	Date string `arg:"" optional:"" help:"Date to reset." default:"today"`
	User string `help:"User to act as (defaults to the current user)."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}
	if err := ctx.Planner.ResetDay(ctx.User(c.User), date); err != nil {
		return err
	}
	fmt.Printf("Reset plan and to-do for %s\n", date)
	return nil
}
