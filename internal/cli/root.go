package cli

import (
	"strings"

	"github.com/julianstephens/timebox/internal/backup"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/storage"
	"github.com/julianstephens/timebox/internal/utils"
)

type Context struct {
	Store    storage.Provider
	Planner  *planner.Store
	Timezone string
	Options  []planner.Option
}

// Open loads the planner document on first use.
func (c *Context) Open() error {
	if c.Planner != nil {
		return nil
	}
	opts := append([]planner.Option{planner.WithTimezone(c.Timezone)}, c.Options...)
	p, err := planner.Open(c.Store, opts...)
	if err != nil {
		return err
	}
	c.Planner = p
	return nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDate accepts "today", "yesterday", "tomorrow" or YYYY-MM-DD.
func (c *Context) ResolveDate(s string) (models.DateKey, error) {
	today, err := c.Planner.Today()
	if err != nil {
		return "", err
	}
	return utils.ResolveDate(s, today)
}

// User returns the trimmed name when set, otherwise the current user.
func (c *Context) User(name string) models.UserName {
	if name = strings.TrimSpace(name); name != "" {
		return models.UserName(name)
	}
	return c.Planner.CurrentUser()
}
