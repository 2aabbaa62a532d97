package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// New picks a backend from the file extension: ".db", ".sqlite" and
// ".sqlite3" select SQLite, anything else the JSON file store.
func New(configPath string) Provider {
	if IsSQLitePath(configPath) {
		return NewSQLiteStore(configPath)
	}
	return NewJSONStore(configPath)
}

// IsSQLitePath reports whether path selects the SQLite backend.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// ExpandPath resolves a leading "~/" against the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
