package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the fixed filesystem locations derived from the configuration.
type Paths struct {
	// AppData is the utility-scoped directory. Created on first run, never deleted.
	AppData string
	// Repo is the working copy inside AppData. Deleting it forces a re-clone.
	Repo    string
	LogFile string // empty when file logging is disabled
	Icon    string
}

// ResolvePaths derives the platform paths. On Windows the default AppData is
// %APPDATA%\<app.name>; elsewhere it follows os.UserConfigDir.
func (c *Config) ResolvePaths() (Paths, error) {
	base := c.App.DataDir
	if base == "" {
		userDir, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		base = filepath.Join(userDir, c.App.Name)
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return Paths{}, fmt.Errorf("resolve data dir: %w", err)
	}

	p := Paths{
		AppData: base,
		Repo:    filepath.Join(base, c.Repository.Directory),
		Icon:    c.Tray.Icon,
	}
	switch c.Logging.File {
	case "-":
	case "":
		p.LogFile = filepath.Join(base, "logs", "main.log")
	default:
		p.LogFile = c.Logging.File
	}
	if p.Icon != "" && !filepath.IsAbs(p.Icon) {
		if exe, err := os.Executable(); err == nil {
			p.Icon = filepath.Join(filepath.Dir(exe), p.Icon)
		}
	}
	return p, nil
}

// DefaultPath is the configuration file used when --config is not given:
// <user config dir>/dsmodinstaller/config.yaml, or config.yaml in the working
// directory when the user config dir is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, DefaultAppName, "config.yaml")
}
