package config

import "time"

// Stock installation values.
const (
	DefaultAppName         = "dsmodinstaller"
	DefaultTitle           = "DS Mod Installer"
	DefaultRepositoryURL   = "https://github.com/6686-repos/sheltupdate6686"
	DefaultRepoDirectory   = "sheltupdate6686"
	DefaultStopGracePeriod = 5 * time.Second
	DefaultIconFile        = "icon.png"
)

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = DefaultAppName
	}
	if cfg.App.Title == "" {
		cfg.App.Title = DefaultTitle
	}
	if cfg.Repository.URL == "" {
		cfg.Repository.URL = DefaultRepositoryURL
	}
	if cfg.Repository.Directory == "" {
		cfg.Repository.Directory = DefaultRepoDirectory
	}
	if cfg.Install.Command == "" {
		cfg.Install.Command = "npm"
		cfg.Install.Args = []string{"install"}
		cfg.Install.Shell = true
	}
	if cfg.Launch.Command == "" {
		cfg.Launch.Command = "node"
		cfg.Launch.Args = []string{"src/index.js"}
	}
	if cfg.Supervisor.StopGracePeriod == "" {
		cfg.Supervisor.StopGracePeriod = DefaultStopGracePeriod.String()
	}
	if cfg.Tray.Icon == "" {
		cfg.Tray.Icon = DefaultIconFile
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
