package commands

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/6686-repos/dsmodinstaller/internal/config"
	"github.com/6686-repos/dsmodinstaller/internal/logging"
)

// Global carries state shared between main and the commands.
type Global struct {
	Logger *slog.Logger
	sinks  *logging.Sinks
}

// Close releases the log sinks.
func (g *Global) Close() {
	if g.sinks != nil {
		_ = g.sinks.Close()
	}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"${config_path}" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run         RunCmd         `cmd:"" default:"1" help:"Run in the system tray: sync, install and launch, then supervise (default)"`
	Sync        SyncCmd        `cmd:"" help:"Sync the repository and install dependencies without launching"`
	CheckUpdate CheckUpdateCmd `cmd:"" name:"check-update" help:"Check the update feed once and print the result"`
	Init        InitCmd        `cmd:"" help:"Write the default configuration file"`
}

// ExitError ends the process with Code after its cause has already been reported.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// AfterApply installs a terminal logger so that configuration errors are reported
// before the configured sinks exist.
func (c *CLI) AfterApply(g *Global) error {
	level := config.LogLevelInfo
	if c.Verbose {
		level = config.LogLevelDebug
	}
	sinks, err := logging.New(logging.Options{Level: level, Format: config.LogFormatText})
	if err != nil {
		return err
	}
	g.sinks = sinks
	g.Logger = sinks.Logger
	slog.SetDefault(g.Logger)
	return nil
}

// runtime is the loaded configuration with logging configured from it.
type runtime struct {
	cfg    *config.Config
	paths  config.Paths
	logger *slog.Logger
	sinks  *logging.Sinks
}

// load reads the configuration and replaces the terminal logger with the configured
// sinks.
func (c *CLI) load(g *Global) (*runtime, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if c.Verbose {
		level = config.LogLevelDebug
	}
	sinks, err := logging.New(logging.Options{
		Level:   level,
		Format:  cfg.Logging.Format,
		File:    paths.LogFile,
		Journal: cfg.Logging.Journal,
	})
	if err != nil {
		return nil, err
	}
	g.Close()
	g.sinks = sinks
	g.Logger = sinks.Logger
	slog.SetDefault(g.Logger)
	g.Logger.Debug("Configuration loaded", slog.String("config", c.Config), slog.String("data_dir", paths.AppData))
	return &runtime{cfg: cfg, paths: paths, logger: g.Logger, sinks: sinks}, nil
}
