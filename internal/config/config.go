package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Repository RepositoryConfig `yaml:"repository"`
	Install    CommandConfig    `yaml:"install"`
	Launch     CommandConfig    `yaml:"launch"`
	Supervisor SupervisorConfig `yaml:"supervisor"`
	Update     UpdateConfig     `yaml:"update"`
	Tray       TrayConfig       `yaml:"tray"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// AppConfig identifies the utility and where it keeps its data.
type AppConfig struct {
	Name    string `yaml:"name"`               // directory name under the user config dir
	Title   string `yaml:"title"`              // tray title and tooltip
	DataDir string `yaml:"data_dir,omitempty"` // overrides the platform default AppDataPath
}

// RepositoryConfig describes the remote repository kept in sync.
type RepositoryConfig struct {
	URL       string      `yaml:"url"`
	Branch    string      `yaml:"branch,omitempty"` // empty follows the remote default branch
	Directory string      `yaml:"directory"`        // RepoPath name inside AppDataPath
	Auth      *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig represents HTTP authentication for private repositories.
type AuthConfig struct {
	Type     string `yaml:"type"` // "token", "basic"
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// CommandConfig describes an external command run inside the working copy.
type CommandConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
	// Shell runs the command through the platform shell, which resolves npm.cmd style
	// wrappers on Windows.
	Shell bool `yaml:"shell"`
	// MaxOutputBytes caps retained output; 0 keeps everything. Only used by install.
	MaxOutputBytes int `yaml:"max_output_bytes,omitempty"`
}

// SupervisorConfig tunes child process termination.
type SupervisorConfig struct {
	// StopGracePeriod is the wait between SIGTERM and SIGKILL. "0s" skips SIGTERM.
	StopGracePeriod string `yaml:"stop_grace_period"`
}

// UpdateConfig configures the self-update feed.
type UpdateConfig struct {
	FeedURL       string `yaml:"feed_url,omitempty"` // empty disables update checks
	CheckInterval string `yaml:"check_interval,omitempty"`
}

// TrayConfig configures the tray icon.
type TrayConfig struct {
	Icon string `yaml:"icon,omitempty"` // PNG path; relative paths resolve against the executable dir
}

// LoggingConfig configures log sinks.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
	File   string    `yaml:"file,omitempty"` // defaults to <AppDataPath>/logs/main.log; "-" disables
	// Journal also sends records to the systemd journal (Linux only).
	Journal bool `yaml:"journal,omitempty"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	ListenAddress string `yaml:"listen_address,omitempty"` // e.g. 127.0.0.1:9464; empty disables
}

// Load reads configuration from configPath. A missing file is not an error: the
// built-in defaults describe the stock installation.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(configPath)

	cfg := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, ferrors.FileSystemError("failed to read config file").
				WithCause(err).WithContext("path", configPath).Build()
		default:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes the default configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	cfg := &Config{}
	applyDefaults(cfg)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return ferrors.FileSystemError("failed to create config directory").
			WithCause(err).WithContext("path", filepath.Dir(configPath)).Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.FileSystemError("failed to write config file").
			WithCause(err).WithContext("path", configPath).Build()
	}
	return nil
}
