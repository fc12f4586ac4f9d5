package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if err := c.validateRepository(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Install.Command) == "" {
		return ferrors.ConfigError("install.command must not be empty").Build()
	}
	if strings.TrimSpace(c.Launch.Command) == "" {
		return ferrors.ConfigError("launch.command must not be empty").Build()
	}
	if c.Install.MaxOutputBytes < 0 {
		return ferrors.ConfigError("install.max_output_bytes must not be negative").Build()
	}
	if _, err := parseDuration("supervisor.stop_grace_period", c.Supervisor.StopGracePeriod); err != nil {
		return err
	}
	if c.Update.CheckInterval != "" {
		d, err := parseDuration("update.check_interval", c.Update.CheckInterval)
		if err != nil {
			return err
		}
		if d > 0 && d < time.Minute {
			return ferrors.ConfigError("update.check_interval must be at least 1m").
				WithContext("value", c.Update.CheckInterval).Build()
		}
	}
	if addr := c.Metrics.ListenAddress; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return ferrors.ConfigError("metrics.listen_address is not host:port").
				WithCause(err).WithContext("value", addr).Build()
		}
	}
	return nil
}

func (c *Config) validateRepository() error {
	if strings.TrimSpace(c.Repository.URL) == "" {
		return ferrors.ConfigError("repository.url must not be empty").Build()
	}
	dir := c.Repository.Directory
	if dir == "." || dir == ".." || filepath.Base(dir) != dir || strings.ContainsAny(dir, `/\`) {
		return ferrors.ConfigError("repository.directory must be a single directory name").
			WithContext("value", dir).Build()
	}
	if a := c.Repository.Auth; a != nil {
		switch a.Type {
		case "token":
			if a.Token == "" {
				return ferrors.ConfigError("repository.auth.token is required for token auth").Build()
			}
		case "basic":
			if a.Username == "" || a.Password == "" {
				return ferrors.ConfigError("repository.auth requires username and password for basic auth").Build()
			}
		default:
			return ferrors.ConfigError(fmt.Sprintf("unsupported repository.auth.type %q (use token or basic)", a.Type)).Build()
		}
	}
	return nil
}

func parseDuration(field, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, ferrors.ConfigError(field+" is not a valid duration").
			WithCause(err).WithContext("value", raw).Build()
	}
	if d < 0 {
		return 0, ferrors.ConfigError(field + " must not be negative").WithContext("value", raw).Build()
	}
	return d, nil
}

// StopGracePeriod returns the delay between the termination signal and the forced kill.
func (c *Config) StopGracePeriod() time.Duration {
	d, err := time.ParseDuration(c.Supervisor.StopGracePeriod)
	if err != nil || d < 0 {
		return DefaultStopGracePeriod
	}
	return d
}

// UpdateCheckInterval returns the periodic update check interval; 0 means startup only.
func (c *Config) UpdateCheckInterval() time.Duration {
	if c.Update.CheckInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Update.CheckInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
