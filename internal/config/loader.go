package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: storage.dsn is BQ_STORAGE_DSN.
const EnvPrefix = "BQ"

// Load builds the configuration from defaults, then the YAML file at path
// (the global config when path is empty), then BQ_* environment variables.
// A missing global file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	explicit := path != ""
	if !explicit {
		path = GlobalConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("config: storage.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("config: unknown storage.driver %q (want sqlite or postgres)", c.Storage.Driver)
	}
	if c.Storage.Timeout <= 0 {
		return fmt.Errorf("config: storage.timeout must be positive")
	}
	if c.Decay.Period <= 0 {
		return fmt.Errorf("config: decay.period must be positive")
	}
	if c.Missions.GracePeriod <= 0 {
		return fmt.Errorf("config: missions.grace_period must be positive")
	}
	if c.Tasks.DefaultXP <= 0 {
		return fmt.Errorf("config: tasks.default_xp must be positive")
	}
	if c.Areas.HealthCeiling < 0 {
		return fmt.Errorf("config: areas.health_ceiling must not be negative")
	}
	return nil
}

// HomeDir is the directory holding the default database and config file.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bulletquest"
	}
	return filepath.Join(home, ".bulletquest")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}
