package config

import (
	"time"
)

// Config is the full bulletquest configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Chat       ChatConfig       `yaml:"chat" mapstructure:"chat"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Decay      DecayConfig      `yaml:"decay" mapstructure:"decay"`
	Missions   MissionsConfig   `yaml:"missions" mapstructure:"missions"`
	Tasks      TasksConfig      `yaml:"tasks" mapstructure:"tasks"`
	Areas      AreasConfig      `yaml:"areas" mapstructure:"areas"`
	Motivation MotivationConfig `yaml:"motivation" mapstructure:"motivation"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver" mapstructure:"driver"`
	// DSN is a file path for sqlite (empty means ~/.bulletquest/bulletquest.db)
	// or a lib/pq connection string for postgres.
	DSN     string        `yaml:"dsn" mapstructure:"dsn"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type ChatConfig struct {
	// AllowedIDs is the allow-list of chat ids. Empty rejects everyone.
	AllowedIDs []int64 `yaml:"allowed_ids" mapstructure:"allowed_ids"`
	BotName    string  `yaml:"bot_name" mapstructure:"bot_name"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

type DecayConfig struct {
	Period     time.Duration `yaml:"period" mapstructure:"period"`
	RunOnStart bool          `yaml:"run_on_start" mapstructure:"run_on_start"`
}

type MissionsConfig struct {
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
	CatalogPath string        `yaml:"catalog_path" mapstructure:"catalog_path"`
}

type TasksConfig struct {
	DefaultXP             int  `yaml:"default_xp" mapstructure:"default_xp"`
	AllowZombieCompletion bool `yaml:"allow_zombie_completion" mapstructure:"allow_zombie_completion"`
}

type AreasConfig struct {
	// HealthCeiling caps area health; 0 leaves it unbounded.
	HealthCeiling int `yaml:"health_ceiling" mapstructure:"health_ceiling"`
}

type MotivationConfig struct {
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Model    string        `yaml:"model" mapstructure:"model"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type LogConfig struct {
	// File appends logs to this path in addition to stderr.
	File string `yaml:"file" mapstructure:"file"`
}

// IsAllowed reports whether chatID is on the allow-list.
func (c ChatConfig) IsAllowed(chatID int64) bool {
	for _, id := range c.AllowedIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
