package config

import "time"

// Default returns the configuration used when no file or env overrides it.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:  "sqlite",
			Timeout: 5 * time.Second,
		},
		Chat: ChatConfig{
			BotName: "bulletquest_bot",
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8080",
		},
		Decay: DecayConfig{
			Period:     24 * time.Hour,
			RunOnStart: true,
		},
		Missions: MissionsConfig{
			GracePeriod: 72 * time.Hour,
		},
		Tasks: TasksConfig{
			DefaultXP: 5,
		},
		Motivation: MotivationConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
			Timeout:  20 * time.Second,
		},
	}
}

// setDefaults registers every key with viper so BQ_* env vars can override
// keys absent from the config file.
func setDefaults(v viperSetter, cfg *Config) {
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("storage.timeout", cfg.Storage.Timeout)
	v.SetDefault("chat.allowed_ids", cfg.Chat.AllowedIDs)
	v.SetDefault("chat.bot_name", cfg.Chat.BotName)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("decay.period", cfg.Decay.Period)
	v.SetDefault("decay.run_on_start", cfg.Decay.RunOnStart)
	v.SetDefault("missions.grace_period", cfg.Missions.GracePeriod)
	v.SetDefault("missions.catalog_path", cfg.Missions.CatalogPath)
	v.SetDefault("tasks.default_xp", cfg.Tasks.DefaultXP)
	v.SetDefault("tasks.allow_zombie_completion", cfg.Tasks.AllowZombieCompletion)
	v.SetDefault("areas.health_ceiling", cfg.Areas.HealthCeiling)
	v.SetDefault("motivation.endpoint", cfg.Motivation.Endpoint)
	v.SetDefault("motivation.model", cfg.Motivation.Model)
	v.SetDefault("motivation.api_key", cfg.Motivation.APIKey)
	v.SetDefault("motivation.timeout", cfg.Motivation.Timeout)
	v.SetDefault("log.file", cfg.Log.File)
}

type viperSetter interface {
	SetDefault(key string, value any)
}
