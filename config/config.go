package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	GitHub GitHubConfig `mapstructure:"github"`
}

type ServerConfig struct {
	Port              int  `mapstructure:"port"`
	PprofDebugEnabled bool `mapstructure:"pprof_debug_enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type GitHubConfig struct {
	Token         string `mapstructure:"token"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	GraphQLURL    string `mapstructure:"graphql_url"`
}

// AppConfig holds the loaded configuration for code that has no access to
// an injected Config.
var AppConfig *Config

// LoadConfig reads configuration from the environment, applies defaults and
// validates it. The process must not serve requests if this returns an error.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 3030)
	v.SetDefault("server.pprof_debug_enabled", false)
	v.SetDefault("log.level", "INFO")
	v.SetDefault("github.graphql_url", "https://api.github.com/graphql")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.pprof_debug_enabled", "CARDMOVER_PPROF_DEBUG_ENABLED")
	v.BindEnv("log.level", "CARDMOVER_LOG_LEVEL")
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.webhook_secret", "GITHUB_WEBHOOK_SECRET")
	v.BindEnv("github.graphql_url", "GITHUB_GRAPHQL_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = &cfg
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("GITHUB_TOKEN must be set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}
