package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	SettingsBackendFile  = "file"
	SettingsBackendRedis = "redis"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token" env:"BOT_TOKEN"`
	Mode    string `yaml:"mode"`    // polling | webhook (future)
	Workers int    `yaml:"workers"` // update workers; a user always lands on the same one
	Debug   bool   `yaml:"debug"`
}

type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL"` // trace|debug|info|warn|error
	Format   string `yaml:"format"`                // json|console
	Sampling bool   `yaml:"sampling"`              // enable sampling in prod
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key" env:"ADMIN_API_KEY"`
}

type CaptchaConfig struct {
	Length   int           `yaml:"length"`
	Attempts int           `yaml:"attempts"`
	TTL      time.Duration `yaml:"ttl"`
}

type InviteConfig struct {
	TTL     time.Duration `yaml:"ttl"`
	Timeout time.Duration `yaml:"timeout"`
}

type SettingsConfig struct {
	Backend string `yaml:"backend" env:"SETTINGS_BACKEND"` // file | redis
	Path    string `yaml:"path" env:"SETTINGS_PATH"`
}

type RedisConfig struct {
	URL      string `yaml:"url" env:"REDIS_URL"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type SweeperConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Captcha  CaptchaConfig  `yaml:"captcha"`
	Invite   InviteConfig   `yaml:"invite"`
	Settings SettingsConfig `yaml:"settings"`
	Redis    RedisConfig    `yaml:"redis"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, overlays environment variables and applies defaults.
// A missing file is fine as long as the environment supplies the bot token.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only deployment
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8080
	}
	if cfg.Captcha.Length <= 0 {
		cfg.Captcha.Length = 6
	}
	if cfg.Captcha.Attempts <= 0 {
		cfg.Captcha.Attempts = 3
	}
	cfg.Captcha.TTL = orDefault(cfg.Captcha.TTL, 5*time.Minute)
	cfg.Invite.TTL = orDefault(cfg.Invite.TTL, 24*time.Hour)
	cfg.Invite.Timeout = orDefault(cfg.Invite.Timeout, 10*time.Second)
	cfg.Sweeper.Interval = orDefault(cfg.Sweeper.Interval, time.Minute)

	cfg.Settings.Backend = strings.ToLower(strings.TrimSpace(cfg.Settings.Backend))
	if cfg.Settings.Backend == "" {
		cfg.Settings.Backend = SettingsBackendFile
	}
	if cfg.Settings.Path == "" {
		cfg.Settings.Path = "bot_settings.json"
	}
	if cfg.Redis.Key == "" {
		cfg.Redis.Key = "captcha_gate:settings"
	}
}

func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return errors.New("bot.token is required")
	}
	switch c.Settings.Backend {
	case SettingsBackendFile:
	case SettingsBackendRedis:
		if c.Redis.URL == "" {
			return errors.New("redis.url is required for the redis settings backend")
		}
	default:
		return fmt.Errorf("unknown settings.backend %q", c.Settings.Backend)
	}
	return nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
