package config

import (
	"errors"
	"log"
	"time"

	"missioncontrol/pkg/config"
)

type DashboardConfig struct {
	// Events shown on the client dashboard and fed to the metrics.
	EventWindow int `yaml:"event_window"`
	// Events included in the summary prompt.
	SummaryEventWindow int `yaml:"summary_event_window"`
}

type WorkerConfig struct {
	Queue    string        `yaml:"queue"`
	Prefetch int           `yaml:"prefetch"`
	DedupTTL time.Duration `yaml:"dedup_ttl"`
	// Address of the health and metrics listener.
	HealthAddr string `yaml:"health_addr"`
}

type Config struct {
	DB         config.DBConfig     `yaml:"db"`
	MQ         config.MQConfig     `yaml:"mq"`
	Redis      config.RedisConfig  `yaml:"redis"`
	Auth       config.AuthConfig   `yaml:"auth"`
	Server     config.ServerConfig `yaml:"server"`
	AI         config.AIConfig     `yaml:"ai"`
	Log        config.LogConfig    `yaml:"log"`
	Otel       config.OtelConfig   `yaml:"otel"`
	Dashboard  DashboardConfig     `yaml:"dashboard"`
	Worker     WorkerConfig        `yaml:"worker"`
	Migrations string              `yaml:"migrations"`
}

// Load reads config for CONFIG_ENV from ./config and exits on failure.
func Load() *Config {
	cfg, err := LoadFrom(config.GetConfigEnv(), config.GetEnv("CONFIG_DIR", "config"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// LoadFrom merges the YAML files for env under dir, applies env overrides
// and fills defaults.
func LoadFrom(env, dir string) (*Config, error) {
	merged, err := config.LoadConfig(env, dir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := config.Decode(merged, &cfg); err != nil {
		return nil, err
	}

	// env overrides (production)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideAuthFromEnv(&cfg.Auth)
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideAIFromEnv(&cfg.AI)
	config.OverrideLogFromEnv(&cfg.Log)
	config.OverrideOtelFromEnv(&cfg.Otel)

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.DB.MaxConns == 0 {
		c.DB.MaxConns = 10
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.LoginPerMinute == 0 {
		c.Server.LoginPerMinute = 10
	}
	if c.Server.LoginBurst == 0 {
		c.Server.LoginBurst = 5
	}
	if c.Auth.AdminCookie == "" {
		c.Auth.AdminCookie = "sb-access-token"
	}
	if c.AI.Model == "" {
		c.AI.Model = "claude-haiku-4-5-20251001"
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 200
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 30 * time.Second
	}
	if c.AI.CacheTTL == 0 {
		c.AI.CacheTTL = 30 * time.Minute
	}
	if c.Dashboard.EventWindow == 0 {
		c.Dashboard.EventWindow = 10
	}
	if c.Dashboard.SummaryEventWindow == 0 {
		c.Dashboard.SummaryEventWindow = 20
	}
	if c.Worker.Queue == "" {
		c.Worker.Queue = "integration.event.q"
	}
	if c.Worker.Prefetch == 0 {
		c.Worker.Prefetch = 10
	}
	if c.Worker.DedupTTL == 0 {
		c.Worker.DedupTTL = 24 * time.Hour
	}
	if c.Worker.HealthAddr == "" {
		c.Worker.HealthAddr = ":8081"
	}
	if c.Otel.ServiceName == "" {
		c.Otel.ServiceName = "mission-control"
	}
}

// Validate rejects configs the services cannot start with.
func (c *Config) Validate() error {
	if c.DB.Name == "" {
		return errors.New("db.name is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	return nil
}
