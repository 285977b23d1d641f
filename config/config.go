package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName names the service and its postgres schema.
const AppName = "jeongsan"

// EnvPrefix prefixes environment overrides, e.g. JEONGSAN_SERVER_PORT=9000.
const EnvPrefix = "JEONGSAN"

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Dev  bool   `mapstructure:"dev"`
	// RateLimit is requests per hour per client; 0 disables limiting.
	RateLimit int64 `mapstructure:"rate_limit"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Mode string `mapstructure:"mode"`
	URL  string `mapstructure:"url"`
}

type MQConfig struct {
	Mode         string `mapstructure:"mode"`
	RabbitURL    string `mapstructure:"rabbit_url"`
	GCPProjectID string `mapstructure:"gcp_project_id"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	PageSize int           `mapstructure:"page_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Database DatabaseConfig `mapstructure:"database"`
	MQ       MQConfig       `mapstructure:"mq"`
	Poll     PollConfig     `mapstructure:"poll"`
	Log      LogConfig      `mapstructure:"log"`
}

const (
	DatabaseMem = "mem"
	DatabasePG  = "pg"
)

// SetDefaults registers every key so env overrides resolve through Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.dev", true)
	v.SetDefault("server.rate_limit", 1000)
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("database.mode", DatabaseMem)
	v.SetDefault("database.url", "")
	v.SetDefault("mq.mode", "go_chan")
	v.SetDefault("mq.rabbit_url", "")
	v.SetDefault("mq.gcp_project_id", "")
	v.SetDefault("poll.interval", 5*time.Second)
	v.SetDefault("poll.page_size", 20)
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and env overrides wired, ready
// for flag bindings.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path (or config.yaml in the working
// directory when path is empty) into v and unmarshals the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects unknown modes.
func (c *Config) Validate() error {
	switch c.Database.Mode {
	case DatabaseMem:
	case DatabasePG:
		if c.Database.URL == "" {
			return errors.New("config: database.url is required when database.mode is pg")
		}
	default:
		return fmt.Errorf("config: unknown database.mode %q", c.Database.Mode)
	}
	switch c.MQ.Mode {
	case "go_chan", "rabbitmq", "gcp_pub_sub":
	default:
		return fmt.Errorf("config: unknown mq.mode %q", c.MQ.Mode)
	}
	if c.Backend.BaseURL == "" {
		return errors.New("config: backend.base_url is required")
	}
	return nil
}
