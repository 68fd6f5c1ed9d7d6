package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rpggio/bidboard/internal/domain/account"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Events    EventsConfig    `yaml:"events"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"BIDBOARD_SERVER_HOST"`
	Port int    `yaml:"port" env:"BIDBOARD_SERVER_PORT"`
}

type DBConfig struct {
	// Driver is "sqlite" or "bolt".
	Driver string `yaml:"driver" env:"BIDBOARD_DB_DRIVER"`
	Path   string `yaml:"path" env:"BIDBOARD_DB_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"BIDBOARD_LOG_LEVEL"`
	Path  string `yaml:"path" env:"BIDBOARD_LOG_PATH"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http".
	Mode string `yaml:"mode" env:"BIDBOARD_TRANSPORT"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" env:"BIDBOARD_AUTH_ENABLED"`
	// Mode is "apikey" or "jwt".
	Mode         string `yaml:"mode" env:"BIDBOARD_AUTH_MODE"`
	JWTSecret    string `yaml:"jwt_secret" env:"BIDBOARD_JWT_SECRET"`
	JWTIssuer    string `yaml:"jwt_issuer" env:"BIDBOARD_JWT_ISSUER"`
	DefaultOwner string `yaml:"default_owner" env:"BIDBOARD_DEFAULT_OWNER"`

	// DefaultOwnerKind is "client" or "freelancer".
	DefaultOwnerKind string `yaml:"default_owner_kind" env:"BIDBOARD_DEFAULT_OWNER_KIND"`
}

// DefaultIdentity is the caller used when requests are not authenticated.
func (a AuthConfig) DefaultIdentity() (account.Identity, error) {
	kind, err := account.ParseKind(a.DefaultOwnerKind)
	if err != nil {
		return account.Identity{}, fmt.Errorf("default owner kind %q: %w", a.DefaultOwnerKind, err)
	}
	id := account.Identity{Owner: a.DefaultOwner, Kind: kind}
	if err := id.Validate(); err != nil {
		return account.Identity{}, fmt.Errorf("default owner %q: %w", a.DefaultOwner, err)
	}
	return id, nil
}

type EventsConfig struct {
	TopicURL        string `yaml:"topic_url" env:"BIDBOARD_EVENTS_TOPIC_URL"`
	SubscriptionURL string `yaml:"subscription_url" env:"BIDBOARD_EVENTS_SUBSCRIPTION_URL"`
}

type TelemetryConfig struct {
	OTelEndpoint string `yaml:"otel_endpoint" env:"BIDBOARD_OTEL_ENDPOINT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "bidboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Auth: AuthConfig{
			Mode:             "apikey",
			DefaultOwner:     "local",
			DefaultOwnerKind: "client",
		},
		Events: EventsConfig{
			TopicURL:        "mem://project-events",
			SubscriptionURL: "mem://project-events",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, a .env file
// and environment variables, later sources winning.
func Load() (Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("BIDBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown modes.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "bolt":
	default:
		return fmt.Errorf("invalid db driver %q", c.DB.Driver)
	}
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport %q", c.Transport.Mode)
	}
	if c.Auth.Enabled {
		switch c.Auth.Mode {
		case "apikey":
		case "jwt":
			if strings.TrimSpace(c.Auth.JWTSecret) == "" {
				return fmt.Errorf("jwt auth requires BIDBOARD_JWT_SECRET")
			}
		default:
			return fmt.Errorf("invalid auth mode %q", c.Auth.Mode)
		}
	}
	if strings.TrimSpace(c.Auth.DefaultOwner) == "" {
		return fmt.Errorf("default owner is required")
	}
	if _, err := c.Auth.DefaultIdentity(); err != nil {
		return err
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
