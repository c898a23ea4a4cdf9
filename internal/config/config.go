package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	AI struct {
		GoogleAPIKey string `yaml:"google_api_key"`
		Model        string `yaml:"model"`
	} `yaml:"ai"`
	Auth struct {
		Token string `yaml:"token"`
	} `yaml:"auth"`
	Market struct {
		HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
	} `yaml:"market"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Log struct {
		Dir string `yaml:"dir"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is loaded first when
// present. A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TRADERPRO_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TRADERPRO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TRADERPRO_DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.AI.GoogleAPIKey = v
	}
	if v := os.Getenv("TRADERPRO_GEMINI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("TRADERPRO_AUTH_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}
	if v := os.Getenv("TRADERPRO_CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORS.AllowedOrigins = origins
	}
	if v := os.Getenv("TRADERPRO_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}

	// Defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/traderpro.db"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.Market.HTTPTimeoutSeconds <= 0 {
		cfg.Market.HTTPTimeoutSeconds = 15
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = "logs"
	}

	return cfg, nil
}

// Addr returns the host:port pair the HTTP server should bind to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	return nil
}
