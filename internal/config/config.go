package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"netfile/internal/logging"
)

type Config struct {
	HTTP    HTTPConfig     `yaml:"http" json:"http"`
	Logging logging.Config `yaml:"logging" json:"logging"`
}

type HTTPConfig struct {
	// User-Agent header sent on probes and fetches
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	// reachability probe timeout in seconds
	ProbeTimeout int `yaml:"probe_timeout" json:"probe_timeout"`
	// content fetch timeout in seconds
	FetchTimeout int `yaml:"fetch_timeout" json:"fetch_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			ProbeTimeout: 5,
			FetchTimeout: 10,
		},
		Logging: logging.Config{
			Level: "warn",
			JSON:  false,
		},
	}
}

// LoadConfig reads the yaml config at path on top of the defaults. A
// missing file is not an error; environment variables always override
// the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		// Return error if it's not a "file not found" error (e.g., permissions)
		return nil, err
	}

	processEnvOverrides(cfg)
	normalize(cfg)

	return cfg, nil
}

func processEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_USER_AGENT"); v != "" {
		cfg.HTTP.UserAgent = v
	}
	if v := os.Getenv("HTTP_PROBE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.ProbeTimeout = n
		}
	}
	if v := os.Getenv("HTTP_FETCH_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.FetchTimeout = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		cfg.Logging.JSON = v == "true" || v == "1"
	}
}

// normalize backfills fields an explicit config file zeroed out.
func normalize(cfg *Config) {
	def := DefaultConfig()
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = def.HTTP.UserAgent
	}
	if cfg.HTTP.ProbeTimeout <= 0 {
		cfg.HTTP.ProbeTimeout = def.HTTP.ProbeTimeout
	}
	if cfg.HTTP.FetchTimeout <= 0 {
		cfg.HTTP.FetchTimeout = def.HTTP.FetchTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// SaveConfig saves the configuration struct to the specified file path
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
