package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// DatabaseConfig holds the database connection information.
type DatabaseConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// Enabled reports whether both a driver and a DSN are configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Type != "" && d.DSN != ""
}

// KVConfig points at an Upstash-compatible REST key-value service.
type KVConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// Enabled reports whether both the endpoint and the token are set.
func (k KVConfig) Enabled() bool {
	return k.URL != "" && k.Token != ""
}

// AdminConfig holds configuration for the admin routes.
type AdminConfig struct {
	Password string `yaml:"password"`
}

// BackgroundConfig controls the image layered under the reserved counter.
type BackgroundConfig struct {
	Path        string `yaml:"path"`
	FallbackURL string `yaml:"fallback_url"`
	Refresh     string `yaml:"refresh"`
}

// Config holds the configuration for the widget server.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	KV         KVConfig         `yaml:"kv"`
	Admin      AdminConfig      `yaml:"admin"`
	Background BackgroundConfig `yaml:"background"`
	PublicURL  string           `yaml:"public_url"`
	RepoURL    string           `yaml:"repo_url"`
	LogFormat  string           `yaml:"log_format"`
	Port       int              `yaml:"port"`
	Debug      bool             `yaml:"debug"`
}

const (
	defaultPort           = 8080
	defaultBackgroundPath = "public/back.gif"
	defaultRefresh        = "@every 1h"
	defaultRepoURL        = "https://github.com/web2and3/readmekit"
)

// LoadConfig reads and parses the configuration file, then overlays the
// environment. A missing file is not an error. It returns the config and any
// warnings worth logging once the logger exists.
var LoadConfig = func(path string) (*Config, []string, error) {
	var config Config
	var warnings []string

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	overlayEnv(&config, &warnings)

	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.Background.Path == "" {
		config.Background.Path = defaultBackgroundPath
	}
	if config.Background.Refresh == "" {
		config.Background.Refresh = defaultRefresh
	}
	if config.RepoURL == "" {
		config.RepoURL = defaultRepoURL
	}
	config.PublicURL = strings.TrimRight(config.PublicURL, "/")

	switch config.LogFormat {
	case "", "json", "text":
	default:
		return nil, nil, fmt.Errorf("unsupported log_format %q (want json or text)", config.LogFormat)
	}

	if (config.KV.URL == "") != (config.KV.Token == "") {
		warnings = append(warnings, "kv.url and kv.token must both be set; remote counter store disabled")
	}
	if (config.Database.Type == "") != (config.Database.DSN == "") {
		warnings = append(warnings, "database.type and database.dsn must both be set; database counter store disabled")
	}

	return &config, warnings, nil
}

func overlayEnv(config *Config, warnings *[]string) {
	if v := firstEnv("KV_REST_API_URL", "UPSTASH_REDIS_REST_URL"); v != "" {
		config.KV.URL = v
	}
	if v := firstEnv("KV_REST_API_TOKEN", "UPSTASH_REDIS_REST_TOKEN"); v != "" {
		config.KV.Token = v
	}
	if v := os.Getenv("READMEKIT_DATABASE_TYPE"); v != "" {
		config.Database.Type = v
	}
	if v := os.Getenv("READMEKIT_DATABASE_DSN"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("READMEKIT_ADMIN_PASSWORD"); v != "" {
		config.Admin.Password = v
	}
	if v := os.Getenv("READMEKIT_BACKGROUND_PATH"); v != "" {
		config.Background.Path = v
	}
	if v := os.Getenv("READMEKIT_BACKGROUND_FALLBACK_URL"); v != "" {
		config.Background.FallbackURL = v
	}
	if v := os.Getenv("READMEKIT_PUBLIC_URL"); v != "" {
		config.PublicURL = v
	}
	if v := os.Getenv("READMEKIT_REPO_URL"); v != "" {
		config.RepoURL = v
	}
	if v := os.Getenv("READMEKIT_LOG_FORMAT"); v != "" {
		config.LogFormat = v
	}
	if v := os.Getenv("READMEKIT_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 {
			*warnings = append(*warnings, fmt.Sprintf("ignoring invalid READMEKIT_PORT %q", v))
		} else {
			config.Port = p
		}
	}
	if v := os.Getenv("READMEKIT_DEBUG"); v != "" {
		config.Debug = v == "true"
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
