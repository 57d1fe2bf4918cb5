package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Source    SourceConfig    `koanf:"source"`
	Flags     FlagsConfig     `koanf:"flags"`
	Sink      SinkConfig      `koanf:"sink"`
	Transform TransformConfig `koanf:"transform"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	// Type selects the record source: "postgres" reads the live LMS
	// database, "fixture" loads a YAML table dump.
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	TablePrefix  string `koanf:"table_prefix"`
	FixturePath  string `koanf:"fixture_path"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// SourceConfig describes the platform statements originate from.
type SourceConfig struct {
	// AppURL is the base URL every activity URI is built from.
	AppURL string `koanf:"app_url"`

	// Name is the platform display name placed in context.platform.
	Name string `koanf:"name"`

	// Lang is the fallback language tag used when a course carries none.
	Lang string `koanf:"lang"`
}

// FlagsConfig holds the institution-specific feature flags. Explicit fields,
// checked at the point of use.
type FlagsConfig struct {
	// SendJiscData swaps the loggedin/loggedout verb ids for the JISC ones.
	SendJiscData bool `koanf:"send_jisc_data"`

	// SendCourseAndModuleIDNumber attaches the external id-number extension
	// to course-module and group activities.
	SendCourseAndModuleIDNumber bool `koanf:"send_course_and_module_idnumber"`

	// SendUsername puts the username rather than the numeric id into actor
	// account names.
	SendUsername bool `koanf:"send_username"`
}

type SinkConfig struct {
	// Type selects where statements go: "stdout" prints the batch as JSON,
	// "postgres" persists to the statement outbox table.
	Type   string `koanf:"type"`
	DSN    string `koanf:"dsn"`
	Pretty bool   `koanf:"pretty"`
}

type TransformConfig struct {
	// WorkerCount bounds concurrent per-event transforms; 1 means strictly
	// sequential. Output order always matches input order either way.
	WorkerCount int `koanf:"worker_count"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Database.Type {
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for database.type postgres")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	case "fixture":
		if strings.TrimSpace(c.Database.FixturePath) == "" {
			return fmt.Errorf("database.fixture_path is required for database.type fixture")
		}
	default:
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}

	if strings.TrimSpace(c.Source.AppURL) == "" {
		return fmt.Errorf("source.app_url is required")
	}
	if strings.TrimSpace(c.Source.Name) == "" {
		return fmt.Errorf("source.name is required")
	}
	if strings.TrimSpace(c.Source.Lang) == "" {
		return fmt.Errorf("source.lang is required")
	}

	switch c.Sink.Type {
	case "stdout":
	case "postgres":
		if strings.TrimSpace(c.Sink.DSN) == "" {
			return fmt.Errorf("sink.dsn is required for sink.type postgres")
		}
	default:
		return fmt.Errorf("unsupported sink.type %q", c.Sink.Type)
	}

	if c.Transform.WorkerCount <= 0 {
		return fmt.Errorf("transform.worker_count must be > 0")
	}

	return nil
}

// Load reads configuration from the given YAML file, overlaid by XAPI_*
// environment variables (XAPI_SOURCE__APP_URL maps to source.app_url).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                           8080,
		"server.host":                           "0.0.0.0",
		"server.max_body_size_mb":               1,
		"server.mode":                           "release",
		"database.type":                         "postgres",
		"database.dsn":                          "",
		"database.table_prefix":                 "mdl_",
		"database.fixture_path":                 "",
		"database.max_open_conns":               25,
		"database.max_idle_conns":               25,
		"database.auto_migrate":                 true,
		"source.app_url":                        "",
		"source.name":                           "",
		"source.lang":                           "en",
		"flags.send_jisc_data":                  false,
		"flags.send_course_and_module_idnumber": false,
		"flags.send_username":                   false,
		"sink.type":                             "stdout",
		"sink.dsn":                              "",
		"sink.pretty":                           true,
		"transform.worker_count":                1,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("XAPI_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "XAPI_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Activity URIs concatenate paths onto the base URL.
	cfg.Source.AppURL = strings.TrimRight(cfg.Source.AppURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
