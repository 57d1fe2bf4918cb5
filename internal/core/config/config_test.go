package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalYAML = `
database:
  type: fixture
  fixture_path: testdata/lms.yaml
source:
  app_url: https://lms.example.edu/
  name: Example LMS
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "release", cfg.Server.Mode)
	require.Equal(t, 1, cfg.Server.MaxBodySizeMB)
	require.Equal(t, "mdl_", cfg.Database.TablePrefix)
	require.Equal(t, "en", cfg.Source.Lang)
	require.Equal(t, "stdout", cfg.Sink.Type)
	require.True(t, cfg.Sink.Pretty)
	require.Equal(t, 1, cfg.Transform.WorkerCount)
	require.False(t, cfg.Flags.SendJiscData)

	// Trailing slash on the base URL is trimmed.
	require.Equal(t, "https://lms.example.edu", cfg.Source.AppURL)
}

func TestLoad_FileOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9090
  mode: debug
database:
  type: postgres
  dsn: postgres://moodle:pw@localhost:5432/moodle?sslmode=disable
  table_prefix: m_
source:
  app_url: https://lms.example.edu
  name: Example LMS
  lang: de
flags:
  send_username: true
sink:
  type: postgres
  dsn: postgres://outbox:pw@localhost:5432/outbox?sslmode=disable
  pretty: false
transform:
  worker_count: 8
`))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.Mode)
	require.Equal(t, "m_", cfg.Database.TablePrefix)
	require.Equal(t, "de", cfg.Source.Lang)
	require.True(t, cfg.Flags.SendUsername)
	require.Equal(t, "postgres", cfg.Sink.Type)
	require.False(t, cfg.Sink.Pretty)
	require.Equal(t, 8, cfg.Transform.WorkerCount)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XAPI_SOURCE__NAME", "Env LMS")
	t.Setenv("XAPI_TRANSFORM__WORKER_COUNT", "4")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	require.Equal(t, "Env LMS", cfg.Source.Name)
	require.Equal(t, 4, cfg.Transform.WorkerCount)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080, Host: "0.0.0.0", MaxBodySizeMB: 1, Mode: "release"},
			Database:  DatabaseConfig{Type: "fixture", FixturePath: "lms.yaml"},
			Source:    SourceConfig{AppURL: "https://lms.example.edu", Name: "Example LMS", Lang: "en"},
			Sink:      SinkConfig{Type: "stdout"},
			Transform: TransformConfig{WorkerCount: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(cfg *Config) {}},
		{name: "bad port", mutate: func(cfg *Config) { cfg.Server.Port = 0 }, wantErr: "server.port"},
		{name: "bad mode", mutate: func(cfg *Config) { cfg.Server.Mode = "verbose" }, wantErr: "server.mode"},
		{name: "postgres without dsn", mutate: func(cfg *Config) {
			cfg.Database = DatabaseConfig{Type: "postgres", MaxOpenConns: 5, MaxIdleConns: 5}
		}, wantErr: "database.dsn"},
		{name: "fixture without path", mutate: func(cfg *Config) {
			cfg.Database = DatabaseConfig{Type: "fixture"}
		}, wantErr: "database.fixture_path"},
		{name: "unknown database type", mutate: func(cfg *Config) { cfg.Database.Type = "oracle" }, wantErr: "database.type"},
		{name: "missing app url", mutate: func(cfg *Config) { cfg.Source.AppURL = "" }, wantErr: "source.app_url"},
		{name: "missing source name", mutate: func(cfg *Config) { cfg.Source.Name = " " }, wantErr: "source.name"},
		{name: "postgres sink without dsn", mutate: func(cfg *Config) { cfg.Sink = SinkConfig{Type: "postgres"} }, wantErr: "sink.dsn"},
		{name: "unknown sink type", mutate: func(cfg *Config) { cfg.Sink.Type = "kafka" }, wantErr: "sink.type"},
		{name: "zero workers", mutate: func(cfg *Config) { cfg.Transform.WorkerCount = 0 }, wantErr: "worker_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
