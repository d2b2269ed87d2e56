package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type testSection struct {
	Provider string  `mapstructure:"provider"`
	APIKey   string  `mapstructure:"api_key"`
	Temp     float64 `mapstructure:"temperature"`
}

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Transcription testSection `mapstructure:"transcription"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func(env string) ServiceConfig {
		c := ServiceConfig{Name: "svc", Environment: env}
		c.ApplyDefaults()
		return c
	}
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid development", valid("development"), ""},
		{"valid production", valid("production"), ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	yaml := `
name: whispering
environment: staging
transcription:
  provider: Groq
  temperature: 0.2
`
	if err := os.WriteFile(configPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("whispering", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "whispering" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Transcription.Provider != "Groq" || cfg.Transcription.Temp != 0.2 {
		t.Errorf("unexpected transcription section %+v", cfg.Transcription)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("transcription:\n  provider: Groq\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRANSCRIPTION_PROVIDER", "OpenAI")
	t.Setenv("TRANSCRIPTION_API_KEY", "sk-env")

	var cfg testConfig
	if err := LoadConfig("whispering", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transcription.Provider != "OpenAI" {
		t.Errorf("expected env override, got %q", cfg.Transcription.Provider)
	}
	if cfg.Transcription.APIKey != "sk-env" {
		t.Errorf("expected api key from env, got %q", cfg.Transcription.APIKey)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("whispering", &cfg,
		WithFileSystem(&mockFS{}),
		WithDefault("transcription.provider", "faster-whisper-server"),
		WithDefault("transcription.temperature", 0.0))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transcription.Provider != "faster-whisper-server" {
		t.Errorf("expected default provider, got %q", cfg.Transcription.Provider)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("transcription: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfg testConfig
	if err := LoadConfig("whispering", &cfg, WithConfigFile(configPath)); err == nil {
		t.Fatal("expected malformed YAML to fail")
	}
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/server/config.yml": true,
		"./config.yml":            true,
		"./.env":                  true,
		"./config/.env":           true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("whispering-server", LoaderConfig{})
	if files.ConfigFile != "./cmd/server/config.yml" {
		t.Errorf("expected short-name config path, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./config/.env" {
		t.Errorf("expected ./config/.env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("svc", LoaderConfig{ConfigFile: "custom.yml", EnvFile: "custom.env"})
	if files.ConfigFile != "custom.yml" || files.EnvFile != "custom.env" {
		t.Errorf("unexpected resolved files %+v", files)
	}
}

func TestLoadConfigLoadsResolvedEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}}
	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatal(err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "./.env" {
		t.Errorf("expected ./.env to be loaded, got %v", fs.loaded)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("TRANSCRIPTION_GROQ_API_KEY")
	for _, want := range []string{
		"transcription_groq_api_key",
		"transcription.groq.api.key",
		"transcription.groq_api_key",
		"transcription.groq.api_key",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("variants %v missing %q", got, want)
		}
	}
	if single := envKeyVariants("HOME"); len(single) != 1 || single[0] != "home" {
		t.Errorf("unexpected single-part variants %v", single)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithDefault("a.b", 1)(&lc)
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected loader config %+v", lc)
	}
	if lc.Defaults["a.b"] != 1 {
		t.Errorf("expected default registered, got %v", lc.Defaults)
	}
}
