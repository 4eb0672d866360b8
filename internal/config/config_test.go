package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks the variables a developer's shell is most likely to set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SERVER_PORT", "PORT", "LOG_LEVEL", "LOG_FORMAT", "PLAYBACK_DEFAULT_SAMPLE"} {
		t.Setenv(k, "")
	}
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Playback: PlaybackConfig{DefaultInterval: time.Second, DefaultSample: "gdp"},
		Import:   ImportConfig{MaxFileSize: 1, MaxConcurrent: 1, MaxWaitTime: time.Second},
		Session:  SessionConfig{IdleTimeout: time.Minute, SweepInterval: time.Minute},
		Rate:     RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ImportLimit: 10},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Playback.DefaultInterval != time.Second {
		t.Errorf("Playback.DefaultInterval = %v, want 1s", cfg.Playback.DefaultInterval)
	}
	if cfg.Playback.DefaultSample != "gdp" {
		t.Errorf("Playback.DefaultSample = %q, want gdp", cfg.Playback.DefaultSample)
	}
	if cfg.Import.MaxConcurrent != 4 {
		t.Errorf("Import.MaxConcurrent = %d, want %d", cfg.Import.MaxConcurrent, 4)
	}
	if cfg.Import.MaxFileSize != 5242880 {
		t.Errorf("Import.MaxFileSize = %d, want %d", cfg.Import.MaxFileSize, 5242880)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute {
		t.Errorf("Session.IdleTimeout = %v, want 30m", cfg.Session.IdleTimeout)
	}
	if cfg.Rate.RequestsPerMinute != 300 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 300)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IMPORT_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PLAYBACK_DEFAULT_SAMPLE", "cities")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Import.MaxConcurrent != 10 {
		t.Errorf("Import.MaxConcurrent = %d, want %d", cfg.Import.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Playback.DefaultSample != "cities" {
		t.Errorf("Playback.DefaultSample = %q, want cities", cfg.Playback.DefaultSample)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000 from PORT", cfg.Server.Port)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_MAX", "lots")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_MAX") {
		t.Fatalf("Load() error = %v, want one naming SESSION_MAX", err)
	}
}

func TestLoad_ReportsEveryInvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_MAX", "lots")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")
	t.Setenv("SESSION_IDLE_TIMEOUT", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil")
	}
	for _, name := range []string{"SESSION_MAX", "RATE_LIMIT_ENABLED", "SESSION_IDLE_TIMEOUT"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not name %s: %v", name, err)
		}
	}
}

func TestLoad_PrimaryBeatsAlt(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 from SERVER_PORT", cfg.Server.Port)
	}
}

func TestSetField_UnsupportedType(t *testing.T) {
	var f float64
	if err := setField(reflect.ValueOf(&f).Elem(), "1.5"); err == nil {
		t.Error("setField() on float64 should fail")
	}
}

func TestLoad_Duration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("IMPORT_MAX_WAIT_TIME", "1m30s")
	t.Setenv("PLAYBACK_DEFAULT_INTERVAL", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Import.MaxWaitTime != 90*time.Second {
		t.Errorf("Import.MaxWaitTime = %v, want %v", cfg.Import.MaxWaitTime, 90*time.Second)
	}
	if cfg.Playback.DefaultInterval != 250*time.Millisecond {
		t.Errorf("Playback.DefaultInterval = %v, want 250ms", cfg.Playback.DefaultInterval)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 99999 }, wantErr: "SERVER_PORT"},
		{name: "interval too short", mutate: func(c *Config) { c.Playback.DefaultInterval = 30 * time.Millisecond }, wantErr: "PLAYBACK_DEFAULT_INTERVAL"},
		{name: "interval too long", mutate: func(c *Config) { c.Playback.DefaultInterval = 2 * time.Second }, wantErr: "PLAYBACK_DEFAULT_INTERVAL"},
		{name: "blank sample", mutate: func(c *Config) { c.Playback.DefaultSample = " " }, wantErr: "PLAYBACK_DEFAULT_SAMPLE"},
		{name: "zero file size", mutate: func(c *Config) { c.Import.MaxFileSize = 0 }, wantErr: "IMPORT_MAX_FILE_SIZE"},
		{name: "negative session cap", mutate: func(c *Config) { c.Session.Max = -1 }, wantErr: "SESSION_MAX"},
		{name: "rate limit without budget", mutate: func(c *Config) { c.Rate.RequestsPerMinute = 0 }, wantErr: "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{name: "rate limit disabled", mutate: func(c *Config) { c.Rate = RateLimitConfig{} }},
		{name: "invalid log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "LOG_LEVEL"},
		{name: "invalid log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	str := validConfig().String()
	for _, want := range []string{"Port: 8080", `DefaultSample: "gdp"`, `Level: "info"`} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %s, missing %s", str, want)
		}
	}
}
