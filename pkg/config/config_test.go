package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:     AppConfig{Name: "kflow"},
		Log:     LogConfig{Level: "info", Format: "text", Output: "stderr"},
		Tracing: TracingConfig{SampleRate: 1},
		Cache:   CacheConfig{Driver: "memory", MaxEntries: 16},
		History: HistoryConfig{Driver: "memory", ListLimit: 20},
		Report:  ReportConfig{Format: "text", Decimals: 6},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: "app.name is required",
		},
		{
			name:   "empty log level defaults to info",
			mutate: func(c *Config) { c.Log.Level = "" },
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level must be one of",
		},
		{
			name:    "invalid log output",
			mutate:  func(c *Config) { c.Log.Output = "syslog" },
			wantErr: "log.output must be one of",
		},
		{
			name:    "sample rate out of range",
			mutate:  func(c *Config) { c.Tracing.SampleRate = 1.5 },
			wantErr: "tracing.sample_rate",
		},
		{
			name: "database port checked when enabled",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Port = 70000
			},
			wantErr: "database.port",
		},
		{
			name: "negative statement timeout",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.StatementTimeout = -time.Second
			},
			wantErr: "database.statement_timeout",
		},
		{
			name: "unknown cache driver",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.Driver = "memcached"
			},
			wantErr: "cache.driver must be one of",
		},
		{
			name: "memory cache needs entries",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.MaxEntries = 0
			},
			wantErr: "cache.max_entries",
		},
		{
			name:    "negative solver timeout",
			mutate:  func(c *Config) { c.Solver.Timeout = -time.Second },
			wantErr: "solver.timeout",
		},
		{
			name: "postgres history needs database",
			mutate: func(c *Config) {
				c.History.Enabled = true
				c.History.Driver = "postgres"
			},
			wantErr: "requires database.enabled",
		},
		{
			name:    "unknown report format",
			mutate:  func(c *Config) { c.Report.Format = "html" },
			wantErr: "report.format must be one of",
		},
		{
			name:    "decimals out of range",
			mutate:  func(c *Config) { c.Report.Decimals = 20 },
			wantErr: "report.decimals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Report.Format = "html"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "app.name") || !strings.Contains(err.Error(), "report.format") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		Database: "kflow",
		Username: "u",
		Password: "p",
		SSLMode:  "require",
	}

	want := "host=db port=5433 user=u password=p dbname=kflow sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestCacheConfig_Address(t *testing.T) {
	c := CacheConfig{Host: "redis", Port: 6380}
	if got := c.Address(); got != "redis:6380" {
		t.Errorf("Address() = %q", got)
	}
}

func TestConfig_Environment(t *testing.T) {
	c := Config{App: AppConfig{Environment: "dev"}}
	if !c.IsDevelopment() || c.IsProduction() {
		t.Error("dev should be development only")
	}

	c.App.Environment = "production"
	if c.IsDevelopment() || !c.IsProduction() {
		t.Error("production should be production only")
	}
}
