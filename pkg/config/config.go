// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"kflow/pkg/domain"
)

// Config - главная структура конфигурации
type Config struct {
	App      AppConfig      `koanf:"app"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Tracing  TracingConfig  `koanf:"tracing"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Solver   SolverConfig   `koanf:"solver"`
	History  HistoryConfig  `koanf:"history"`
	Report   ReportConfig   `koanf:"report"`
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // путь к файлу логов
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // количество бэкапов
	MaxAge     int    `koanf:"max_age"`     // дней
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - настройки Prometheus метрик
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
	// Textfile путь для textfile collector node-exporter, пусто - не писать
	Textfile string `koanf:"textfile"`
}

// TracingConfig - настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
	Insecure    bool    `koanf:"insecure"`
}

// DatabaseConfig - настройки базы данных
type DatabaseConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Database        string        `koanf:"database"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`

	// ConnectTimeout ограничивает установку одного соединения
	ConnectTimeout   time.Duration `koanf:"connect_timeout"`
	// StatementTimeout передаётся серверу как statement_timeout, 0 без ограничения
	StatementTimeout time.Duration `koanf:"statement_timeout"`
	// ApplicationName виден в pg_stat_activity
	ApplicationName  string        `koanf:"application_name"`
}

// DSN возвращает строку подключения
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode,
	)
}

// CacheConfig - настройки кэширования решений
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	PoolSize   int           `koanf:"pool_size"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // для in-memory
}

// Address возвращает адрес кэша
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SolverConfig - параметры решателя
type SolverConfig struct {
	Timeout            time.Duration `koanf:"timeout"` // 0 - без ограничения
	Directed           bool          `koanf:"directed"`
	TrackDistances     bool          `koanf:"track_distances"`
	VerifyConservation bool          `koanf:"verify_conservation"`
}

// HistoryConfig - хранение истории запусков
type HistoryConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Driver    string `koanf:"driver"` // memory, postgres
	ListLimit int    `koanf:"list_limit"`
}

// ReportConfig - параметры отчётов
type ReportConfig struct {
	Format   string `koanf:"format"`
	Title    string `koanf:"title"`
	Author   string `koanf:"author"`
	Decimals int    `koanf:"decimals"`
}

var (
	validLevels        = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"json", "text"}
	validLogOutputs    = []string{"stdout", "stderr", "file"}
	validCacheDrivers  = []string{"memory", "redis"}
	validHistoryDriver = []string{"memory", "postgres"}
)

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	errs = checkOneOf(errs, "log.level", strings.ToLower(c.Log.Level), validLevels)
	errs = checkOneOf(errs, "log.format", c.Log.Format, validLogFormats)
	errs = checkOneOf(errs, "log.output", c.Log.Output, validLogOutputs)

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Sprintf("tracing.sample_rate must be in [0, 1], got %g", c.Tracing.SampleRate))
	}

	if c.Database.Enabled && (c.Database.Port <= 0 || c.Database.Port > 65535) {
		errs = append(errs, fmt.Sprintf("database.port must be between 1 and 65535, got %d", c.Database.Port))
	}
	if c.Database.Enabled && c.Database.StatementTimeout < 0 {
		errs = append(errs, fmt.Sprintf("database.statement_timeout must be non-negative, got %s", c.Database.StatementTimeout))
	}

	if c.Cache.Enabled {
		errs = checkOneOf(errs, "cache.driver", c.Cache.Driver, validCacheDrivers)
		if c.Cache.Driver == "memory" && c.Cache.MaxEntries <= 0 {
			errs = append(errs, fmt.Sprintf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries))
		}
	}
	if c.Cache.DefaultTTL < 0 {
		errs = append(errs, "cache.default_ttl must be non-negative")
	}

	if c.Solver.Timeout < 0 {
		errs = append(errs, "solver.timeout must be non-negative")
	}

	if c.History.Enabled {
		errs = checkOneOf(errs, "history.driver", c.History.Driver, validHistoryDriver)
		if c.History.Driver == "postgres" && !c.Database.Enabled {
			errs = append(errs, "history.driver postgres requires database.enabled")
		}
	}
	if c.History.ListLimit < 0 {
		errs = append(errs, "history.list_limit must be non-negative")
	}

	if !domain.IsSupportedFormat(c.Report.Format) {
		errs = append(errs, fmt.Sprintf("report.format must be one of %s, got %q",
			strings.Join(domain.SupportedFormats, ", "), c.Report.Format))
	}
	if c.Report.Decimals < 0 || c.Report.Decimals > 12 {
		errs = append(errs, fmt.Sprintf("report.decimals must be in [0, 12], got %d", c.Report.Decimals))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

func checkOneOf(errs []string, key, value string, allowed []string) []string {
	for _, a := range allowed {
		if value == a {
			return errs
		}
	}
	return append(errs, fmt.Sprintf("%s must be one of: %s, got %q", key, strings.Join(allowed, ", "), value))
}

// IsDevelopment проверяет режим разработки
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction проверяет продакшн режим
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
