package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/internal/integrations/pricing"
	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Ranking    RankingConfig    `toml:"ranking"`
	Jobs       JobsConfig       `toml:"jobs"`
	Pricing    []PricingRow     `toml:"pricing"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulingConfig параметры выдачи слотов клиенту
type SchedulingConfig struct {
	OfferIncrementMinutes int      `toml:"offer_increment_minutes"`
	AdvanceBookingDays    int      `toml:"advance_booking_days"`
	FallbackDays          int      `toml:"fallback_days"`
	FallbackTimes         []string `toml:"fallback_times"`
	RecomputeOnWrite      *bool    `toml:"recompute_on_write"`
}

// RankingConfig параметры бейджей
type RankingConfig struct {
	ConciergeBandPercent *float64 `toml:"concierge_band_percent"`
	MaxParallelLookups   int      `toml:"max_parallel_lookups"`
}

// JobsConfig фоновые задачи (cron-выражения из пяти полей)
type JobsConfig struct {
	Enabled              bool   `toml:"enabled"`
	ReconcileTasksCron   string `toml:"reconcile_tasks_cron"`
	SyncAvailabilityCron string `toml:"sync_availability_cron"`
}

// PricingRow строка статического прайс-листа
type PricingRow struct {
	Slug         string   `toml:"slug"`
	Name         string   `toml:"name"`
	MarketPrice  *float64 `toml:"market_price"`
	OfferedPrice *float64 `toml:"offered_price"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию и валидирует её
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "concierge_service"
	}

	if c.Scheduling.OfferIncrementMinutes == 0 {
		c.Scheduling.OfferIncrementMinutes = domain.DefaultOfferIncrementMinutes
	}
	if c.Scheduling.FallbackDays == 0 {
		c.Scheduling.FallbackDays = domain.DefaultFallbackDays
	}
	if len(c.Scheduling.FallbackTimes) == 0 {
		c.Scheduling.FallbackTimes = append([]string(nil), domain.DefaultFallbackTimes...)
	}
	if c.Scheduling.RecomputeOnWrite == nil {
		enabled := true
		c.Scheduling.RecomputeOnWrite = &enabled
	}

	if c.Ranking.ConciergeBandPercent == nil {
		band := domain.DefaultConciergeBandPercent
		c.Ranking.ConciergeBandPercent = &band
	}
	if c.Ranking.MaxParallelLookups == 0 {
		c.Ranking.MaxParallelLookups = 8
	}

	if c.Jobs.ReconcileTasksCron == "" {
		c.Jobs.ReconcileTasksCron = "*/15 * * * *"
	}
	if c.Jobs.SyncAvailabilityCron == "" {
		c.Jobs.SyncAvailabilityCron = "0 * * * *"
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var errs []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.http_port %d is out of range", c.Server.HTTPPort))
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}

	s := c.Scheduling
	if s.OfferIncrementMinutes < domain.MinOfferIncrementMinutes || s.OfferIncrementMinutes > domain.MaxOfferIncrementMinutes {
		errs = append(errs, fmt.Sprintf("scheduling.offer_increment_minutes must be between %d and %d",
			domain.MinOfferIncrementMinutes, domain.MaxOfferIncrementMinutes))
	}
	if s.AdvanceBookingDays < domain.MinAdvanceBookingDays || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		errs = append(errs, fmt.Sprintf("scheduling.advance_booking_days must be between %d and %d",
			domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays))
	}
	if s.FallbackDays < 1 || s.FallbackDays > domain.MaxListRangeDays {
		errs = append(errs, fmt.Sprintf("scheduling.fallback_days must be between 1 and %d", domain.MaxListRangeDays))
	}
	if _, err := c.FallbackTimes(); err != nil {
		errs = append(errs, fmt.Sprintf("scheduling.fallback_times: %v", err))
	}

	if *c.Ranking.ConciergeBandPercent < 0 || *c.Ranking.ConciergeBandPercent > 100 {
		errs = append(errs, "ranking.concierge_band_percent must be between 0 and 100")
	}
	if c.Ranking.MaxParallelLookups < 1 {
		errs = append(errs, "ranking.max_parallel_lookups must be positive")
	}

	if c.Jobs.Enabled {
		if _, err := cron.ParseStandard(c.Jobs.ReconcileTasksCron); err != nil {
			errs = append(errs, fmt.Sprintf("jobs.reconcile_tasks_cron: %v", err))
		}
		if _, err := cron.ParseStandard(c.Jobs.SyncAvailabilityCron); err != nil {
			errs = append(errs, fmt.Sprintf("jobs.sync_availability_cron: %v", err))
		}
	}

	seen := make(map[string]struct{}, len(c.Pricing))
	for i, row := range c.Pricing {
		slug := strings.ToLower(strings.TrimSpace(row.Slug))
		if slug == "" {
			errs = append(errs, fmt.Sprintf("pricing[%d].slug is required", i))
			continue
		}
		if _, dup := seen[slug]; dup {
			errs = append(errs, fmt.Sprintf("pricing[%d]: duplicate slug %q", i, slug))
		}
		seen[slug] = struct{}{}
		if (row.MarketPrice != nil && *row.MarketPrice < 0) || (row.OfferedPrice != nil && *row.OfferedPrice < 0) {
			errs = append(errs, fmt.Sprintf("pricing[%d]: prices must not be negative", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// FallbackTimes ориентировочные времена, разобранные в TimeString ("9:00 AM" или "09:00")
func (c *Config) FallbackTimes() ([]types.TimeString, error) {
	result := make([]types.TimeString, 0, len(c.Scheduling.FallbackTimes))
	for _, raw := range c.Scheduling.FallbackTimes {
		t, err := types.ParseAny(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

// SlotDefaults значения настроек слотов по умолчанию
func (c *Config) SlotDefaults() domain.SlotSettings {
	return domain.SlotSettings{
		OfferIncrementMinutes: c.Scheduling.OfferIncrementMinutes,
		AdvanceBookingDays:    c.Scheduling.AdvanceBookingDays,
	}
}

// PricingProcedures строки прайс-листа; пустой список означает встроенный прайс-лист
func (c *Config) PricingProcedures() []pricing.Procedure {
	rows := make([]pricing.Procedure, 0, len(c.Pricing))
	for _, row := range c.Pricing {
		rows = append(rows, pricing.Procedure{
			Slug:         row.Slug,
			Name:         row.Name,
			MarketPrice:  row.MarketPrice,
			OfferedPrice: row.OfferedPrice,
		})
	}
	return rows
}
