package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the talent ledger service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	JWTSecret       string
	AttendanceStep  int
	CascadeStep     int
	WeeklyGrantCap  int
	Holidays        []string
	SummaryCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TALENT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Talent Ledger API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("attendance.step", 10)
	v.SetDefault("cascade.step", 10)
	v.SetDefault("weekly.grant.cap", 5)
	v.SetDefault("holidays", "12-25")
	v.SetDefault("summary.cache.ttl", "1m")

	ttlString := v.GetString("summary.cache.ttl")
	if ttlString == "" {
		ttlString = "1m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		AttendanceStep:  v.GetInt("attendance.step"),
		CascadeStep:     v.GetInt("cascade.step"),
		WeeklyGrantCap:  v.GetInt("weekly.grant.cap"),
		Holidays:        splitList(v.GetString("holidays")),
		SummaryCacheTTL: ttl,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AttendanceStep <= 0 {
		cfg.AttendanceStep = 10
	}
	if cfg.CascadeStep <= 0 {
		cfg.CascadeStep = 10
	}
	if cfg.WeeklyGrantCap <= 0 {
		cfg.WeeklyGrantCap = 5
	}

	return cfg, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
