package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	InternalToken        string
	CORSAllowOrigin      []string
	FontDir              string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	LogFormat            string
	LogLevel             string
	MetricsNamespace     string
}

// Load reads the environment, after merging an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (Config, error) {
	cfg := Config{
		HTTPAddr:         str(k, "HTTP_ADDR", ":8080"),
		DatabaseURL:      k.String("DATABASE_URL"),
		InternalToken:    k.String("INTERNAL_TOKEN"),
		CORSAllowOrigin:  splitAndTrim(str(k, "CORS_ALLOWED_ORIGINS", "*")),
		FontDir:          k.String("FONT_DIR"),
		LogFormat:        str(k, "LOG_FORMAT", "json"),
		LogLevel:         str(k, "LOG_LEVEL", "info"),
		MetricsNamespace: str(k, "METRICS_NAMESPACE", "estimate"),
	}

	var err error
	if cfg.SessionTTL, err = duration(k, "SESSION_TTL", "30m"); err != nil {
		return Config{}, err
	}
	if cfg.SessionSweepInterval, err = duration(k, "SESSION_SWEEP_INTERVAL", "1m"); err != nil {
		return Config{}, err
	}
	if cfg.SessionSweepInterval <= 0 {
		return Config{}, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	return cfg, nil
}

func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func str(k *koanf.Koanf, key, def string) string {
	if v := strings.TrimSpace(k.String(key)); v != "" {
		return v
	}
	return def
}

func duration(k *koanf.Koanf, key, def string) (time.Duration, error) {
	v := str(k, key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitAndTrim(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
