package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dangunter/alsdata/shape"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  slog.Level
	Server    string
	Addr      string
	MaxDepth  int
	IDKey     string
	CacheSize int
}

// Load reads the environment, after loading a .env file from the working
// directory if there is one.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("ALSDATA_LOG", "info"))); err != nil {
		return nil, fmt.Errorf("ALSDATA_LOG: %w", err)
	}

	maxDepth, err := getEnvInt("ALSDATA_MAX_DEPTH", shape.DefaultMaxDepth)
	if err != nil {
		return nil, err
	}

	cacheSize, err := getEnvInt("ALSDATA_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel:  level,
		Server:    strings.TrimRight(getEnv("ALSDATA_SERVER", ""), "/"),
		Addr:      getEnv("ALSDATA_ADDR", ":8080"),
		MaxDepth:  maxDepth,
		IDKey:     getEnv("ALSDATA_ID_KEY", shape.DefaultIDKey),
		CacheSize: cacheSize,
	}, nil
}

func (c *Config) BuilderOptions() []shape.Option {
	return []shape.Option{
		shape.WithIDKey(c.IDKey),
		shape.WithMaxDepth(c.MaxDepth),
	}
}

// SetupLogging installs a text handler on stderr as the default logger.
func SetupLogging(level slog.Level) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: expected a positive integer, got %q", key, val)
	}
	return n, nil
}
