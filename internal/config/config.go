// Package config resolves process configuration from .env files, environment
// variables, command-line flags and an optional engine YAML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"calcforge/internal/roi"
)

// Defaults
const (
	DefaultAddr        = ":8000"
	DefaultMetricsAddr = ":9090"
	DefaultCacheTTL    = 15 * time.Minute
	DefaultCORSOrigins = "http://localhost:3000,http://localhost:5173"
)

// Server holds the resolved server configuration.
type Server struct {
	Addr        string
	MetricsAddr string

	// Cache. An empty RedisAddr selects the in-memory store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	CORSOrigins []string
	ChromePath  string

	EngineConfigPath string
	Engine           roi.Config
}

// LoadEnvFile loads variables from the given .env files (default ".env").
// Missing files are ignored; variables already set in the environment win.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ParseServer parses server flags. Environment variables read through getenv
// provide the flag defaults.
func ParseServer(fsys *flag.FlagSet, args []string, getenv func(string) string) (*Server, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	addr := fsys.String("addr", envOr(getenv, "CALCFORGE_ADDR", DefaultAddr), "API listen address")
	metricsAddr := fsys.String("metrics-addr", envOr(getenv, "CALCFORGE_METRICS_ADDR", DefaultMetricsAddr), "Prometheus metrics HTTP address")
	redisAddr := fsys.String("redis-addr", getenv("REDIS_ADDR"), "Redis address for the result cache (empty = in-memory)")
	redisPassword := fsys.String("redis-password", getenv("REDIS_PASSWORD"), "Redis password")
	redisDB := fsys.Int("redis-db", 0, "Redis database number")
	cacheTTLRaw := fsys.String("cache-ttl", envOr(getenv, "CALCFORGE_CACHE_TTL", DefaultCacheTTL.String()), "Result cache TTL (0 = no expiry)")
	engineConfig := fsys.String("engine-config", getenv("CALCFORGE_ENGINE_CONFIG"), "Path to engine YAML config")
	corsOrigins := fsys.String("cors-origins", envOr(getenv, "CALCFORGE_CORS_ORIGINS", DefaultCORSOrigins), "Comma-separated allowed CORS origins")
	chromePath := fsys.String("chrome-path", getenv("CHROME_PATH"), "Chromium binary for PDF export (empty = auto-detect)")

	if err := fsys.Parse(args); err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(*cacheTTLRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid --cache-ttl %q: %w", *cacheTTLRaw, err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("invalid --cache-ttl %q: must not be negative", *cacheTTLRaw)
	}

	engine, err := LoadEngineConfig(*engineConfig)
	if err != nil {
		return nil, err
	}

	return &Server{
		Addr:             *addr,
		MetricsAddr:      *metricsAddr,
		RedisAddr:        *redisAddr,
		RedisPassword:    *redisPassword,
		RedisDB:          *redisDB,
		CacheTTL:         ttl,
		CORSOrigins:      SplitList(*corsOrigins),
		ChromePath:       *chromePath,
		EngineConfigPath: *engineConfig,
		Engine:           engine,
	}, nil
}

// LoadEngineConfig reads engine tuning from a YAML file.
// An empty path returns roi.DefaultConfig().
func LoadEngineConfig(path string) (roi.Config, error) {
	if path == "" {
		return roi.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return roi.Config{}, fmt.Errorf("open engine config: %w", err)
	}
	defer f.Close()

	cfg, err := ParseEngineConfig(f)
	if err != nil {
		return roi.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseEngineConfig decodes YAML over roi.DefaultConfig(). Missing keys keep
// their defaults; unknown keys are rejected.
func ParseEngineConfig(r io.Reader) (roi.Config, error) {
	cfg := roi.DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return roi.Config{}, fmt.Errorf("decode engine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return roi.Config{}, err
	}
	return cfg, nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}
