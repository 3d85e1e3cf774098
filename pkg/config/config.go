// Package config reads settings from the environment, after loading a .env
// file when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/align"
)

const (
	EnvDB       = "PANGTABLE_DB"
	EnvOutput   = "PANGTABLE_OUTPUT"
	EnvIDTag    = "PANGTABLE_ID_TAG"
	EnvWorkers  = "PANGTABLE_WORKERS"
	EnvAddr     = "PANGTABLE_ADDR"
	EnvLogLevel = "PANGTABLE_LOG_LEVEL"
)

type Config struct {
	DB       string
	Output   string
	IDTag    string
	Workers  int
	Addr     string
	LogLevel zapcore.Level
}

func Default() Config {
	return Config{
		DB:       "./data/pangenome.db",
		Output:   "./output",
		IDTag:    align.DefaultIDTag,
		Workers:  4,
		Addr:     "0.0.0.0:8080",
		LogLevel: zapcore.InfoLevel,
	}
}

// LoadDotenv loads the given .env files, or ./.env by default. A missing
// file is not an error: the process environment is used as is.
func LoadDotenv(files ...string) bool {
	if err := godotenv.Load(files...); err != nil {
		return false
	}
	return true
}

// FromEnv starts from the defaults and applies every variable that is set.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvDB); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output = v
	}
	if v, ok := os.LookupEnv(EnvIDTag); ok {
		cfg.IDTag = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = logger.ParseLevel(v)
	}
	return cfg, nil
}

// Load reads .env (when present) then the environment.
func Load() (Config, error) {
	if !LoadDotenv() {
		logger.Debug("No .env found, using local environment")
	}
	return FromEnv()
}
