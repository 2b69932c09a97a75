// Package cli holds the environment and logging setup shared by the
// command-line tools.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables read by the tools.
const (
	EnvSeed     = "CACHESIM_SEED"
	EnvLogLevel = "CACHESIM_LOG_LEVEL"
)

// LoadEnv loads .env from the working directory if there is one. Variables
// already set in the environment win.
func LoadEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to load .env: %w", err)
}

// SeedFromEnv returns the seed in CACHESIM_SEED. The second value is false
// when the variable is unset.
func SeedFromEnv() (uint64, bool, error) {
	v, ok := os.LookupEnv(EnvSeed)
	if !ok || v == "" {
		return 0, false, nil
	}

	seed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
	}

	return seed, true, nil
}

// LogLevelDefault returns CACHESIM_LOG_LEVEL, or "info".
func LogLevelDefault() string {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}

	return logrus.InfoLevel.String()
}

// NewLogger creates a stderr logger at the given level.
func NewLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)

	return log, nil
}
