// Package config reads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables
const (
	EnvAddr    = "RCCHECK_ADDR"
	EnvWorkers = "RCCHECK_WORKERS"
	EnvRate    = "RCCHECK_RATE"
	EnvBurst   = "RCCHECK_BURST"
)

// Config holds the settings of rccheck serve.
type Config struct {
	Addr    string  // listen address
	Workers int     // rows evaluated at once per batch, 0 means GOMAXPROCS
	Rate    float64 // requests per second per client address
	Burst   int     // requests a client may send at once
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:  ":8080",
		Rate:  5,
		Burst: 10,
	}
}

// Load reads .env from the working directory, if present, then the
// environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[rccheck] ignoring .env: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup, starting from Default.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s must be a non-negative integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v := getenv(EnvRate); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive number, got %q", EnvRate, v)
		}
		cfg.Rate = r
	}
	if v := getenv(EnvBurst); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", EnvBurst, v)
		}
		cfg.Burst = n
	}
	return cfg, nil
}
