// Package config loads typed configuration from the environment. Before
// reading, a local .env file (or the one named with -env-file) is exported
// into the process environment, so development setups need no shell
// exports.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	envFile  string
	flagOnce sync.Once
)

// MustNew is New or panic. Configuration loads once at startup; there is
// nothing sensible to do with a broken one.
func MustNew[T any](prefix string) *T {
	cfg, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return cfg
}

// New exports the env file and fills a T from PREFIX_* variables per its
// envconfig tags.
func New[T any](prefix string) (*T, error) {
	if path := envFilePath(); path != "" {
		if err := exportEnv(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else if err := exportEnvIfPresent(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg T
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("read %s configuration: %w", prefix, err)
	}
	return &cfg, nil
}

func envFilePath() string {
	flagOnce.Do(func() {
		if flag.Lookup("env-file") == nil {
			flag.StringVar(&envFile, "env-file", "", "env file exported before reading configuration")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	return strings.TrimSpace(envFile)
}

func exportEnvIfPresent(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case info.IsDir():
		return nil
	}
	return exportEnv(path)
}

// exportEnv reads path with viper and mirrors every key into the process
// environment, uppercased, where envconfig will find it.
func exportEnv(path string) error {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	for key, value := range viper.AllSettings() {
		if err := os.Setenv(strings.ToUpper(key), fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}
