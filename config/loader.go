package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOptions tune Load behavior.
type LoaderOptions struct {
	// EnvFile is an explicit .env path. Empty means look for a .env next
	// to the config file.
	EnvFile string
	// EnvPrefix scopes environment-variable overrides, e.g. "PROBEKIT"
	// makes PROBEKIT_SUITE override "suite". Empty disables overrides.
	EnvPrefix string
}

// Load reads a suite configuration file.
func Load(path string) (*Suite, error) {
	return LoadWithOptions(path, LoaderOptions{})
}

// LoadWithOptions reads a suite configuration file with explicit options.
func LoadWithOptions(path string, opts LoaderOptions) (*Suite, error) {
	loadEnvFile(path, opts)

	v := viper.New()
	v.SetConfigFile(path)
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var suite Suite
	if err := v.Unmarshal(&suite); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if suite.Name == "" {
		base := filepath.Base(path)
		suite.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	suite.Logging.ApplyDefaults()
	if err := suite.Logging.Validate(); err != nil {
		return nil, err
	}

	return &suite, nil
}

// loadEnvFile loads the explicit env file, or a .env sitting next to the
// config file. A missing file is fine.
func loadEnvFile(configPath string, opts LoaderOptions) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = filepath.Join(filepath.Dir(configPath), ".env")
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}
}
