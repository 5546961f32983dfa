package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/obsenv-labs/obsenv/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys. Each can be overridden by an OBSENV_* environment
// variable (dots become underscores).
const (
	KeyEnvPath          = "env_path"
	KeySetupFileName    = "setup_file_name"
	KeySummaryLog       = "summary_log"
	KeySetupDialect     = "setup_dialect"
	KeyTelemetryURL     = "telemetry.url"
	KeyTelemetryTimeout = "telemetry.timeout"
)

// Dir returns the path to the obsenv config directory (~/.obsenv/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.obsenv/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyEnvPath, "/obs-env")
	viper.SetDefault(KeySetupFileName, "auto_env_setup.sh")
	viper.SetDefault(KeySetupDialect, "bash")
	viper.SetDefault(KeySummaryLog, filepath.Join(Dir(), "actions.log"))
	viper.SetDefault(KeyTelemetryTimeout, 5*time.Second)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetDuration returns a duration config value by key.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
