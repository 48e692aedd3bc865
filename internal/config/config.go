// Package config loads the application's connection parameters. The
// Firebase block decides, once at startup, whether the app talks to the
// real document store or to the in-memory mock.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// APIKeyPlaceholder is the value shipped in config templates; it counts
// as "not configured".
const APIKeyPlaceholder = "your_api_key_here"

// FirebaseConfig holds the hosted-backend connection parameters.
type FirebaseConfig struct {
	ProjectID         string `mapstructure:"project_id" yaml:"project_id"`
	APIKey            string `mapstructure:"api_key" yaml:"api_key"`
	AuthDomain        string `mapstructure:"auth_domain" yaml:"auth_domain"`
	StorageBucket     string `mapstructure:"storage_bucket" yaml:"storage_bucket"`
	MessagingSenderID string `mapstructure:"messaging_sender_id" yaml:"messaging_sender_id"`
	AppID             string `mapstructure:"app_id" yaml:"app_id"`
}

// Configured reports whether a real credential set is present. A
// missing or placeholder API key selects mock mode for the whole
// process lifetime.
func (f FirebaseConfig) Configured() bool {
	return f.APIKey != "" && f.APIKey != APIKeyPlaceholder && f.ProjectID != ""
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Firebase FirebaseConfig `mapstructure:"firebase" yaml:"firebase"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	LogFile  string         `mapstructure:"log_file" yaml:"log_file"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/haru/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "haru", "config.yaml")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Display: DisplayConfig{Theme: "default"},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with HARU_ override file values
// (HARU_FIREBASE_API_KEY and friends). A missing file yields the
// default configuration, which runs the app in mock mode.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("display.theme", "default")
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.api_key", "")

	v.SetEnvPrefix("HARU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return applyEnv(v, defaultAppConfig())
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return applyEnv(v, defaultAppConfig())
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv fills cfg from environment overrides when no file exists.
// AutomaticEnv only resolves keys on read, so pull them explicitly.
func applyEnv(v *viper.Viper, cfg *AppConfig) (*AppConfig, error) {
	cfg.Firebase.ProjectID = v.GetString("firebase.project_id")
	cfg.Firebase.APIKey = v.GetString("firebase.api_key")
	cfg.Firebase.AuthDomain = v.GetString("firebase.auth_domain")
	cfg.Firebase.StorageBucket = v.GetString("firebase.storage_bucket")
	cfg.Firebase.MessagingSenderID = v.GetString("firebase.messaging_sender_id")
	cfg.Firebase.AppID = v.GetString("firebase.app_id")
	cfg.LogFile = v.GetString("log_file")
	return cfg, nil
}

// Save writes the given configuration to a YAML file at path, creating
// parent directories if needed.
func Save(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("firebase", cfg.Firebase)
	v.Set("display", cfg.Display)
	v.Set("log_file", cfg.LogFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
