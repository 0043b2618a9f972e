// Config loading for the orderdesk CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFile     = "config.yaml"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyListenAddr     = "listen_addr"
	cfgKeyRequestTimeout = "request_timeout"
	cfgKeySeedStates     = "seed_states"
	cfgKeyCascade        = "cascade"

	defaultBackend    = "sqlite"
	defaultListenAddr = ":8080"
	defaultTimeout    = 10 * time.Second
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Orderdesk configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Address the REST API listens on
listen_addr: ":8080"

# Per-request deadline; after it a call fails with 503
request_timeout: 10s

# Populate the state collection on first run
seed_states: true

# Per-relationship delete policy: true cascades, false blocks while
# children exist. Unlisted relationships block.
cascade:
  invoice_line_items: true
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run,
// and assembles the types.Config with flag > config > default precedence.
func loadConfig() (types.Config, error) {
	configDir := resolveConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyRequestTimeout, defaultTimeout)
	v.SetDefault(cfgKeySeedStates, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := types.Config{
		Backend:        v.GetString(cfgKeyBackend),
		DataDir:        v.GetString(cfgKeyDataDir),
		ListenAddr:     v.GetString(cfgKeyListenAddr),
		RequestTimeout: v.GetDuration(cfgKeyRequestTimeout),
		SeedStates:     v.GetBool(cfgKeySeedStates),
	}
	if v.IsSet(cfgKeyCascade) {
		cfg.Cascade = types.CascadePolicy{}
		for rel, cascades := range v.GetStringMap(cfgKeyCascade) {
			b, ok := cascades.(bool)
			if !ok {
				return types.Config{}, fmt.Errorf("cascade.%s: expected bool", rel)
			}
			cfg.Cascade[rel] = b
		}
	}

	// Flags take precedence over config values.
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagListenAddr != "" {
		cfg.ListenAddr = flagListenAddr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// resolveConfigDir follows the precedence: --config-dir flag >
// ORDERDESK_CONFIG_DIR env > $(CWD)/.orderdesk.
func resolveConfigDir() string {
	if flagConfigDir != "" {
		return flagConfigDir
	}
	if dir := os.Getenv("ORDERDESK_CONFIG_DIR"); dir != "" {
		return dir
	}
	return ".orderdesk"
}

// defaultDataDir follows the precedence: ORDERDESK_DATA_DIR env >
// $(CWD)/.orderdesk-db.
func defaultDataDir() string {
	if dir := os.Getenv("ORDERDESK_DATA_DIR"); dir != "" {
		return dir
	}
	return ".orderdesk-db"
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFile)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
