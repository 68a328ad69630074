/*
Package config manages TOML config for prefixserve.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/prefixserve/internal/utils"
	"github.com/charmbracelet/log"
)

const appDirName = "prefixserve"

// Config holds the entire config structure
type Config struct {
	Dict   DictConfig   `toml:"dict"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path     string `toml:"path"`
	MaxWords int    `toml:"max_words"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxPrefix    int     `toml:"max_prefix"`
	DefaultLimit int     `toml:"default_limit"`
	MaxLimit     int     `toml:"max_limit"`
	RateLimit    float64 `toml:"rate_limit"`
	Burst        int     `toml:"burst"`
	MetricsAddr  string  `toml:"metrics_addr"`
	WatchConfig  bool    `toml:"watch_config"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Sentinel       string `toml:"sentinel"`
	MaxPrefix      int    `toml:"max_prefix"`
	TopLimit       int    `toml:"top_limit"`
	ShowDefinition bool   `toml:"show_definition"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", appDirName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appDirName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/prefixserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dict: DictConfig{
			Path:     "dictionary.txt",
			MaxWords: 0,
		},
		Server: ServerConfig{
			MaxPrefix:    60,
			DefaultLimit: 10,
			MaxLimit:     64,
			RateLimit:    0,
			Burst:        32,
			MetricsAddr:  "",
			WatchConfig:  true,
		},
		CLI: CliConfig{
			Sentinel:       "***",
			MaxPrefix:      60,
			TopLimit:       10,
			ShowDefinition: true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps whatever sections of a broken file still parse
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		dict.MaxWords = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_limit"); ok {
		server.RateLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "burst"); ok {
		server.Burst = val
	}
	if val, ok := utils.ExtractString(data, "metrics_addr"); ok {
		server.MetricsAddr = val
	}
	if val, ok := utils.ExtractBool(data, "watch_config"); ok {
		server.WatchConfig = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "sentinel"); ok {
		cli.Sentinel = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		cli.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "top_limit"); ok {
		cli.TopLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_definition"); ok {
		cli.ShowDefinition = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
