package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/benoctopus/track/internal/logging"
	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	DataDir      string               `yaml:"data_dir"`
	DeletePolicy track.DeletionPolicy `yaml:"delete_policy"` // "reject", "cascade", "orphan"
	Timezone     string               `yaml:"timezone"`      // IANA name, "Local" or empty for the system zone
	FuzzyFinder  string               `yaml:"fuzzy_finder"`  // "fzf", "peco", "auto"
	LogLevel     string               `yaml:"log_level"`     // "debug", "info", "warn", "error"
}

// configFile represents the YAML config file structure
type configFile struct {
	Version      string `yaml:"version"`
	DataDir      string `yaml:"data_dir,omitempty"`
	DeletePolicy string `yaml:"delete_policy,omitempty"`
	Timezone     string `yaml:"timezone,omitempty"`
	FuzzyFinder  string `yaml:"fuzzy_finder,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
}

const (
	// CurrentConfigVersion is the current version of the config file format
	CurrentConfigVersion = "1"

	appName = "track"
)

// Environment variables overriding the config file
const (
	EnvDataDir      = "TRACK_DATA_DIR"
	EnvDeletePolicy = "TRACK_DELETE_POLICY"
	EnvTimezone     = "TRACK_TIMEZONE"
	EnvFuzzyFinder  = "TRACK_FUZZY_FINDER"
	EnvLogLevel     = "TRACK_LOG_LEVEL"
)

// GetConfigDir returns the OS-specific config directory for track
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", eris.Wrap(err, "failed to get user home directory")
		}
		baseDir = filepath.Join(home, "Library", "Application Support")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", eris.New("APPDATA environment variable not set")
		}
		baseDir = appData
	default: // linux and others
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = xdgConfigHome
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", eris.Wrap(err, "failed to get user home directory")
			}
			baseDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(baseDir, appName), nil
}

// defaultDataDir follows XDG_DATA_HOME on linux and shares the config
// directory elsewhere
func defaultDataDir() (string, error) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return GetConfigDir()
	}

	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// GetDataDir returns the data directory with configuration hierarchy
func GetDataDir() (string, error) {
	// 1. Environment variable (highest priority)
	if envDir := os.Getenv(EnvDataDir); envDir != "" {
		return expandHome(envDir)
	}

	// 2. Config file
	config, err := loadConfigFile()
	if err == nil && config.DataDir != "" {
		return expandHome(config.DataDir)
	}

	// 3. Default (lowest priority)
	return defaultDataDir()
}

// GetDeletePolicy returns the activity deletion policy with configuration hierarchy
func GetDeletePolicy() (track.DeletionPolicy, error) {
	return track.ParseDeletionPolicy(resolve(EnvDeletePolicy, func(c *configFile) string { return c.DeletePolicy }, ""))
}

// GetTimezone returns the timezone name with configuration hierarchy
func GetTimezone() string {
	return resolve(EnvTimezone, func(c *configFile) string { return c.Timezone }, "Local")
}

// GetFuzzyFinder returns the fuzzy finder with configuration hierarchy
func GetFuzzyFinder() string {
	return resolve(EnvFuzzyFinder, func(c *configFile) string { return c.FuzzyFinder }, "auto")
}

// GetLogLevel returns the log level with configuration hierarchy
func GetLogLevel() string {
	return resolve(EnvLogLevel, func(c *configFile) string { return c.LogLevel }, logging.DefaultLevel)
}

// resolve applies env > file > default to one string setting
func resolve(env string, field func(*configFile) string, fallback string) string {
	if value := os.Getenv(env); value != "" {
		return value
	}

	config, err := loadConfigFile()
	if err == nil {
		if value := field(config); value != "" {
			return value
		}
	}

	return fallback
}

// GetDBPath returns the full path to the SQLite database
func (c *Config) GetDBPath() string {
	return filepath.Join(c.DataDir, "track.db")
}

// GetLockPath returns the full path to the lock file guarding the database
func (c *Config) GetLockPath() string {
	return filepath.Join(c.DataDir, "track.lock")
}

// Location returns the configured timezone, falling back to the system zone
func (c *Config) Location() *time.Location {
	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// EnsureDataDir creates the data directory if it doesn't exist
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create data directory: %s", c.DataDir)
	}
	return nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return eris.Wrap(err, "failed to get config directory")
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create config directory: %s", configDir)
	}

	return nil
}

// LoadConfig loads the full configuration with all settings resolved
func LoadConfig() (*Config, error) {
	if _, err := loadConfigFile(); err != nil {
		return nil, err
	}

	dataDir, err := GetDataDir()
	if err != nil {
		return nil, eris.Wrap(err, "failed to get data directory")
	}

	policy, err := GetDeletePolicy()
	if err != nil {
		return nil, eris.Wrap(err, "failed to get delete policy")
	}

	config := &Config{
		DataDir:      dataDir,
		DeletePolicy: policy,
		Timezone:     GetTimezone(),
		FuzzyFinder:  GetFuzzyFinder(),
		LogLevel:     GetLogLevel(),
	}
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadConfigFile loads the config file from disk (internal helper)
func loadConfigFile() (*configFile, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// If config file doesn't exist, return empty config (not an error)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &configFile{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read config file: %s", configPath)
	}

	var config configFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, eris.Wrapf(err, "failed to parse config file: %s", configPath)
	}

	return &config, nil
}

// expandHome expands ~ to the user's home directory in a path
func expandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get user home directory")
	}

	if len(path) == 1 {
		return home, nil
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid timezone: %s", name)
	}
	return loc, nil
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get config directory")
	}

	return filepath.Join(configDir, "config.yaml"), nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return eris.Wrap(err, "failed to get config path")
	}

	if err := EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	cf := configFile{
		Version:      CurrentConfigVersion,
		DataDir:      config.DataDir,
		DeletePolicy: string(config.DeletePolicy),
		Timezone:     config.Timezone,
		FuzzyFinder:  config.FuzzyFinder,
		LogLevel:     config.LogLevel,
	}

	data, err := yaml.Marshal(&cf)
	if err != nil {
		return eris.Wrap(err, "failed to marshal config to YAML")
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return eris.Wrapf(err, "failed to write config file: %s", configPath)
	}

	return nil
}

// ValidateConfig validates the configuration settings
func ValidateConfig(config *Config) error {
	if config.FuzzyFinder != "" && config.FuzzyFinder != "auto" {
		validFinders := []string{"fzf", "peco"}
		valid := false
		for _, finder := range validFinders {
			if config.FuzzyFinder == finder {
				valid = true
				break
			}
		}
		if !valid {
			return eris.Errorf("invalid fuzzy_finder: %s (must be one of: auto, fzf, peco)", config.FuzzyFinder)
		}
	}

	if _, err := track.ParseDeletionPolicy(string(config.DeletePolicy)); err != nil {
		return err
	}

	if _, err := loadLocation(config.Timezone); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(config.LogLevel); err != nil {
		return err
	}

	if config.DataDir != "" {
		if _, err := expandHome(config.DataDir); err != nil {
			return eris.Wrap(err, "invalid data_dir")
		}
	}

	return nil
}

// ValidateConfigFile validates a config file at the given path
func ValidateConfigFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return eris.Wrapf(err, "failed to read config file: %s", configPath)
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return eris.Wrapf(err, "failed to parse config file: %s", configPath)
	}

	if cf.Version != "" && cf.Version != CurrentConfigVersion {
		return eris.Errorf("unsupported config version: %s (expected %s)", cf.Version, CurrentConfigVersion)
	}

	return ValidateConfig(&Config{
		DataDir:      cf.DataDir,
		DeletePolicy: track.DeletionPolicy(cf.DeletePolicy),
		Timezone:     cf.Timezone,
		FuzzyFinder:  cf.FuzzyFinder,
		LogLevel:     cf.LogLevel,
	})
}
