package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the hpick configuration.
type Config struct {
	History HistoryConfig `yaml:"history"`
	Picker  PickerConfig  `yaml:"picker"`
	Log     LogConfig     `yaml:"log"`
}

// HistoryConfig controls where history is read from and how much of it.
type HistoryConfig struct {
	Shell      string `yaml:"shell"`       // auto, zsh, bash, or fish
	File       string `yaml:"file"`        // History file path (overrides HISTFILE)
	MaxEntries int    `yaml:"max_entries"` // Most recent records kept (0 = unlimited)
}

// PickerConfig holds interactive picker settings.
type PickerConfig struct {
	Matcher    string              `yaml:"matcher"`     // native or sahilm
	Layout     string              `yaml:"layout"`      // default or reverse
	ShowTime   bool                `yaml:"show_time"`   // Show relative age of each record
	ResultFile string              `yaml:"result_file"` // Hand-off file (overrides default)
	Keys       map[string][]string `yaml:"keys"`        // Logical action -> key names
}

// LogConfig holds debug logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	File       string `yaml:"file"`        // Log file path; empty disables file logging
	MaxSizeMB  int    `yaml:"max_size_mb"` // Rotate after this many megabytes
	MaxBackups int    `yaml:"max_backups"` // Rotated files to keep
}

// Key actions accepted in picker.keys.
var keyActions = []string{"up", "down", "toggle_mode", "accept", "execute", "cancel", "delete", "clear"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Shell:      "auto",
			File:       "",
			MaxEntries: 50000,
		},
		Picker: PickerConfig{
			Matcher:    "native",
			Layout:     "default",
			ShowTime:   false,
			ResultFile: "", // Use default from paths
		},
		Log: LogConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := LoadStored(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// LoadStored loads the configuration as stored in the file, without
// environment overrides. Use it when the result is saved back.
func LoadStored(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResultFile returns the hand-off file path, falling back to the default
// location under the cache directory.
func (c *Config) ResultFile() string {
	if c.Picker.ResultFile != "" {
		return c.Picker.ResultFile
	}
	return DefaultPaths().ResultFile()
}

// Get retrieves a configuration value by dot-separated key.
// For example: "picker.matcher" or "history.max_entries"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "history":
		return c.getHistoryField(field)
	case "picker":
		return c.getPickerField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "history":
		return c.setHistoryField(field, value)
	case "picker":
		return c.setPickerField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getHistoryField(field string) (string, error) {
	switch field {
	case "shell":
		return c.History.Shell, nil
	case "file":
		return c.History.File, nil
	case "max_entries":
		return strconv.Itoa(c.History.MaxEntries), nil
	default:
		return "", fmt.Errorf("unknown field: history.%s", field)
	}
}

func (c *Config) setHistoryField(field, value string) error {
	switch field {
	case "shell":
		if !isValidShell(value) {
			return fmt.Errorf("invalid shell: %s (must be auto, zsh, bash, or fish)", value)
		}
		c.History.Shell = value
	case "file":
		c.History.File = value
	case "max_entries":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_entries: %w", err)
		}
		if v < 0 {
			return errors.New("max_entries must be >= 0")
		}
		c.History.MaxEntries = v
	default:
		return fmt.Errorf("unknown field: history.%s", field)
	}
	return nil
}

func (c *Config) getPickerField(field string) (string, error) {
	switch field {
	case "matcher":
		return c.Picker.Matcher, nil
	case "layout":
		return c.Picker.Layout, nil
	case "show_time":
		return strconv.FormatBool(c.Picker.ShowTime), nil
	case "result_file":
		return c.Picker.ResultFile, nil
	default:
		return "", fmt.Errorf("unknown field: picker.%s", field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	switch field {
	case "matcher":
		if !isValidMatcher(value) {
			return fmt.Errorf("invalid matcher: %s (must be native or sahilm)", value)
		}
		c.Picker.Matcher = value
	case "layout":
		if !isValidLayout(value) {
			return fmt.Errorf("invalid layout: %s (must be default or reverse)", value)
		}
		c.Picker.Layout = value
	case "show_time":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for show_time: %w", err)
		}
		c.Picker.ShowTime = v
	case "result_file":
		c.Picker.ResultFile = value
	default:
		return fmt.Errorf("unknown field: picker.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	case "max_size_mb":
		return strconv.Itoa(c.Log.MaxSizeMB), nil
	case "max_backups":
		return strconv.Itoa(c.Log.MaxBackups), nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	case "max_size_mb":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_size_mb: %w", err)
		}
		c.Log.MaxSizeMB = v
	case "max_backups":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_backups: %w", err)
		}
		c.Log.MaxBackups = v
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !isValidShell(c.History.Shell) {
		return fmt.Errorf("history.shell must be auto, zsh, bash, or fish (got: %s)", c.History.Shell)
	}

	if c.History.MaxEntries < 0 {
		return errors.New("history.max_entries must be >= 0")
	}

	if !isValidMatcher(c.Picker.Matcher) {
		return fmt.Errorf("picker.matcher must be native or sahilm (got: %s)", c.Picker.Matcher)
	}

	if !isValidLayout(c.Picker.Layout) {
		return fmt.Errorf("picker.layout must be default or reverse (got: %s)", c.Picker.Layout)
	}

	actions := make([]string, 0, len(c.Picker.Keys))
	for action := range c.Picker.Keys {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		if !isValidKeyAction(action) {
			return fmt.Errorf("picker.keys: unknown action %q", action)
		}
		if len(c.Picker.Keys[action]) == 0 {
			return fmt.Errorf("picker.keys.%s must list at least one key", action)
		}
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	// Clamp rotation settings to something lumberjack can use.
	if c.Log.MaxSizeMB < 1 {
		c.Log.MaxSizeMB = 1
	}
	if c.Log.MaxSizeMB > 100 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups < 0 {
		c.Log.MaxBackups = 0
	}

	return nil
}

func isValidShell(shell string) bool {
	switch shell {
	case "", "auto", "zsh", "bash", "fish":
		return true
	default:
		return false
	}
}

func isValidMatcher(matcher string) bool {
	switch matcher {
	case "native", "sahilm":
		return true
	default:
		return false
	}
}

func isValidLayout(layout string) bool {
	switch layout {
	case "default", "reverse":
		return true
	default:
		return false
	}
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidKeyAction(action string) bool {
	for _, a := range keyActions {
		if a == action {
			return true
		}
	}
	return false
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HPICK_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
			if c.Log.File == "" {
				c.Log.File = DefaultPaths().LogFile()
			}
		}
	}
	if v := os.Getenv("HPICK_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("HPICK_RESULT_FILE"); v != "" {
		c.Picker.ResultFile = v
	}
	if v := os.Getenv("HPICK_MATCHER"); v != "" {
		if isValidMatcher(v) {
			c.Picker.Matcher = v
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"history.shell",
		"history.file",
		"history.max_entries",
		"picker.matcher",
		"picker.layout",
		"picker.show_time",
		"picker.result_file",
		"log.level",
		"log.file",
		"log.max_size_mb",
		"log.max_backups",
	}
}
