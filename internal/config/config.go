// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/scheduler"
)

// Task drop overlap policies.
const (
	TaskDropAllow  = "allow"
	TaskDropReject = "reject"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Calendar CalendarConfig `toml:"calendar"`
	Client   ClientConfig   `toml:"client"`
	UI       UIConfig       `toml:"ui"`
}

// ServerConfig holds REST API settings.
type ServerConfig struct {
	Listen      string   `toml:"listen"`       // e.g., ":5000"
	CORSOrigins []string `toml:"cors_origins"` // e.g., ["http://localhost:3000"]
	ReadTimeout int      `toml:"read_timeout"` // seconds
	RateLimit   int      `toml:"rate_limit"`   // requests per minute per client IP, 0 disables
	AccessLog   bool     `toml:"access_log"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath    string `toml:"db_path"`
	ListLimit int    `toml:"list_limit"` // cap on unfiltered event listings
}

// CalendarConfig holds grid geometry and drag-drop defaults.
type CalendarConfig struct {
	SlotMinutes     int    `toml:"slot_minutes"`
	RowHeight       int    `toml:"row_height"`
	MinRowHeight    int    `toml:"min_row_height"`
	DefaultDuration int    `toml:"default_duration"`  // minutes, for task drops and new events
	DefaultDropHour int    `toml:"default_drop_hour"` // hour used when a drop cell carries no time
	DefaultCategory string `toml:"default_category"`
	TaskDropOverlap string `toml:"task_drop_overlap"` // "allow" or "reject"
}

// ClientConfig holds settings for talking to a remote server.
type ClientConfig struct {
	APIURL  string `toml:"api_url"` // empty means open the local database
	Timeout int    `toml:"timeout"` // seconds
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme       string `toml:"theme"`        // "mocha", "macchiato", "frappe", "latte", "light"
	DefaultView string `toml:"default_view"` // "day", "week", "month", "year"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:      ":5000",
			CORSOrigins: []string{"http://localhost:3000"},
			ReadTimeout: 10,
			RateLimit:   600,
			AccessLog:   true,
		},
		Storage: StorageConfig{
			DBPath:    defaultDBPath(),
			ListLimit: calendar.DefaultListLimit,
		},
		Calendar: CalendarConfig{
			SlotMinutes:     30,
			RowHeight:       40,
			MinRowHeight:    20,
			DefaultDuration: 30,
			DefaultDropHour: grid.DefaultDropHour,
			DefaultCategory: string(calendar.CategoryWork),
			TaskDropOverlap: TaskDropAllow,
		},
		Client: ClientConfig{
			Timeout: 10,
		},
		UI: UIConfig{
			Theme:       "mocha",
			DefaultView: string(grid.ViewWeek),
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dayplan.db"
	}
	return filepath.Join(home, ".local", "share", "dayplan", "dayplan.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "dayplan", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// PORT is what hosting platforms set; DAYPLAN_LISTEN wins when both are present.
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("PORT must be numeric, got %q", v)
		}
		cfg.Server.Listen = ":" + v
	}
	if v := os.Getenv("DAYPLAN_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}

	if v := os.Getenv("DAYPLAN_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("DAYPLAN_TASK_DROP_OVERLAP"); v != "" {
		cfg.Calendar.TaskDropOverlap = strings.ToLower(v)
	}

	if v := os.Getenv("DAYPLAN_API_URL"); v != "" {
		cfg.Client.APIURL = v
	}

	if v := os.Getenv("DAYPLAN_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("DAYPLAN_DEFAULT_VIEW"); v != "" {
		cfg.UI.DefaultView = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validThemes = map[string]bool{
	"mocha":     true,
	"macchiato": true,
	"frappe":    true,
	"latte":     true,
	"light":     true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return errors.New("listen must be set")
	}
	if c.Server.ReadTimeout < 0 {
		return errors.New("read_timeout must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return errors.New("rate_limit must not be negative")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Storage.ListLimit <= 0 {
		return fmt.Errorf("list_limit must be positive, got %d", c.Storage.ListLimit)
	}

	if err := c.Calendar.GridConfig().Validate(); err != nil {
		return fmt.Errorf("slot_minutes: %w", err)
	}
	if c.Calendar.DefaultDuration <= 0 {
		return fmt.Errorf("default_duration must be positive, got %d", c.Calendar.DefaultDuration)
	}
	if c.Calendar.DefaultDropHour < 0 || c.Calendar.DefaultDropHour > 23 {
		return fmt.Errorf("default_drop_hour must be between 0 and 23, got %d", c.Calendar.DefaultDropHour)
	}
	if _, err := calendar.ParseCategory(c.Calendar.DefaultCategory); err != nil {
		return fmt.Errorf("default_category: %w", err)
	}
	switch c.Calendar.TaskDropOverlap {
	case TaskDropAllow, TaskDropReject:
	default:
		return fmt.Errorf("task_drop_overlap must be %q or %q, got %q", TaskDropAllow, TaskDropReject, c.Calendar.TaskDropOverlap)
	}

	if c.Client.APIURL != "" {
		u, err := url.Parse(c.Client.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api_url must be an http(s) URL, got %q", c.Client.APIURL)
		}
	}
	if c.Client.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	if !validThemes[strings.ToLower(c.UI.Theme)] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	if _, err := grid.ParseViewMode(c.UI.DefaultView); err != nil {
		return fmt.Errorf("default_view: %w", err)
	}
	return nil
}

// GridConfig returns the time-grid geometry.
func (c CalendarConfig) GridConfig() grid.Config {
	return grid.Config{
		IntervalMinutes: c.SlotMinutes,
		RowHeight:       float64(c.RowHeight),
		MinRowHeight:    float64(c.MinRowHeight),
	}
}

// Policy returns the drag-drop policy.
func (c CalendarConfig) Policy() scheduler.Policy {
	category, err := calendar.ParseCategory(c.DefaultCategory)
	if err != nil {
		category = calendar.CategoryWork
	}
	return scheduler.Policy{
		DefaultDuration:       time.Duration(c.DefaultDuration) * time.Minute,
		DefaultCategory:       category,
		DefaultDropHour:       c.DefaultDropHour,
		TaskDropChecksOverlap: c.TaskDropOverlap == TaskDropReject,
	}
}

// ViewMode returns the configured initial view.
func (c UIConfig) ViewMode() grid.ViewMode {
	m, err := grid.ParseViewMode(c.DefaultView)
	if err != nil {
		return grid.ViewWeek
	}
	return m
}

// ReadTimeoutDuration returns the server read timeout.
func (c ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// TimeoutDuration returns the HTTP client timeout.
func (c ClientConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// IsRemote reports whether the client talks to a server instead of the local database.
func (c *Config) IsRemote() bool {
	return c.Client.APIURL != ""
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
