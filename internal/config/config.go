// Package config resolves runtime settings from defaults, an optional YAML
// file and CHARSTACK_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	DBPath          string
	WeekStart       time.Weekday
	RolloverOnStart bool
	LogUseCases     bool
	TraceFile       string
	NoColor         bool

	// File is the config file that was read, or "" if none was found.
	File string
}

// fileConfig mirrors the YAML layout. Absent keys leave the default alone.
type fileConfig struct {
	DBPath          *string `yaml:"db_path"`
	WeekStart       *string `yaml:"week_start"`
	RolloverOnStart *bool   `yaml:"rollover_on_start"`
	Log             *bool   `yaml:"log"`
	TraceFile       *string `yaml:"trace_file"`
	NoColor         *bool   `yaml:"no_color"`
}

// Dir returns the per-user data directory, ~/.charstack.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".charstack"
	}
	return filepath.Join(home, ".charstack")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBPath:          filepath.Join(Dir(), "charstack.db"),
		WeekStart:       time.Monday,
		RolloverOnStart: true,
	}
}

// Load applies the config file (CHARSTACK_CONFIG or ~/.charstack/config.yaml)
// and then environment overrides on top of the defaults. A missing file is
// not an error; a malformed one is.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CHARSTACK_CONFIG")
	if path == "" {
		path = filepath.Join(Dir(), "config.yaml")
	}
	if err := cfg.applyFile(path); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.File = path

	if fc.DBPath != nil && *fc.DBPath != "" {
		c.DBPath = expandHome(*fc.DBPath)
	}
	if fc.WeekStart != nil {
		if day, ok := ParseWeekday(*fc.WeekStart); ok {
			c.WeekStart = day
		}
	}
	if fc.RolloverOnStart != nil {
		c.RolloverOnStart = *fc.RolloverOnStart
	}
	if fc.Log != nil {
		c.LogUseCases = *fc.Log
	}
	if fc.TraceFile != nil {
		c.TraceFile = expandHome(*fc.TraceFile)
	}
	if fc.NoColor != nil {
		c.NoColor = *fc.NoColor
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CHARSTACK_DB"); v != "" {
		c.DBPath = expandHome(v)
	}
	if v := os.Getenv("CHARSTACK_WEEK_START"); v != "" {
		if day, ok := ParseWeekday(v); ok {
			c.WeekStart = day
		}
	}
	if v := os.Getenv("CHARSTACK_ROLLOVER_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RolloverOnStart = b
		}
	}
	if v := os.Getenv("CHARSTACK_LOG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogUseCases = b
		}
	}
	if v := os.Getenv("CHARSTACK_TRACE_FILE"); v != "" {
		c.TraceFile = expandHome(v)
	}
	// NO_COLOR is honoured with any non-empty value, per no-color.org.
	if os.Getenv("NO_COLOR") != "" {
		c.NoColor = true
	}
	if v := os.Getenv("CHARSTACK_NO_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.NoColor = b
		}
	}
}

// ParseWeekday accepts full or three-letter English day names in any case,
// or a number 0-6 with Sunday as 0.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n <= 6 {
			return time.Weekday(n), true
		}
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return 0, false
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
