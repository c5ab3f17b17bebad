// Package config loads gtd settings from the environment and a dotenv file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	KeyDatabasePath = "GTD_DB_PATH"
	KeyLogLevel     = "GTD_LOG_LEVEL"
	KeyLogPath      = "GTD_LOG_PATH"
	KeyRedisURL     = "GTD_REDIS_URL"
	KeyReminderPoll = "GTD_REMINDER_POLL"
	KeyUpcomingDays = "GTD_UPCOMING_DAYS"
	KeyMetricsAddr  = "GTD_METRICS_ADDR"
	KeyLanguage     = "GTD_LANG"
)

const (
	DefaultLogLevel     = "WARN"
	DefaultReminderPoll = 5 * time.Second
	DefaultUpcomingDays = 7
	DefaultLanguage     = "en"
)

type Config struct {
	DatabasePath string
	LogLevel     string
	LogPath      string
	RedisURL     string // empty keeps reminders in process
	ReminderPoll time.Duration
	UpcomingDays int
	MetricsAddr  string // empty disables the metrics listener
	Language     string
}

// Load reads $XDG_CONFIG_HOME/gtd/gtd.conf, creating it with defaults when
// missing, and overlays GTD_* environment variables on top.
func Load() (Config, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, err
	}
	dataDir, err := dataDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(filepath.Join(cfgDir, "gtd", "gtd.conf"), dataDir, os.Getenv)
}

// LoadFrom resolves each setting as env, then file, then default
func LoadFrom(confFile, dataDir string, getenv func(string) string) (Config, error) {
	defaults := map[string]string{
		KeyDatabasePath: filepath.Join(dataDir, "gtd.db"),
		KeyLogLevel:     DefaultLogLevel,
		KeyLogPath:      filepath.Join(dataDir, "gtd.log"),
		KeyReminderPoll: DefaultReminderPoll.String(),
		KeyUpcomingDays: strconv.Itoa(DefaultUpcomingDays),
		KeyLanguage:     DefaultLanguage,
	}

	if _, err := os.Stat(confFile); err != nil {
		if err := os.MkdirAll(filepath.Dir(confFile), 0o755); err != nil {
			return Config{}, err
		}
		if err := godotenv.Write(defaults, confFile); err != nil {
			return Config{}, fmt.Errorf("write default config: %w", err)
		}
	}

	fromFile, err := godotenv.Read(confFile)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", confFile, err)
	}

	get := func(key string) string {
		return coalesce(getenv(key), fromFile[key], defaults[key])
	}

	poll, err := time.ParseDuration(get(KeyReminderPoll))
	if err != nil || poll <= 0 {
		return Config{}, fmt.Errorf("invalid %s %q", KeyReminderPoll, get(KeyReminderPoll))
	}
	days, err := strconv.Atoi(get(KeyUpcomingDays))
	if err != nil || days < 1 {
		return Config{}, fmt.Errorf("invalid %s %q", KeyUpcomingDays, get(KeyUpcomingDays))
	}

	return Config{
		DatabasePath: get(KeyDatabasePath),
		LogLevel:     get(KeyLogLevel),
		LogPath:      get(KeyLogPath),
		RedisURL:     get(KeyRedisURL),
		ReminderPoll: poll,
		UpcomingDays: days,
		MetricsAddr:  get(KeyMetricsAddr),
		Language:     get(KeyLanguage),
	}, nil
}

// dataDir returns the gtd data directory, creating it if needed
func dataDir() (string, error) {
	// Use XDG data directory or fallback to home directory
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dir, "gtd")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return appDir, nil
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}
