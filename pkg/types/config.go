// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// Defaults for the recognized configuration options.
const (
	DefaultBaseURL          = "https://joncourson.com/"
	DefaultStoragePath      = "data"
	DefaultMaxHistory       = 365
	DefaultTimeout          = 30 * time.Second
	DefaultMaxAttempts      = 3
	DefaultRetryDelay       = 5 * time.Second
	DefaultTitle            = "Daily Devotional with Pastor Jon"
	DefaultAuthor           = "Jon Courson"
	DefaultMinContentLength = 50
	DefaultSchedule         = "0 6 * * *"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// HTTPConfig holds the transport settings used by the fetch stage.
type HTTPConfig struct {
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent with every request. The site blocks unknown agents.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxAttempts is the total number of attempts, including the first (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// RetryDelay is the fixed wait between attempts (default 5s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ScheduleConfig controls the watch command.
type ScheduleConfig struct {
	// Spec is a five-field cron expression or descriptor (default "0 6 * * *").
	Spec string `json:"spec" yaml:"spec" mapstructure:"spec"`

	// Timezone is an IANA zone name evaluated by the schedule. Empty means local time.
	Timezone string `json:"timezone" yaml:"timezone" mapstructure:"timezone"`
}

// Location resolves Timezone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// ExtractConfig holds settings for the extraction stage.
type ExtractConfig struct {
	// Title and Author are the fixed labels stamped on every record.
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`

	// MinContentLength is the minimum commentary length in characters (default 50).
	MinContentLength int `json:"min_content_length" yaml:"min_content_length"`

	// Now is the clock used for scraped_at and the date fallback.
	Now func() time.Time `json:"-" yaml:"-"`
}

// StoreConfig holds settings for the persistence stage.
type StoreConfig struct {
	// StoragePath is the directory holding devotionals.json and latest.json.
	StoragePath string `json:"storage_path" yaml:"storage_path"`

	// MaxHistory caps the number of stored records (default 365).
	MaxHistory int `json:"max_history" yaml:"max_history"`
}

// Config groups every recognized option. It is built once at startup and
// passed down explicitly.
type Config struct {
	BaseURL     string     `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	StoragePath string     `json:"storage_path" yaml:"storage_path" mapstructure:"storage_path"`
	MaxHistory  int        `json:"max_history" yaml:"max_history" mapstructure:"max_history"`
	HTTP        HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`
	Log         LogConfig  `json:"log" yaml:"log" mapstructure:"log"`

	Schedule ScheduleConfig `json:"schedule" yaml:"schedule" mapstructure:"schedule"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		StoragePath: DefaultStoragePath,
		MaxHistory:  DefaultMaxHistory,
		HTTP: HTTPConfig{
			Timeout:     DefaultTimeout,
			UserAgent:   DefaultUserAgent,
			MaxAttempts: DefaultMaxAttempts,
			RetryDelay:  DefaultRetryDelay,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Schedule: ScheduleConfig{
			Spec: DefaultSchedule,
		},
	}
}

// Validate reports every invalid option at once.
func (c Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url must not be empty"))
	}
	if c.StoragePath == "" {
		errs = append(errs, errors.New("storage_path must not be empty"))
	}
	if c.MaxHistory < 1 {
		errs = append(errs, fmt.Errorf("max_history must be at least 1, got %d", c.MaxHistory))
	}
	if c.HTTP.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("http.max_attempts must be at least 1, got %d", c.HTTP.MaxAttempts))
	}
	if c.HTTP.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("http.retry_delay must not be negative, got %s", c.HTTP.RetryDelay))
	}
	if _, err := c.Schedule.Location(); err != nil {
		errs = append(errs, fmt.Errorf("schedule.timezone: %w", err))
	}
	return errors.Join(errs...)
}

// Store returns the persistence settings.
func (c Config) Store() StoreConfig {
	return StoreConfig{StoragePath: c.StoragePath, MaxHistory: c.MaxHistory}
}

// Extract returns the extraction settings with the fixed labels filled in.
func (c Config) Extract() ExtractConfig {
	return ExtractConfig{
		Title:            DefaultTitle,
		Author:           DefaultAuthor,
		MinContentLength: DefaultMinContentLength,
		Now:              time.Now,
	}
}
