package tui

import (
	"time"

	"github.com/Veraticus/cabdesk/internal/service"
	"github.com/Veraticus/cabdesk/internal/tui/components"
	"github.com/Veraticus/cabdesk/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme   themes.Theme
	API     service.FleetAPI
	Now     func() time.Time
	User    string
	Timeout time.Duration
	Width   int
	Height  int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:   themes.Default,
		User:    "user",
		Timeout: components.DefaultTimeout,
		Now:     time.Now,
		Width:   80,
		Height:  24,
	}
}

// WithAPI sets the fleet API client.
func WithAPI(api service.FleetAPI) Option {
	return func(c *Config) {
		c.API = api
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithUser sets the name recorded as created_by/updated_by.
func WithUser(user string) Option {
	return func(c *Config) {
		if user != "" {
			c.User = user
		}
	}
}

// WithTimeout bounds every API request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithClock overrides the clock used for the form's default date.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}
