package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyAPIBaseURL    = "api.base_url"
	KeyAPITimeout    = "api.timeout"
	KeyUser          = "user"
	KeyTheme         = "ui.theme"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
	KeyLogFile       = "logging.file"
	DefaultAPIURL    = "http://localhost:3000/api"
	DefaultUser      = "user"
	DefaultTheme     = "default"
	DefaultTimeout   = 30 * time.Second
	envAPIBaseURLRaw = "API_BASE_URL"
)

// Settings is the validated runtime configuration.
type Settings struct {
	APIBaseURL string
	User       string
	Theme      string
	LogFile    string
	APITimeout time.Duration
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBaseURL, DefaultAPIURL)
	v.SetDefault(KeyAPITimeout, DefaultTimeout)
	v.SetDefault(KeyUser, DefaultUser)
	v.SetDefault(KeyTheme, DefaultTheme)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads Settings from v. It follows this precedence:
// 1. Viper configuration (flags, config file or CABDESK_ env vars)
// 2. The plain API_BASE_URL environment variable
// 3. Default values
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		APIBaseURL: strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
		APITimeout: v.GetDuration(KeyAPITimeout),
		User:       strings.TrimSpace(v.GetString(KeyUser)),
		Theme:      v.GetString(KeyTheme),
		LogFile:    ExpandPath(v.GetString(KeyLogFile)),
	}

	if !v.IsSet(KeyAPIBaseURL) || s.APIBaseURL == DefaultAPIURL {
		if raw := strings.TrimSpace(os.Getenv(envAPIBaseURLRaw)); raw != "" {
			s.APIBaseURL = raw
		}
	}
	if s.APIBaseURL == "" {
		s.APIBaseURL = DefaultAPIURL
	}
	if s.User == "" {
		s.User = DefaultUser
	}
	if s.APITimeout <= 0 {
		s.APITimeout = DefaultTimeout
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	u, err := url.Parse(s.APIBaseURL)
	if err != nil {
		return fmt.Errorf("%w: api.base_url: %v", common.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: api.base_url must be an http(s) URL, got %q", common.ErrInvalidConfig, s.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: api.base_url has no host", common.ErrInvalidConfig)
	}
	return nil
}
