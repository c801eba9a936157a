// Package config resolves settings from flags, the environment and .env.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/Zachkp/portfolio/internal/contact"
)

// Keys. Environment variables are the upper-cased key.
const (
	KeyPort              = "port"
	KeyGinMode           = "gin_mode"
	KeyLogJSON           = "log_json"
	KeyDebug             = "debug"
	KeyContentFile       = "content_file"
	KeyWatchContent      = "watch_content"
	KeyAnalyticsDB       = "analytics_db"
	KeyAnalyticsSalt     = "analytics_salt"
	KeyChatReplyDelay    = "chat_reply_delay"
	KeyChatRatePerMinute = "chat_rate_per_minute"
	KeyAllowedOrigins    = "allowed_origins"
	KeyContactDelay      = "contact_delay"
	KeySMTPHost          = "smtp_host"
	KeySMTPPort          = "smtp_port"
	KeySMTPUser          = "smtp_user"
	KeySMTPPass          = "smtp_pass"
	KeyToEmail           = "to_email"
)

// Config is the resolved configuration.
type Config struct {
	Port              string
	GinMode           string
	LogJSON           bool
	Debug             bool
	ContentFile       string
	WatchContent      bool
	AnalyticsDB       string
	AnalyticsSalt     string
	ChatReplyDelay    time.Duration
	ChatRatePerMinute int
	AllowedOrigins    []string
	ContactDelay      time.Duration
	SMTP              contact.SMTPConfig
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyGinMode, "release")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyContentFile, "")
	v.SetDefault(KeyWatchContent, false)
	v.SetDefault(KeyAnalyticsDB, "")
	v.SetDefault(KeyAnalyticsSalt, "")
	v.SetDefault(KeyChatReplyDelay, "1s")
	v.SetDefault(KeyChatRatePerMinute, 30)
	v.SetDefault(KeyAllowedOrigins, "*")
	v.SetDefault(KeyContactDelay, "2s")
	v.SetDefault(KeySMTPHost, "smtp.gmail.com")
	v.SetDefault(KeySMTPPort, "587")
	v.SetDefault(KeySMTPUser, "")
	v.SetDefault(KeySMTPPass, "")
	v.SetDefault(KeyToEmail, "")
	v.AutomaticEnv()
	return v
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:              v.GetString(KeyPort),
		GinMode:           v.GetString(KeyGinMode),
		LogJSON:           v.GetBool(KeyLogJSON),
		Debug:             v.GetBool(KeyDebug),
		ContentFile:       v.GetString(KeyContentFile),
		WatchContent:      v.GetBool(KeyWatchContent),
		AnalyticsDB:       v.GetString(KeyAnalyticsDB),
		AnalyticsSalt:     v.GetString(KeyAnalyticsSalt),
		ChatReplyDelay:    v.GetDuration(KeyChatReplyDelay),
		ChatRatePerMinute: v.GetInt(KeyChatRatePerMinute),
		AllowedOrigins:    splitList(v.GetString(KeyAllowedOrigins)),
		ContactDelay:      v.GetDuration(KeyContactDelay),
		SMTP: contact.SMTPConfig{
			Host:     v.GetString(KeySMTPHost),
			Port:     v.GetString(KeySMTPPort),
			User:     v.GetString(KeySMTPUser),
			Password: v.GetString(KeySMTPPass),
			To:       v.GetString(KeyToEmail),
		},
	}

	if cfg.Port == "" {
		return nil, errors.New("config: port must not be empty")
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, errors.WithHint(errors.Newf("config: unknown gin mode %q", cfg.GinMode),
			"GIN_MODE must be debug, release or test")
	}
	if cfg.ChatReplyDelay < 0 || cfg.ContactDelay < 0 {
		return nil, errors.New("config: delays must not be negative")
	}
	if cfg.ChatRatePerMinute < 0 {
		return nil, errors.New("config: chat rate must not be negative")
	}
	if cfg.WatchContent && cfg.ContentFile == "" {
		return nil, errors.WithHint(errors.New("config: watch_content needs a content file"),
			"set CONTENT_FILE or turn off WATCH_CONTENT")
	}
	if cfg.AnalyticsDB != "" && cfg.AnalyticsSalt == "" {
		// Without a configured salt, hashes are only stable for this process.
		salt, err := randomSalt()
		if err != nil {
			return nil, err
		}
		cfg.AnalyticsSalt = salt
	}
	return cfg, nil
}

// SMTPConfigured reports whether mail delivery should replace the log stub.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Password != "" && c.SMTP.To != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func randomSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generate analytics salt")
	}
	return hex.EncodeToString(b), nil
}
