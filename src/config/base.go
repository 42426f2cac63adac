package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/stake-plus/govtool/src/data"
)

// Base contains the storage endpoints every command needs.
type Base struct {
	DBDriver string
	DBDSN    string
	RedisURL string
}

// Config is the full service configuration.
type Config struct {
	Base
	Server       ServerConfig
	Proposals    ProposalsConfig
	Registration RegistrationConfig
	Announce     AnnounceConfig
	Log          LogConfig
	Sentry       SentryConfig
}

// ServerConfig drives the HTTP API.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	JWTSecret      string
	RateLimit      int
	RateWindow     time.Duration
}

// ProposalsConfig selects and tunes the proposal source.
type ProposalsConfig struct {
	Source     string // "db" or "http"
	BackendURL string
	CacheTTL   time.Duration
	Timeout    time.Duration
}

// RegistrationConfig covers DRep metadata and certificate submission.
type RegistrationConfig struct {
	Canonicalization   string // "urdna2015" or "jcs"
	SigningBridgeURL   string
	DRepDeposit        uint64
	SkipHashValidation bool
	HTTPTimeout        time.Duration
	FetchAttempts      int
}

// AnnounceConfig controls registration announcements.
type AnnounceConfig struct {
	Stream           string
	DiscordToken     string
	DiscordChannelID string
}

// LogConfig mirrors logging.Options.
type LogConfig struct {
	Level       string
	Development bool
	File        string
}

// SentryConfig enables error tracking when DSN is set.
type SentryConfig struct {
	DSN         string
	Environment string
}

var defaults = map[string]interface{}{
	"DB_DRIVER":                 "mysql",
	"DB_DSN":                    "govtool:govtool@tcp(127.0.0.1:3306)/govtool",
	"REDIS_URL":                 "redis://127.0.0.1:6379/0",
	"PORT":                      "8080",
	"ALLOWED_ORIGINS":           "http://localhost:3000",
	"JWT_SECRET":                "",
	"RATE_LIMIT":                60,
	"RATE_WINDOW":               "1m",
	"PROPOSALS_SOURCE":          "db",
	"PROPOSALS_BACKEND_URL":     "http://127.0.0.1:9999",
	"PROPOSALS_CACHE_TTL":       "30s",
	"PROPOSALS_TIMEOUT":         "15s",
	"METADATA_CANONICALIZATION": "urdna2015",
	"SIGNING_BRIDGE_URL":        "http://127.0.0.1:8090",
	"DREP_DEPOSIT":              uint64(500_000_000),
	"SKIP_HASH_VALIDATION":      false,
	"METADATA_HTTP_TIMEOUT":     "10s",
	"METADATA_FETCH_ATTEMPTS":   3,
	"ANNOUNCE_STREAM":           "govtool.registrations",
	"DISCORD_TOKEN":             "",
	"DISCORD_CHANNEL_ID":        "",
	"LOG_LEVEL":                 "info",
	"LOG_DEVELOPMENT":           false,
	"LOG_FILE":                  "",
	"SENTRY_DSN":                "",
	"SENTRY_ENVIRONMENT":        "production",
}

// Load reads configuration from the environment. A .env file in the working
// directory is honoured when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()
	return FromViper(NewViper())
}

// NewViper returns a viper instance bound to the environment with defaults.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from v.
func FromViper(v *viper.Viper) Config {
	return Config{
		Base: Base{
			DBDriver: v.GetString("DB_DRIVER"),
			DBDSN:    v.GetString("DB_DSN"),
			RedisURL: v.GetString("REDIS_URL"),
		},
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			JWTSecret:      v.GetString("JWT_SECRET"),
			RateLimit:      v.GetInt("RATE_LIMIT"),
			RateWindow:     v.GetDuration("RATE_WINDOW"),
		},
		Proposals: ProposalsConfig{
			Source:     strings.ToLower(v.GetString("PROPOSALS_SOURCE")),
			BackendURL: strings.TrimRight(v.GetString("PROPOSALS_BACKEND_URL"), "/"),
			CacheTTL:   v.GetDuration("PROPOSALS_CACHE_TTL"),
			Timeout:    v.GetDuration("PROPOSALS_TIMEOUT"),
		},
		Registration: RegistrationConfig{
			Canonicalization:   strings.ToLower(v.GetString("METADATA_CANONICALIZATION")),
			SigningBridgeURL:   strings.TrimRight(v.GetString("SIGNING_BRIDGE_URL"), "/"),
			DRepDeposit:        v.GetUint64("DREP_DEPOSIT"),
			SkipHashValidation: v.GetBool("SKIP_HASH_VALIDATION"),
			HTTPTimeout:        v.GetDuration("METADATA_HTTP_TIMEOUT"),
			FetchAttempts:      v.GetInt("METADATA_FETCH_ATTEMPTS"),
		},
		Announce: AnnounceConfig{
			Stream:           v.GetString("ANNOUNCE_STREAM"),
			DiscordToken:     v.GetString("DISCORD_TOKEN"),
			DiscordChannelID: v.GetString("DISCORD_CHANNEL_ID"),
		},
		Log: LogConfig{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
			File:        v.GetString("LOG_FILE"),
		},
		Sentry: SentryConfig{
			DSN:         v.GetString("SENTRY_DSN"),
			Environment: v.GetString("SENTRY_ENVIRONMENT"),
		},
	}
}

// ApplySettings overrides selected keys from the settings table (call
// data.LoadSettings first). Empty settings leave the env value in place.
func (c *Config) ApplySettings() {
	c.Announce.DiscordToken = GetSetting("discord_token", c.Announce.DiscordToken)
	c.Announce.DiscordChannelID = GetSetting("discord_channel_id", c.Announce.DiscordChannelID)
	c.Proposals.BackendURL = GetSetting("proposals_backend_url", c.Proposals.BackendURL)
	c.Registration.SigningBridgeURL = GetSetting("signing_bridge_url", c.Registration.SigningBridgeURL)
	if origins := data.GetSetting("allowed_origins"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
}

// GetSetting retrieves a setting with fallback to the current value.
func GetSetting(name, fallback string) string {
	if val := data.GetSetting(name); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
