package configs

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds every setting the service reads at startup.
type AppConfig struct {
	Env      string         `yaml:"env"`
	LogLevel string         `yaml:"log_level"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Feed     FeedConfig     `yaml:"feed"`
	Seed     SeedConfig     `yaml:"seed"`
}

// ServerConfig is the HTTP listener setup.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	BaseURL        string   `yaml:"base_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig selects and reaches the database.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	TimeZone string `yaml:"timezone"`
}

// AuthConfig verifies the bearer tokens issued by the auth provider.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// MailConfig configures the transactional mail integration. Delivery is
// enabled only when both APIKey and From are set.
type MailConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	From        string        `yaml:"from"`
	ReplyTo     string        `yaml:"reply_to"`
	Subject     string        `yaml:"subject"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// FeedConfig shapes the calendar feed.
type FeedConfig struct {
	Timezone     string `yaml:"timezone"`
	ProductID    string `yaml:"product_id"`
	CalendarName string `yaml:"calendar_name"` // every %s becomes the runner's display name
	Filename     string `yaml:"filename"`
	UIDDomain    string `yaml:"uid_domain"`
}

// SeedConfig is the first admin created by migrate --seed.
type SeedConfig struct {
	AdminEmail string `yaml:"admin_email"`
	AdminName  string `yaml:"admin_name"`
}

var (
	ErrMissingDatabase = errors.New("database credentials missing: set DATABASE_URL or DB_HOST/DB_USER/DB_NAME")
	ErrMissingSecret   = errors.New("AUTH_JWT_SECRET is not set")
)

// Default returns the configuration used before any file or env overrides.
func Default() *AppConfig {
	return &AppConfig{
		Env:      "production",
		LogLevel: "info",
		Server: ServerConfig{
			Addr:           ":8080",
			BaseURL:        "http://localhost:8080",
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Port:     5432,
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Mail: MailConfig{
			BaseURL:     "https://api.resend.com",
			Subject:     "Laufgruppe – Info",
			Concurrency: 8,
			Timeout:     10 * time.Second,
		},
		Feed: FeedConfig{
			Timezone:     "Europe/Berlin",
			ProductID:    "-//Lauf Manager HAW Kiel//DE",
			CalendarName: "Lauf Manager – Zusagen (%s)",
			Filename:     "laufmanager.ics",
			UIDDomain:    "laufmanager",
		},
	}
}

// Load reads .env (if present), the optional YAML file and finally the
// process environment. Later sources win.
func Load(yamlPath string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg := Default()

	if yamlPath == "" {
		yamlPath = os.Getenv("APP_CONFIG_FILE")
	}
	if yamlPath != "" {
		if err := cfg.mergeYAML(yamlPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) mergeYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() error {
	setString(&c.Env, "APP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.Server.Addr, "SERVER_ADDR")
	setString(&c.Server.BaseURL, "APP_BASE_URL")
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Database.TimeZone, "DB_TIMEZONE")
	if err := setInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}

	setString(&c.Auth.JWTSecret, "AUTH_JWT_SECRET")

	setString(&c.Mail.APIKey, "RESEND_API_KEY")
	setString(&c.Mail.BaseURL, "RESEND_BASE_URL")
	setString(&c.Mail.From, "NOTIFY_FROM_EMAIL")
	setString(&c.Mail.ReplyTo, "NOTIFY_REPLY_TO")
	setString(&c.Mail.Subject, "NOTIFY_SUBJECT")
	if err := setInt(&c.Mail.Concurrency, "NOTIFY_CONCURRENCY"); err != nil {
		return err
	}
	if v, ok := lookup("MAIL_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MAIL_TIMEOUT: %w", err)
		}
		c.Mail.Timeout = d
	}

	setString(&c.Feed.Timezone, "FEED_TIMEZONE")
	setString(&c.Feed.ProductID, "FEED_PRODUCT_ID")
	setString(&c.Feed.CalendarName, "FEED_CALENDAR_NAME")
	setString(&c.Feed.Filename, "FEED_FILENAME")

	setString(&c.Seed.AdminEmail, "SEED_ADMIN_EMAIL")
	setString(&c.Seed.AdminName, "SEED_ADMIN_NAME")
	return nil
}

// Validate reports settings the service cannot start without.
// Missing mail settings are not an error, they only disable delivery.
func (c *AppConfig) Validate() error {
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "") {
		return ErrMissingDatabase
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Server.BaseURL != "" {
		if _, err := url.Parse(c.Server.BaseURL); err != nil {
			return fmt.Errorf("APP_BASE_URL: %w", err)
		}
	}
	return nil
}

// ValidateServe adds the checks only the HTTP server needs.
func (c *AppConfig) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

// Location loads the feed timezone. It decides what "today" means.
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Feed.Timezone)
	if err != nil {
		return nil, fmt.Errorf("FEED_TIMEZONE %q: %w", c.Feed.Timezone, err)
	}
	return loc, nil
}

// MailEnabled is true when an API key and a sender address are configured.
func (c *AppConfig) MailEnabled() bool {
	return c.Mail.APIKey != "" && c.Mail.From != ""
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
