package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type R2 struct {
	AccountID  string `mapstructure:"account_id"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	PublicURL  string `mapstructure:"public_url"`
}

type Airtable struct {
	BaseURL    string            `mapstructure:"base_url"`
	BaseID     string            `mapstructure:"base_id"`
	Token      string            `mapstructure:"token"`
	SchemaFile string            `mapstructure:"schema_file"`
	Tables     map[string]string `mapstructure:"tables"`
}

type Workflows struct {
	ContentURL    string        `mapstructure:"content_url"`
	CampaignURL   string        `mapstructure:"campaign_url"`
	IdeaFormURL   string        `mapstructure:"idea_form_url"`
	IdeaFormField []string      `mapstructure:"idea_form_fields"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
}

type Jobs struct {
	RefreshSpec  string        `mapstructure:"refresh_spec"`
	WorkspaceTTL time.Duration `mapstructure:"workspace_ttl"`
	VerifyDelay  time.Duration `mapstructure:"verify_delay"`
	Concurrency  int           `mapstructure:"concurrency"`
	SaveAllLimit int           `mapstructure:"save_all_limit"`
}

type Config struct {
	Port               string    `mapstructure:"port"`
	LogLevel           string    `mapstructure:"log_level"`
	GoogleClientID     string    `mapstructure:"google_client_id"`
	GoogleClientSecret string    `mapstructure:"google_client_secret"`
	GoogleRedirectURI  string    `mapstructure:"google_redirect_uri"`
	AllowedDomain      string    `mapstructure:"allowed_domain"`
	PostgresURI        string    `mapstructure:"postgres_uri"`
	RedisURI           string    `mapstructure:"redis_uri"`
	FrontendURL        string    `mapstructure:"frontend_url"`
	SecretKey          string    `mapstructure:"secret_key"`
	CookieName         string    `mapstructure:"cookie_name"`
	R2                 R2        `mapstructure:"r2"`
	Airtable           Airtable  `mapstructure:"airtable"`
	Workflows          Workflows `mapstructure:"workflows"`
	Jobs               Jobs      `mapstructure:"jobs"`
}

var defaults = map[string]any{
	"port":                       "3000",
	"log_level":                  "info",
	"google_redirect_uri":        "http://localhost:3000/login/callback",
	"frontend_url":               "http://localhost:5173",
	"cookie_name":                "contentdesk_session",
	"redis_uri":                  "localhost:6379",
	"airtable.base_url":          "https://api.airtable.com/v0",
	"airtable.tables.posts":      "Posts",
	"airtable.tables.guidelines": "Brand Guidelines",
	"airtable.tables.prompts":    "Writing Prompts",
	"airtable.tables.folders":    "Marketing Videos",
	"workflows.retry_backoff":    "2s",
	"workflows.idea_form_fields": []string{"field-0", "field-1", "field-2"},
	"jobs.refresh_spec":          "@every 00h05m00s",
	"jobs.workspace_ttl":         "30m",
	"jobs.verify_delay":          "5s",
	"jobs.concurrency":           10,
	"jobs.save_all_limit":        4,
}

// LoadConfig reads config.{json,yaml} when present and lets environment
// variables override every key (AIRTABLE_BASE_ID, JOBS_VERIFY_DELAY, ...).
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Unmarshal only sees env values for keys viper already knows about.
func bindEnv(v *viper.Viper) {
	keys := []string{
		"google_client_id", "google_client_secret", "allowed_domain",
		"postgres_uri", "secret_key",
		"r2.account_id", "r2.access_key", "r2.secret_key", "r2.bucket_name", "r2.public_url",
		"airtable.base_id", "airtable.token", "airtable.schema_file",
		"workflows.content_url", "workflows.campaign_url", "workflows.idea_form_url",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
