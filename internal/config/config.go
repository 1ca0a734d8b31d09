package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"coursemate_backend/internal/validator"

	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port" validate:"min=1,max=65535"`
		Env  string `yaml:"env" validate:"oneof=development production test"`
	} `yaml:"server"`

	Firebase struct {
		ProjectID       string `yaml:"project_id" validate:"required_if=Backend firestore"`
		CredentialsFile string `yaml:"credentials_file"`
		// firestore или memory (локальная разработка без облака)
		Backend string `yaml:"backend" validate:"oneof=firestore memory"`
	} `yaml:"firebase"`

	Push struct {
		AccessToken string `yaml:"access_token"`
		Disabled    bool   `yaml:"disabled"`
	} `yaml:"push"`

	Schedule struct {
		Lookahead   time.Duration `yaml:"lookahead" validate:"min=0"`
		Timezone    string        `yaml:"timezone"`
		ScanCron    string        `yaml:"scan_cron"`
		ScanEnabled bool          `yaml:"scan_enabled"`
	} `yaml:"schedule"`

	Database struct {
		Driver string `yaml:"driver" validate:"oneof=postgres sqlite"`
		DSN    string `yaml:"url" validate:"required"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email" validate:"omitempty,email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type      string `yaml:"type" validate:"oneof=local s3 cloudflare_r2"`
		BasePath  string `yaml:"base_path"`
		BaseURL   string `yaml:"base_url"`
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size" validate:"min=1"`
		AllowedTypes []string `yaml:"allowed_types" validate:"min=1"`
		ImageQuality int      `yaml:"image_quality" validate:"min=1,max=100"`
		MaxDimension int      `yaml:"max_dimension" validate:"min=1"`
	} `yaml:"upload"`

	RateLimit struct {
		// nil - включено; enabled: false снимает лимит целиком
		Enabled           *bool `yaml:"enabled"`
		RequestsPerMinute int   `yaml:"requests_per_minute" validate:"min=0"`
		Burst             int   `yaml:"burst" validate:"min=0"`
	} `yaml:"rate_limit"`
}

// EmailEnabled - отправка писем включена только при заданном SMTP
func (c *Config) EmailEnabled() bool {
	return c.Email.SMTPHost != "" && c.Email.FromEmail != ""
}

// RateLimitEnabled - лимит по IP для /market/interest и /schedules
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimit.Enabled == nil || *c.RateLimit.Enabled
}

// Location возвращает часовой пояс, в котором хранятся даты расписаний
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var AppConfig *Config

// LoadConfig загружает конфиг по CONFIG_PATH и завершает процесс при ошибке
func LoadConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// Load: yaml (если файл есть) -> переменные окружения -> значения по умолчанию -> валидация
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Config file %s not found, using environment only", path)
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validator.New().Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		return nil, fmt.Errorf("invalid config: schedule.timezone: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.Env, "SERVER_ENV")

	setString(&cfg.Firebase.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&cfg.Firebase.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&cfg.Firebase.Backend, "DOCUMENT_STORE")

	setString(&cfg.Push.AccessToken, "EXPO_ACCESS_TOKEN")
	setBool(&cfg.Push.Disabled, "PUSH_DISABLED")

	setString(&cfg.Schedule.Timezone, "SCHEDULE_TIMEZONE")
	setString(&cfg.Schedule.ScanCron, "SCHEDULE_SCAN_CRON")
	setBool(&cfg.Schedule.ScanEnabled, "SCHEDULE_SCAN_ENABLED")
	if v := os.Getenv("SCHEDULE_LOOKAHEAD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Schedule.Lookahead = d
		}
	}

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RateLimit.Enabled = &b
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Firebase.Backend == "" {
		cfg.Firebase.Backend = "firestore"
	}
	if cfg.Schedule.Lookahead == 0 {
		cfg.Schedule.Lookahead = time.Hour
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "UTC"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "*/5 * * * *"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "file:push_tickets.db?_busy_timeout=5000"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Storage.BaseURL == "" && cfg.Storage.Type == "local" {
		cfg.Storage.BaseURL = "/uploads"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png"}
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 85
	}
	if cfg.Upload.MaxDimension == 0 {
		cfg.Upload.MaxDimension = 1600
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 30
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 5
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
