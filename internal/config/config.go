package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type FilesConfig struct {
	RootDir  string `yaml:"root_dir"`
	FontPath string `yaml:"font_path"` // TTF для PDF; пусто: встроенный Helvetica
}

type StoreConfig struct {
	Driver    string        `yaml:"driver"` // memory | postgres | sqlite | remote
	DSN       string        `yaml:"dsn"`
	BaseURL   string        `yaml:"base_url"`
	ProjectID string        `yaml:"project_id"`
	PublicKey string        `yaml:"public_key"`
	Timeout   time.Duration `yaml:"timeout"`
	Seed      bool          `yaml:"seed"` // загрузить демо-данные при старте
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Mode string `yaml:"mode"` // gin mode: debug | release | test
		// ключи для /api/records; пусто: только admin JWT
		APIProjectID string `yaml:"api_project_id"`
		APIPublicKey string `yaml:"api_public_key"`
	} `yaml:"server"`
	Store StoreConfig `yaml:"store"`
	Auth  AuthConfig  `yaml:"auth"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Files    FilesConfig    `yaml:"files"`
	Log      LogConfig      `yaml:"log"`
}

// Load reads the YAML file (a missing file is allowed), then .env and
// process environment overrides, then fills defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// работаем на дефолтах + env
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// .env не обязателен
	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"CRM_STORE_DRIVER":       &cfg.Store.Driver,
		"CRM_STORE_DSN":          &cfg.Store.DSN,
		"CRM_RECORDS_BASE_URL":   &cfg.Store.BaseURL,
		"CRM_RECORDS_PROJECT_ID": &cfg.Store.ProjectID,
		"CRM_RECORDS_PUBLIC_KEY": &cfg.Store.PublicKey,
		"CRM_JWT_SECRET":         &cfg.Auth.JWTSecret,
		"CRM_ADMIN_EMAIL":        &cfg.Auth.AdminEmail,
		"CRM_ADMIN_PASSWORD":     &cfg.Auth.AdminPassword,
		"CRM_TELEGRAM_TOKEN":     &cfg.Telegram.Token,
		"CRM_SMTP_PASSWORD":      &cfg.Email.SMTPPassword,
		"CRM_LOG_LEVEL":          &cfg.Log.Level,
		"CRM_API_PROJECT_ID":     &cfg.Server.APIProjectID,
		"CRM_API_PUBLIC_KEY":     &cfg.Server.APIPublicKey,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("CRM_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CRM_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v, ok := os.LookupEnv("CRM_TELEGRAM_CHAT_ID"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CRM_TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	if cfg.Store.Timeout == 0 {
		cfg.Store.Timeout = 15 * time.Second
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = 15 * time.Minute
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}
