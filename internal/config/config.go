package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
		// Browser origins allowed to open websocket connections.
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		BaseURL      string `yaml:"base_url"` // link prefix for verification/reset emails
	} `yaml:"email"`

	Push struct {
		GatewayURL string `yaml:"gateway_url"`
		APIKey     string `yaml:"api_key"`
	} `yaml:"push"`

	Realtime struct {
		BaseURL    string `yaml:"base_url"`
		AppID      string `yaml:"app_id"`
		ServerKey  string `yaml:"server_key"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"realtime"`

	RateLimit struct {
		AuthPerMinute int `yaml:"auth_per_minute"`
		APIPerMinute  int `yaml:"api_per_minute"`
	} `yaml:"rate_limit"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables
// when DATABASE_URL is set (tests and containers).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.FromEmail = os.Getenv("EMAIL_FROM")
	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.BaseURL = os.Getenv("EMAIL_BASE_URL")

	cfg.Push.GatewayURL = os.Getenv("PUSH_GATEWAY_URL")
	cfg.Push.APIKey = os.Getenv("PUSH_API_KEY")

	cfg.Realtime.BaseURL = os.Getenv("REALTIME_BASE_URL")
	cfg.Realtime.AppID = os.Getenv("REALTIME_APP_ID")
	cfg.Realtime.ServerKey = os.Getenv("REALTIME_SERVER_KEY")

	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.Realtime.TimeoutSec == 0 {
		cfg.Realtime.TimeoutSec = 10
	}
	if cfg.RateLimit.AuthPerMinute == 0 {
		cfg.RateLimit.AuthPerMinute = 10
	}
	if cfg.RateLimit.APIPerMinute == 0 {
		cfg.RateLimit.APIPerMinute = 120
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
