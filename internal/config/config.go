package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config/config.yaml"

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	Storage      `yaml:"storage"`
	Session      `yaml:"session"`
	Verification `yaml:"verification"`
	RabbitMQ     `yaml:"rabbitmq"`
	Postgres     `yaml:"postgres"`
	HTTPServer   `yaml:"http_server"`
	Suggestions  `yaml:"suggestions"`
	Email        `yaml:"email"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout        time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"5s"`
}

type Storage struct {
	// Driver is either "postgres" or "memory".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"postgres"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type Session struct {
	Secret string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	TTL    time.Duration `yaml:"ttl" env-default:"720h"`
}

type Verification struct {
	CodeTTL time.Duration `yaml:"code_ttl" env-default:"1h"`
	Subject string        `yaml:"subject" env-default:"Anonymous Message | Verification Code"`
}

type RabbitMQ struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL" env-required:"true"`
	QueueName string `yaml:"queue_name" env-default:"verification_emails"`
}

type Suggestions struct {
	BaseURL string        `yaml:"base_url" env-default:"https://generativelanguage.googleapis.com"`
	Model   string        `yaml:"model" env-default:"gemini-1.5-flash"`
	APIKey  string        `yaml:"api_key" env:"GOOGLE_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Email struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
}

// MustLoad reads the config file named by CONFIG_PATH (or the default path).
// Values from a local .env file are applied to the environment first.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("Failed to read config: " + err.Error())
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, err
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
