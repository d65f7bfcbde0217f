package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string        `yaml:"env" env-default:"local"`
	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	RefreshAfter time.Duration `yaml:"refresh_after" env-default:"12h"`
	ItemsPerPage int           `yaml:"items_per_page" env-default:"5"`
	RecentLimit  int           `yaml:"recent_limit" env-default:"5"`
	PriceSource  `yaml:"price_source"`
	RabbitMQ     `yaml:"rabbitmq"`
	Postgres     `yaml:"postgres"`
	HTTPServer   `yaml:"http_server"`
	Redis        `yaml:"redis"`
}

// TriviaConfig is the subset the trivia service needs.
type TriviaConfig struct {
	Env              string `yaml:"env" env-default:"local"`
	QuestionsPerPage int    `yaml:"questions_per_page" env-default:"10"`
	Postgres         `yaml:"postgres"`
	HTTPServer       `yaml:"http_server"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host" env-default:"postgres"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-required:"true"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	DBName   string `yaml:"dbname" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type RabbitMQ struct {
	URL            string `yaml:"url" env:"RABBITMQ_URL" env-required:"true"`
	FetchQueue     string `yaml:"fetch_queue" env-default:"price_fetch_queue"`
	UpdateQueue    string `yaml:"update_queue" env-default:"price_update_queue"`
	WorkerPoolSize int    `yaml:"worker_pool_size" env-default:"10"`
}

type Redis struct {
	Addr       string        `yaml:"addr" env-default:"redis:6379"`
	Db         int           `yaml:"db" env-default:"1"`
	DefaultTTL time.Duration `yaml:"default_ttl" env-default:"1m"`
}

type PriceSource struct {
	BaseURL string        `yaml:"base_url" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

func MustLoad(configPath string) *Config {
	mustExist(configPath)

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", configPath)
	}

	return &cfg
}

func MustLoadTrivia(configPath string) *TriviaConfig {
	mustExist(configPath)

	var cfg TriviaConfig

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", configPath)
	}

	return &cfg
}

func mustExist(configPath string) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}
}
