package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL"`
	HTTP     HTTP
	Postgres Postgres
	Redis    Redis
	API      API
	JWT      JWT
	Cache    Cache
	Jobs     Jobs
	Movers   Movers
}

type HTTP struct {
	Port            int           `env:"HTTP_PORT"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"`
	GinDebug        bool          `env:"HTTP_GIN_DEBUG"`
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME"`
	MigrationDir    string `env:"PG_MIGRATION_DIR"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type API struct {
	Debug   bool          `env:"API_DEBUG"`
	Timeout time.Duration `env:"API_TIMEOUT"`
	FmpApi  FmpApi
}

type FmpApi struct {
	Url         string `env:"FMP_API_URL"`
	Key         string `env:"FMP_API_KEY"`
	SearchLimit int    `env:"FMP_API_SEARCH_LIMIT"`
}

type JWT struct {
	AccessSecret      string        `env:"JWT_ACCESS_SECRET"`
	RefreshSecret     string        `env:"JWT_REFRESH_SECRET"`
	AccessExpiration  time.Duration `env:"JWT_ACCESS_EXPIRATION"`
	RefreshExpiration time.Duration `env:"JWT_REFRESH_EXPIRATION"`
}

type Cache struct {
	QuotesExpiration time.Duration `env:"CACHE_QUOTES_EXPIRATION"`
	MoversExpiration time.Duration `env:"CACHE_MOVERS_EXPIRATION"`
}

type Jobs struct {
	FillMoversCacheInterval time.Duration `env:"FILL_MOVERS_CACHE_JOB_INTERVAL"`
}

type Movers struct {
	PageSize int `env:"MOVERS_PAGE_SIZE" envDefault:"10"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
