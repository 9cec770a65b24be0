package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"wordquest"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Session  Session
	Fetch    Fetch
	Progress Progress
	WordBank WordBank
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds cache + player-state configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
}

// Session groups quiz session defaults.
type Session struct {
	TargetQuestionCount int           `env:"SESSION_QUESTION_COUNT" envDefault:"10"`
	IdleTTL             time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
}

// Fetch governs the question batch fetcher.
type Fetch struct {
	Timeout       time.Duration `env:"QUESTION_FETCH_TIMEOUT" envDefault:"10s"`
	MaxAttempts   int           `env:"QUESTION_FETCH_MAX_ATTEMPTS" envDefault:"3"`
	BackoffStep   time.Duration `env:"QUESTION_FETCH_BACKOFF_STEP" envDefault:"1s"`
	BatchCacheTTL time.Duration `env:"QUESTION_BATCH_CACHE_TTL" envDefault:"5m"`
}

// Progress configures the answer-history flush worker.
type Progress struct {
	QueueSize    int           `env:"PROGRESS_QUEUE_SIZE" envDefault:"256"`
	FlushTimeout time.Duration `env:"PROGRESS_FLUSH_TIMEOUT" envDefault:"5s"`
}

// WordBank configures the external question source used as a fallback.
type WordBank struct {
	BaseURL     string        `env:"WORDBANK_BASE_URL"`
	APIKey      string        `env:"WORDBANK_API_KEY"`
	HTTPTimeout time.Duration `env:"WORDBANK_HTTP_TIMEOUT" envDefault:"5s"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
