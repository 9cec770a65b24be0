package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/auth"
	"github.com/wordplaylabs/wordquest/internal/auth/jwt"
	"github.com/wordplaylabs/wordquest/internal/config"
	"github.com/wordplaylabs/wordquest/internal/db/repository"
	"github.com/wordplaylabs/wordquest/internal/logging"
	"github.com/wordplaylabs/wordquest/internal/metrics"
	"github.com/wordplaylabs/wordquest/internal/progress"
	"github.com/wordplaylabs/wordquest/internal/question"
	"github.com/wordplaylabs/wordquest/internal/question/external"
	"github.com/wordplaylabs/wordquest/internal/server"
	"github.com/wordplaylabs/wordquest/internal/session"
	"github.com/wordplaylabs/wordquest/internal/settings"
	"github.com/wordplaylabs/wordquest/pkg/http/ws"
)

const sessionSweepInterval = 10 * time.Minute

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	sessionStore *session.Store
	flushWorker  *progress.FlushWorker
	bgCancels    []context.CancelFunc
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)

	if cfg.Security.JWTSecret == "" {
		return nil, fmt.Errorf("authentication service must be configured (set JWT_SECRET)")
	}

	tokenCfg := jwt.TokenConfig{
		AccessSecret:  []byte(cfg.Security.JWTSecret),
		RefreshSecret: []byte(cfg.Security.JWTSecret + "_refresh"),
		Issuer:        cfg.Name,
	}
	authSvc := auth.NewService(userRepo, auth.ServiceOptions{TokenConfig: tokenCfg}, logger)
	authHandlers := auth.NewHTTPHandlers(authSvc, logger)

	// Question supply: curated DB with word-bank fallback, cached per request shape.
	questionCache := question.NewCache(redisClient, cfg.Fetch.BatchCacheTTL)
	var wordBank *external.WordBankClient
	if cfg.WordBank.BaseURL != "" {
		wordBank = external.NewWordBankClient(cfg.WordBank.BaseURL, cfg.WordBank.APIKey, &http.Client{Timeout: cfg.WordBank.HTTPTimeout})
	} else {
		logger.Warn().Msg("word bank not configured; running on curated questions only")
	}
	questionSvc := question.NewService(questionRepo, questionCache, wordBank)

	fetcher := question.NewFetcher(questionSvc, question.FetcherOptions{
		Timeout:     cfg.Fetch.Timeout,
		MaxAttempts: cfg.Fetch.MaxAttempts,
		BackoffStep: cfg.Fetch.BackoffStep,
		OnRetry:     func(int) { metrics.QuestionFetchRetries.Inc() },
	}, logger)

	wsHub := ws.NewHub(logger)
	sessionStore := session.NewStore(cfg.Session.IdleTTL)
	sessionSvc := session.NewService(fetcher, sessionStore, session.ServiceOptions{
		TargetQuestionCount: cfg.Session.TargetQuestionCount,
		Feed:                session.NewWSFeed(wsHub),
	}, logger)

	progressQueue := make(chan progress.Batch, cfg.Progress.QueueSize)
	progressSvc := progress.NewService(redisClient, progressQueue, logger)
	flushWorker := progress.NewFlushWorker(progressRepo, progressQueue, cfg.Progress.FlushTimeout, logger)

	settingsStore := settings.NewStore(redisClient)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, authSvc, server.Handlers{
		Auth:      authHandlers,
		Session:   session.NewHTTPHandlers(sessionSvc, logger),
		SessionWS: session.NewWSHandler(wsHub, logger),
		Question:  question.NewHTTPHandlers(questionSvc, logger),
		Progress:  progress.NewHTTPHandlers(progressSvc, logger),
		Settings:  settings.NewHTTPHandlers(settingsStore, logger),
	})

	return &Application{
		cfg:          cfg,
		logger:       logger,
		pool:         pool,
		redis:        redisClient,
		http:         apiServer,
		sessionStore: sessionStore,
		flushWorker:  flushWorker,
		bgCancels:    make([]context.CancelFunc, 0, 2),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)
	go func() {
		if err := a.flushWorker.Run(bgCtx); err != nil && err != context.Canceled {
			a.logger.Warn().Err(err).Msg("progress flush worker stopped")
		}
	}()

	sweepCtx, sweepCancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, sweepCancel)
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case now := <-ticker.C:
				if removed := a.sessionStore.Sweep(now); removed > 0 {
					a.logger.Info().Int("removed", removed).Msg("idle sessions swept")
				}
			}
		}
	}()
}
