package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/auth"
	"github.com/wordplaylabs/wordquest/internal/config"
	"github.com/wordplaylabs/wordquest/internal/logging"
	"github.com/wordplaylabs/wordquest/internal/progress"
	"github.com/wordplaylabs/wordquest/internal/question"
	"github.com/wordplaylabs/wordquest/internal/session"
	"github.com/wordplaylabs/wordquest/internal/settings"
)

// Handlers groups the feature handlers wired into the server.
type Handlers struct {
	Auth      *auth.HTTPHandlers
	Session   *session.HTTPHandlers
	SessionWS *session.WSHandler
	Question  *question.HTTPHandlers
	Progress  *progress.HTTPHandlers
	Settings  *settings.HTTPHandlers
}

// NewHTTPServer wires all routes for the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redisClient *redis.Client, authSvc *auth.Service, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	authed := func(hf http.HandlerFunc) http.Handler {
		return auth.RequireAuth(hf)
	}

	// Auth endpoints
	mux.HandleFunc("POST /v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /v1/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /v1/auth/guest", h.Auth.CreateGuest)
	mux.HandleFunc("POST /v1/auth/refresh", h.Auth.RefreshToken)
	mux.Handle("GET /v1/users/me", authed(h.Auth.GetMe))

	// Session endpoints
	mux.Handle("POST /v1/sessions", authed(h.Session.Create))
	mux.Handle("GET /v1/sessions/{id}", authed(h.Session.Get))
	mux.Handle("POST /v1/sessions/{id}/answers", authed(h.Session.Submit))
	mux.Handle("POST /v1/sessions/{id}/next", authed(h.Session.Next))
	mux.Handle("POST /v1/sessions/{id}/previous", authed(h.Session.Previous))
	mux.Handle("GET /v1/sessions/{id}/result", authed(h.Session.Result))

	// Question metadata
	mux.HandleFunc("GET /v1/collections", h.Question.ListCollections)

	// Progress endpoints
	mux.Handle("POST /v1/progress", authed(h.Progress.Record))
	mux.Handle("GET /v1/progress/stats", authed(h.Progress.Stats))

	// Settings endpoints
	mux.Handle("GET /v1/settings", authed(h.Settings.Get))
	mux.Handle("PUT /v1/settings", authed(h.Settings.Put))

	// Live session feed
	mux.HandleFunc("GET /ws/sessions", h.SessionWS.HandleWebSocket)

	var handler http.Handler = mux
	handler = auth.Middleware(authSvc, logger)(handler)
	handler = corsMiddleware(cfg.CORS)(handler)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func corsMiddleware(cfg config.CORS) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
