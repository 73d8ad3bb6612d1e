package httpapp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"registrationBot/internal/pkg/logger/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8081"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	CheckTimeout time.Duration `yaml:"check_timeout" env:"HTTP_CHECK_TIMEOUT" env-default:"2s"`
}

// Pinger - зависимость, доступность которой показывает /healthz
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	log        *slog.Logger
	httpServer *http.Server
	address    string
}

func New(
	log *slog.Logger,
	config *Config,
	gatherer prometheus.Gatherer,
	checks map[string]Pinger,
) *App {
	srv := &http.Server{
		Addr:         config.Address,
		Handler:      NewRouter(log, gatherer, checks, config.CheckTimeout),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return &App{log: log, httpServer: srv, address: config.Address}
}

func NewRouter(log *slog.Logger, gatherer prometheus.Gatherer, checks map[string]Pinger, checkTimeout time.Duration) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.Get("/healthz", healthHandler(log, checks, checkTimeout))

	return router
}

func (a *App) Run() error {
	const op = "httpapp.Run"

	a.log.With(slog.String("op", op)).
		Info("server started", slog.String("address", a.address))

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error("failed to start http server", sl.Err(err))
		return err
	}

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "httpapp.Stop"

	a.log.With(slog.String("op", op)).Info("stopping http server")

	return a.httpServer.Shutdown(ctx)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(log *slog.Logger, checks map[string]Pinger, timeout time.Duration) http.HandlerFunc {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		code := http.StatusOK

		for name, check := range checks {
			if err := check.Ping(ctx); err != nil {
				log.Warn("health check failed", slog.String("check", name), sl.Err(err))
				resp.Checks[name] = err.Error()
				resp.Status = "unavailable"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Debug("failed to write health response", sl.Err(err))
		}
	}
}
