package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/painstats-backend/internal/adapter/excel"
	"github.com/heartmarshall/painstats-backend/internal/adapter/postgres"
	"github.com/heartmarshall/painstats-backend/internal/adapter/postgres/survey"
	"github.com/heartmarshall/painstats-backend/internal/adapter/provider/authserver"
	"github.com/heartmarshall/painstats-backend/internal/auth"
	"github.com/heartmarshall/painstats-backend/internal/config"
	"github.com/heartmarshall/painstats-backend/internal/metrics"
	"github.com/heartmarshall/painstats-backend/internal/service/stats"
	"github.com/heartmarshall/painstats-backend/internal/transport/command"
	"github.com/heartmarshall/painstats-backend/internal/transport/middleware"
	"github.com/heartmarshall/painstats-backend/internal/transport/rest"
	"github.com/heartmarshall/painstats-backend/internal/transport/ws"
)

// precheckLeeway is the clock skew tolerated on the exp claim.
const precheckLeeway = 30 * time.Second

// Run is the application entry point. It loads configuration, connects to
// the database, and serves HTTP until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, cleanup := NewHandler(cfg, logger, pool, reg)
	defer cleanup()

	// Websocket sessions are hijacked and outlive Shutdown; they end when
	// this context is canceled.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	cancelBase()
	if err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// NewHandler wires the service graph onto an http.Handler. reg receives the
// service collectors and is exposed on the metrics path. The returned func
// releases background resources.
func NewHandler(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool, reg *prometheus.Registry) (http.Handler, func()) {
	m := metrics.New(reg)

	var verifierOpts []authserver.Option
	if cfg.Verifier.JWTPrecheck {
		verifierOpts = append(verifierOpts, authserver.WithPrecheck(auth.NewPrecheck(precheckLeeway)))
	}
	verifier := authserver.NewVerifier(cfg.Verifier.BaseURL, cfg.Verifier.Timeout, m, logger, verifierOpts...)

	surveys := survey.New(pool)
	writer := excel.NewWriter(cfg.Export.Path, cfg.Export.SheetName, logger)

	svc := stats.NewService(logger, verifier, surveys, writer, m)
	dispatcher := command.NewDispatcher(logger, svc, m)

	statsHandler := rest.NewStatsHandler(dispatcher, cfg.Export.OnRequest, logger)
	wsHandler := ws.NewHandler(dispatcher, ws.Options{
		OriginPatterns: cfg.WebSocket.Patterns(),
		ReadLimit:      cfg.WebSocket.ReadLimit,
		Export:         cfg.Export.OnStream,
	}, m, logger)

	health := rest.NewHealthHandler(BuildVersion(),
		rest.Component{Name: "database", Pinger: pool},
		rest.Component{Name: "export_dir", Pinger: rest.PingFunc(func(context.Context) error {
			return checkDir(filepath.Dir(writer.Path()))
		})},
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)

	mux := http.NewServeMux()
	mux.Handle("POST /get-stat", limiter.Limit(cfg.RateLimit.PerMinute)(http.HandlerFunc(statsHandler.GetStat)))
	mux.Handle("GET /{$}", wsHandler)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(m),
	)

	return chain(mux), limiter.Stop
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
