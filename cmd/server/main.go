package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/shubh-aarambh/fintrack/internal/auth"
	"github.com/shubh-aarambh/fintrack/internal/config"
	"github.com/shubh-aarambh/fintrack/internal/metrics"
	"github.com/shubh-aarambh/fintrack/internal/middleware"
	"github.com/shubh-aarambh/fintrack/internal/records"
	"github.com/shubh-aarambh/fintrack/internal/service"
	"github.com/shubh-aarambh/fintrack/internal/storage/backend"
	"github.com/shubh-aarambh/fintrack/pkg/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	logger := logging.SetupWith(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(true); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer blobs.Close()
	logger.Info("Storage initialized", "backend", cfg.StorageBackend, "location", backend.Describe(cfg))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	directory := auth.NewDirectory(blobs)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// Each RPC opens its own record store. They share one write lock, and
	// every mutation re-reads the user's records under it, so overlapping
	// requests from one user apply in turn instead of overwriting each other.
	writeLock := &sync.Mutex{}
	recordOpts := []records.Option{
		records.WithWriteLock(writeLock),
		records.WithMetrics(m),
		records.WithLogger(logger),
	}

	var seed service.SeedFunc
	if cfg.SeedDefaults {
		seed = func(ctx context.Context, userID string) error {
			store, err := records.Open(ctx, blobs, userID, recordOpts...)
			if err != nil {
				return err
			}
			result, err := store.EnsureDefaults(ctx)
			if err != nil {
				return err
			}
			logger.InfoContext(ctx, "Seeded default records",
				"user_id", userID,
				"categories", result.Categories,
				"budgets", result.Budgets,
				"transactions", result.Transactions,
			)
			return nil
		}
	}

	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(directory), directory, jwtManager, seed, logger)
	financeSvc := service.NewFinanceService(blobs, directory,
		service.WithRecordOptions(recordOpts...),
		service.WithTrendMonths(cfg.TrendMonths),
		service.WithFinanceLogger(logger),
	)

	observe := []connect.Interceptor{
		middleware.LoggingInterceptor(logger),
		middleware.MetricsInterceptor(m),
	}

	mux := http.NewServeMux()

	authInterceptors := append([]connect.Interceptor{}, observe...)
	if cfg.AuthRateLimit > 0 {
		authInterceptors = append(authInterceptors, middleware.RateLimitInterceptor(cfg.AuthRateLimit, cfg.AuthRateBurst,
			service.AuthServiceRegisterProcedure,
			service.AuthServiceLoginProcedure,
		))
	}
	authInterceptors = append(authInterceptors, middleware.OptionalAuth(jwtManager))

	authPath, authHandler := service.NewAuthServiceHandler(authSvc, connect.WithInterceptors(authInterceptors...))
	mux.Handle(authPath, authHandler)

	financePath, financeHandler := service.NewFinanceServiceHandler(financeSvc,
		connect.WithInterceptors(append(observe, middleware.RequireAuth(jwtManager))...))
	mux.Handle(financePath, financeHandler)

	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(logger, corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting", "address", server.Addr, "metrics", cfg.MetricsEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}

// loggingMiddleware logs requests that do not reach a Connect handler.
// RPCs are logged by the interceptor instead.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			return
		}
		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
