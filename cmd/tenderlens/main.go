package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tenderlens/tenderlens/internal/config"
	"github.com/tenderlens/tenderlens/internal/corpus"
	"github.com/tenderlens/tenderlens/internal/db"
	dbMemory "github.com/tenderlens/tenderlens/internal/db/memory"
	dbRedis "github.com/tenderlens/tenderlens/internal/db/redis"
	"github.com/tenderlens/tenderlens/internal/generation"
	"github.com/tenderlens/tenderlens/internal/index"
	logpkg "github.com/tenderlens/tenderlens/internal/logger"
	"github.com/tenderlens/tenderlens/internal/metrics"
	"github.com/tenderlens/tenderlens/internal/prompt"
	analysisrepo "github.com/tenderlens/tenderlens/internal/repository/analysis"
	draftrepo "github.com/tenderlens/tenderlens/internal/repository/draft"
	chiTransport "github.com/tenderlens/tenderlens/internal/transport/chi"
	openaiGen "github.com/tenderlens/tenderlens/internal/transport/openai"
	analysisuc "github.com/tenderlens/tenderlens/internal/usecase/analysis"
	draftuc "github.com/tenderlens/tenderlens/internal/usecase/draft"
	"github.com/tenderlens/tenderlens/internal/vectorizer"
	"github.com/tenderlens/tenderlens/internal/version"
)

func main() {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tenderlens API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
	)

	// Create the draft/analysis store based on driver
	var store db.Store
	switch cfg.Store.Driver {
	case "memory":
		store = dbMemory.NewStore()
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Store.Addrs,
			Password: cfg.Store.Password,
		})
	default:
		logger.Fatal("Unknown store driver", zap.String("driver", cfg.Store.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Store not ready", zap.Error(err))
	}
	logger.Info("Connected to store", zap.String("driver", cfg.Store.Driver))

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Startup barrier: the corpus is loaded and the vectorizer fit exactly
	// once. Requests never observe a partially built index.
	notices, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load notice corpus", zap.Error(err))
	}
	texts := make([]string, len(notices))
	for i, n := range notices {
		texts[i] = n.Title + "\n" + n.DescriptionExcerpt
	}
	fitStart := time.Now()
	vec, err := vectorizer.Fit(texts)
	if err != nil {
		logger.Fatal("Failed to fit vectorizer", zap.Error(err))
	}
	idx := index.Build(notices, vec)
	logger.Info("Similarity index ready",
		zap.Int("notices", idx.Size()),
		zap.Int("vector_dim", idx.Dim()),
		zap.Duration("build_time", time.Since(fitStart)),
	)

	gen, backend := buildGenerator(ctx, cfg.Generation, logger)
	logger.Info("Generation backend selected",
		zap.String("backend", backend),
		zap.String("model", cfg.Generation.Model),
	)

	// Repositories and use case services
	draftRepo := draftrepo.New(store, cfg.Store.KeyPrefix)
	analysisRepo := analysisrepo.New(store, cfg.Store.KeyPrefix)

	draftSvc := draftuc.New(draftRepo)
	analysisSvc := analysisuc.New(
		draftRepo, analysisRepo, vec, idx, gen,
		prompt.NewAssembler(cfg.Generation.MaxNoticeChars),
		cfg.Retrieval.TopK, logger,
	)

	server := chiTransport.NewServer(draftSvc, analysisSvc, store, backend, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(cfg.CORS.Origins))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildGenerator selects the generation backend. The mock is used when
// forced by config or when the real backend fails a startup probe, so the
// demo works without a running model server.
func buildGenerator(
	ctx context.Context, cfg config.GenerationConfig, logger *zap.Logger,
) (generation.Generator, string) {
	if cfg.ForceMock {
		return generation.NewMock(), "mock"
	}

	gen := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := gen.HealthCheck(probeCtx); err != nil {
		logger.Warn("Generation backend unreachable, falling back to mock",
			zap.String("base_url", cfg.BaseURL),
			zap.Error(err),
		)
		return generation.NewMock(), "mock"
	}

	return gen, "openai"
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
