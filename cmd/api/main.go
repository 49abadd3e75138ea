package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/config"
	"github.com/cornerd/corners-api/internal/handlers"
	"github.com/cornerd/corners-api/internal/logic"
	"github.com/cornerd/corners-api/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalw("postgres connect failed", "error", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("postgres ping failed", "error", err)
	}

	// ClickHouse
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		log.Fatalw("clickhouse DSN invalid", "error", err)
	}
	chConn, err := clickhouse.Open(chOpts)
	if err != nil {
		log.Fatalw("clickhouse connect failed", "error", err)
	}
	defer chConn.Close()
	if err := chConn.Ping(ctx); err != nil {
		log.Fatalw("clickhouse ping failed", "error", err)
	}

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalw("redis URL invalid", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalw("redis ping failed", "error", err)
	}

	pg := store.NewPostgres(pool)
	history := store.NewClickHouseHistory(chConn)
	if err := pg.InitSchema(ctx); err != nil {
		log.Fatalw("postgres schema init failed", "error", err)
	}
	if err := history.InitSchema(ctx); err != nil {
		log.Fatalw("clickhouse schema init failed", "error", err)
	}

	teams := logic.NewTeamStatsService(pg, rdb, log, cfg.MinGames, cfg.MaxGames, cfg.ProfileCacheTTL)
	consistency := logic.NewConsistencyService(pg, teams, log, cfg.MaxGames)
	headToHead := logic.NewHeadToHeadService(pg, log)
	goals := logic.NewGoalsService(pg, log, cfg.MaxGames)
	prediction := logic.NewPredictionService(pg, teams, consistency, headToHead, goals, log, cfg.CapConfidenceAt100)
	accuracy := logic.NewAccuracyService(pg, history, log, cfg.CornerTolerance)
	validation := logic.NewValidationService(pg, log, cfg.CornerTolerance)
	backtest := logic.NewBacktestService(pg, prediction, log)

	h := handlers.New(handlers.Config{
		Postgres:   pool,
		ClickHouse: chConn,
		Redis:      rdb,
		Logger:     logger,
		Teams:      teams,
		Prediction: prediction,
		Accuracy:   accuracy,
		Validation: validation,
		Backtest:   backtest,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/teams/{id}/analysis", h.GetTeamAnalysis)
		r.Get("/teams/compare", h.CompareTeams)

		r.Post("/predictions", h.PredictMatch)
		r.Post("/predictions/{id}/verify", h.VerifyPrediction)
		r.Post("/predictions/{id}/validate", h.ValidatePrediction)
		r.Get("/validation/summary", h.GetValidationSummary)

		r.Post("/verify/season/{season}", h.BulkVerifySeason)
		r.Get("/accuracy/overview", h.GetAccuracyOverview)
		r.Get("/accuracy/teams/{id}", h.GetTeamAccuracy)

		r.Post("/backtests/run", h.RunBacktest)
		r.Get("/backtests/summary", h.GetBacktestSummary)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("shutdown failed", "error", err)
	}
}
