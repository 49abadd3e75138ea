package handlers

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/logic"
	"github.com/cornerd/corners-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// TeamAnalyzer computes a team's corner profile.
type TeamAnalyzer interface {
	AnalyzeTeam(ctx context.Context, teamID int64, season int, cutoff *time.Time) (*models.TeamProfile, error)
}

// Predictor runs the full prediction pipeline for one fixture.
type Predictor interface {
	PredictMatch(ctx context.Context, homeID, awayID int64, season int, opts logic.PredictOptions) (*models.MatchPrediction, error)
}

// AccuracyTracker verifies predictions and reports accuracy.
type AccuracyTracker interface {
	VerifyPrediction(ctx context.Context, predictionID string, actualHome, actualAway int, manual bool, notes string) (*models.VerificationRecord, error)
	BulkVerifySeason(ctx context.Context, season int) (*models.BulkVerifyReport, error)
	TeamReport(ctx context.Context, teamID int64, season int) (*models.TeamAccuracyReport, error)
	Overview(ctx context.Context, season int) (*models.AccuracyOverview, error)
}

// PredictionValidator scores predictions against actual results.
type PredictionValidator interface {
	Validate(ctx context.Context, predictionID string, actualHome, actualAway int, notes string) (*models.ValidationResult, error)
	SummarizeSeason(ctx context.Context, season int) (*models.ValidationSummary, error)
}

// Backtester replays the pipeline over historical matches.
type Backtester interface {
	RunDate(ctx context.Context, day time.Time, season int) ([]models.BacktestResult, error)
	RunSeason(ctx context.Context, season, maxDates int) (*models.BacktestBatchReport, error)
	Summary(ctx context.Context, season int) (*models.BacktestSummary, error)
}

type Config struct {
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger
	// Services
	Teams      TeamAnalyzer
	Prediction Predictor
	Accuracy   AccuracyTracker
	Validation PredictionValidator
	Backtest   Backtester
}

type Handler struct {
	pg         *pgxpool.Pool
	ch         driver.Conn
	redis      *redis.Client
	logger     *zap.SugaredLogger
	validator  *validator.Validate
	teams      TeamAnalyzer
	prediction Predictor
	accuracy   AccuracyTracker
	validation PredictionValidator
	backtest   Backtester
}

func New(cfg Config) *Handler {
	return &Handler{
		pg:         cfg.Postgres,
		ch:         cfg.ClickHouse,
		redis:      cfg.Redis,
		logger:     cfg.Logger.Sugar(),
		validator:  validator.New(),
		teams:      cfg.Teams,
		prediction: cfg.Prediction,
		accuracy:   cfg.Accuracy,
		validation: cfg.Validation,
		backtest:   cfg.Backtest,
	}
}
