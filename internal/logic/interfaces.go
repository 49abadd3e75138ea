package logic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cornerd/corners-api/internal/models"
)

// Store is the relational storage contract the analyzers depend on. Every
// write runs in its own connection-scoped transaction; UpsertTeamAccuracy
// must increment atomically so concurrent verifications cannot lose updates.
type Store interface {
	GetTeam(ctx context.Context, teamID int64, season int) (*models.Team, error)
	// RecentCompletedMatches returns up to limit completed matches with
	// corner data for the team, newest first. A non-nil before restricts
	// results to matches dated strictly before it.
	RecentCompletedMatches(ctx context.Context, teamID int64, season, limit int, before *time.Time) ([]models.Match, error)
	MatchByTeams(ctx context.Context, homeID, awayID int64, season int) (*models.Match, error)
	MeetingsBetween(ctx context.Context, teamA, teamB int64, seasons []int) ([]models.Match, error)
	MatchDatesWithCorners(ctx context.Context, season int) ([]time.Time, error)
	MatchesOnDate(ctx context.Context, day time.Time, season int) ([]models.Match, error)

	InsertPrediction(ctx context.Context, p *models.MatchPrediction) error
	GetPrediction(ctx context.Context, id string) (*models.MatchPrediction, error)
	UnverifiedPredictions(ctx context.Context, season int) ([]models.UnverifiedPrediction, error)

	// InsertVerification writes the record unless one already exists for
	// the prediction; the bool reports whether a row was written.
	InsertVerification(ctx context.Context, v *models.VerificationRecord) (bool, error)
	VerifiedPredictions(ctx context.Context, season int) ([]models.VerifiedPrediction, error)
	UpsertTeamAccuracy(ctx context.Context, teamID int64, season int, metric string, correct bool) error
	TeamAccuracy(ctx context.Context, teamID int64, season int) ([]models.TeamAccuracyStat, error)
	TeamAccuracyRanking(ctx context.Context, season int) ([]models.TeamAccuracySummary, error)

	InsertBacktestResults(ctx context.Context, rows []models.BacktestResult) (int, error)
	BacktestCountForDate(ctx context.Context, day time.Time, season int) (int, error)
	BacktestSummary(ctx context.Context, season int) (*models.BacktestSummary, error)
}

// HistoryStore is the append-only accuracy time series.
type HistoryStore interface {
	AppendAccuracyHistory(ctx context.Context, rows []models.AccuracyHistoryRow) error
	RecentTeamHistory(ctx context.Context, teamID int64, season, limit int) ([]models.AccuracyHistoryRow, error)
}

// ProfileCache is the subset of the Redis client used to cache computed
// team profiles between analysis calls.
type ProfileCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}
