package logic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/models"
)

// MockStore implements Store for testing
type MockStore struct {
	GetTeamFunc                func(ctx context.Context, teamID int64, season int) (*models.Team, error)
	RecentCompletedMatchesFunc func(ctx context.Context, teamID int64, season, limit int, before *time.Time) ([]models.Match, error)
	MatchByTeamsFunc           func(ctx context.Context, homeID, awayID int64, season int) (*models.Match, error)
	MeetingsBetweenFunc        func(ctx context.Context, teamA, teamB int64, seasons []int) ([]models.Match, error)
	MatchDatesWithCornersFunc  func(ctx context.Context, season int) ([]time.Time, error)
	MatchesOnDateFunc          func(ctx context.Context, day time.Time, season int) ([]models.Match, error)
	InsertPredictionFunc       func(ctx context.Context, p *models.MatchPrediction) error
	GetPredictionFunc          func(ctx context.Context, id string) (*models.MatchPrediction, error)
	UnverifiedPredictionsFunc  func(ctx context.Context, season int) ([]models.UnverifiedPrediction, error)
	InsertVerificationFunc     func(ctx context.Context, v *models.VerificationRecord) (bool, error)
	VerifiedPredictionsFunc    func(ctx context.Context, season int) ([]models.VerifiedPrediction, error)
	UpsertTeamAccuracyFunc     func(ctx context.Context, teamID int64, season int, metric string, correct bool) error
	TeamAccuracyFunc           func(ctx context.Context, teamID int64, season int) ([]models.TeamAccuracyStat, error)
	TeamAccuracyRankingFunc    func(ctx context.Context, season int) ([]models.TeamAccuracySummary, error)
	InsertBacktestResultsFunc  func(ctx context.Context, rows []models.BacktestResult) (int, error)
	BacktestCountForDateFunc   func(ctx context.Context, day time.Time, season int) (int, error)
	BacktestSummaryFunc        func(ctx context.Context, season int) (*models.BacktestSummary, error)
}

func (m *MockStore) GetTeam(ctx context.Context, teamID int64, season int) (*models.Team, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(ctx, teamID, season)
	}
	return &models.Team{ID: teamID, Name: "Team", Season: season}, nil
}

func (m *MockStore) RecentCompletedMatches(ctx context.Context, teamID int64, season, limit int, before *time.Time) ([]models.Match, error) {
	if m.RecentCompletedMatchesFunc != nil {
		return m.RecentCompletedMatchesFunc(ctx, teamID, season, limit, before)
	}
	return nil, nil
}

func (m *MockStore) MatchByTeams(ctx context.Context, homeID, awayID int64, season int) (*models.Match, error) {
	if m.MatchByTeamsFunc != nil {
		return m.MatchByTeamsFunc(ctx, homeID, awayID, season)
	}
	return nil, nil
}

func (m *MockStore) MeetingsBetween(ctx context.Context, teamA, teamB int64, seasons []int) ([]models.Match, error) {
	if m.MeetingsBetweenFunc != nil {
		return m.MeetingsBetweenFunc(ctx, teamA, teamB, seasons)
	}
	return nil, nil
}

func (m *MockStore) MatchDatesWithCorners(ctx context.Context, season int) ([]time.Time, error) {
	if m.MatchDatesWithCornersFunc != nil {
		return m.MatchDatesWithCornersFunc(ctx, season)
	}
	return nil, nil
}

func (m *MockStore) MatchesOnDate(ctx context.Context, day time.Time, season int) ([]models.Match, error) {
	if m.MatchesOnDateFunc != nil {
		return m.MatchesOnDateFunc(ctx, day, season)
	}
	return nil, nil
}

func (m *MockStore) InsertPrediction(ctx context.Context, p *models.MatchPrediction) error {
	if m.InsertPredictionFunc != nil {
		return m.InsertPredictionFunc(ctx, p)
	}
	return nil
}

func (m *MockStore) GetPrediction(ctx context.Context, id string) (*models.MatchPrediction, error) {
	if m.GetPredictionFunc != nil {
		return m.GetPredictionFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) UnverifiedPredictions(ctx context.Context, season int) ([]models.UnverifiedPrediction, error) {
	if m.UnverifiedPredictionsFunc != nil {
		return m.UnverifiedPredictionsFunc(ctx, season)
	}
	return nil, nil
}

func (m *MockStore) InsertVerification(ctx context.Context, v *models.VerificationRecord) (bool, error) {
	if m.InsertVerificationFunc != nil {
		return m.InsertVerificationFunc(ctx, v)
	}
	return true, nil
}

func (m *MockStore) VerifiedPredictions(ctx context.Context, season int) ([]models.VerifiedPrediction, error) {
	if m.VerifiedPredictionsFunc != nil {
		return m.VerifiedPredictionsFunc(ctx, season)
	}
	return nil, nil
}

func (m *MockStore) UpsertTeamAccuracy(ctx context.Context, teamID int64, season int, metric string, correct bool) error {
	if m.UpsertTeamAccuracyFunc != nil {
		return m.UpsertTeamAccuracyFunc(ctx, teamID, season, metric, correct)
	}
	return nil
}

func (m *MockStore) TeamAccuracy(ctx context.Context, teamID int64, season int) ([]models.TeamAccuracyStat, error) {
	if m.TeamAccuracyFunc != nil {
		return m.TeamAccuracyFunc(ctx, teamID, season)
	}
	return nil, nil
}

func (m *MockStore) TeamAccuracyRanking(ctx context.Context, season int) ([]models.TeamAccuracySummary, error) {
	if m.TeamAccuracyRankingFunc != nil {
		return m.TeamAccuracyRankingFunc(ctx, season)
	}
	return nil, nil
}

func (m *MockStore) InsertBacktestResults(ctx context.Context, rows []models.BacktestResult) (int, error) {
	if m.InsertBacktestResultsFunc != nil {
		return m.InsertBacktestResultsFunc(ctx, rows)
	}
	return len(rows), nil
}

func (m *MockStore) BacktestCountForDate(ctx context.Context, day time.Time, season int) (int, error) {
	if m.BacktestCountForDateFunc != nil {
		return m.BacktestCountForDateFunc(ctx, day, season)
	}
	return 0, nil
}

func (m *MockStore) BacktestSummary(ctx context.Context, season int) (*models.BacktestSummary, error) {
	if m.BacktestSummaryFunc != nil {
		return m.BacktestSummaryFunc(ctx, season)
	}
	return &models.BacktestSummary{}, nil
}

// MockHistoryStore implements HistoryStore for testing
type MockHistoryStore struct {
	AppendAccuracyHistoryFunc func(ctx context.Context, rows []models.AccuracyHistoryRow) error
	RecentTeamHistoryFunc     func(ctx context.Context, teamID int64, season, limit int) ([]models.AccuracyHistoryRow, error)
	Appended                  []models.AccuracyHistoryRow
}

func (m *MockHistoryStore) AppendAccuracyHistory(ctx context.Context, rows []models.AccuracyHistoryRow) error {
	if m.AppendAccuracyHistoryFunc != nil {
		return m.AppendAccuracyHistoryFunc(ctx, rows)
	}
	m.Appended = append(m.Appended, rows...)
	return nil
}

func (m *MockHistoryStore) RecentTeamHistory(ctx context.Context, teamID int64, season, limit int) ([]models.AccuracyHistoryRow, error) {
	if m.RecentTeamHistoryFunc != nil {
		return m.RecentTeamHistoryFunc(ctx, teamID, season, limit)
	}
	return nil, nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func intPtr(v int) *int { return &v }

// completedMatch builds an FT match with the given corners.
func completedMatch(id, homeID, awayID int64, date time.Time, cornersHome, cornersAway int) models.Match {
	return models.Match{
		ID:          id,
		HomeTeamID:  homeID,
		AwayTeamID:  awayID,
		Date:        date,
		Season:      2025,
		Status:      "FT",
		CornersHome: intPtr(cornersHome),
		CornersAway: intPtr(cornersAway),
	}
}

var _ Store = (*MockStore)(nil)
var _ HistoryStore = (*MockHistoryStore)(nil)
var _ ProfileCache = (*redis.Client)(nil)
