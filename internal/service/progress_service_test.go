package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devspeak/devspeak-api/internal/dto"
	"github.com/devspeak/devspeak-api/internal/models"
	"github.com/devspeak/devspeak-api/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PracticeSession{}))

	return db
}

func setupTestCache(t *testing.T) *redis.Client {
	t.Helper()

	server := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: server.Addr()})
}

func seedSession(t *testing.T, db *gorm.DB, userID uint, module string, createdAt time.Time, scores map[string]interface{}) {
	t.Helper()

	session := models.PracticeSession{
		UserID:     userID,
		ModuleType: module,
		Scores:     datatypes.JSONMap(scores),
		UserInput:  datatypes.JSONMap{"answer": "something"},
		AIFeedback: "ok",
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(&session).Error)
}

func TestGetDashboardAggregates(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSessionRepository(db)
	svc := NewProgressService(repo, nil, time.Minute, zerolog.New(io.Discard))

	morning := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	night := time.Date(2024, time.January, 1, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2024, time.January, 2, 10, 30, 0, 0, time.UTC)

	seedSession(t, db, 1, models.ModuleStandup, morning, map[string]interface{}{"a": 90, "b": 40})
	seedSession(t, db, 1, models.ModuleStandup, night, map[string]interface{}{"a": 80, "b": 50})
	seedSession(t, db, 1, models.ModuleInterview, nextDay, map[string]interface{}{"a": 70, "overall": 95})

	dashboard, found, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, found)

	require.Equal(t, 3, dashboard.TotalSessions)
	require.Equal(t, morning.Unix(), dashboard.FirstPracticeDate.Unix())

	require.Equal(t, []dto.HeatmapPoint{
		{Day: "2024-01-01", Value: 2},
		{Day: "2024-01-02", Value: 1},
	}, dashboard.HeatmapData)

	require.Equal(t, map[string]int{
		models.ModuleStandup:   2,
		models.ModuleInterview: 1,
	}, dashboard.ModuleCounts)

	require.Len(t, dashboard.ScoreTrends, 2)
	require.Equal(t, "Jan 1", dashboard.ScoreTrends[0].Date)
	require.Equal(t, map[string]int{"a": 85, "b": 45}, dashboard.ScoreTrends[0].Scores)
	require.Equal(t, "Jan 2", dashboard.ScoreTrends[1].Date)
	require.Equal(t, map[string]int{"a": 70, "overall": 95}, dashboard.ScoreTrends[1].Scores)

	// "overall" is in the trends but never competes for strongest/weakest.
	require.Equal(t, dto.MetricArea{Name: "a", Score: 80}, dashboard.Analysis.StrongestArea)
	require.Equal(t, dto.MetricArea{Name: "b", Score: 45}, dashboard.Analysis.WeakestArea)

	require.Len(t, dashboard.RecentActivity, 3)
	require.Equal(t, models.ModuleInterview, dashboard.RecentActivity[0].Module)
	require.Equal(t, "Jan 2, 2024 10:30 AM", dashboard.RecentActivity[0].Date)
	require.Equal(t, models.ModuleStandup, dashboard.RecentActivity[1].Module)
}

func TestGetDashboardRecentActivityCap(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSessionRepository(db)
	svc := NewProgressService(repo, nil, time.Minute, zerolog.New(io.Discard))

	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		seedSession(t, db, 2, models.ModuleWriting, base.Add(time.Duration(i)*time.Hour), map[string]interface{}{"clarity": 80})
	}

	dashboard, found, err := svc.GetDashboard(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, dashboard.RecentActivity, 5)
	require.Equal(t, "Mar 1, 2024 3:00 PM", dashboard.RecentActivity[0].Date)
}

func TestGetDashboardEmptyState(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSessionRepository(db)
	svc := NewProgressService(repo, nil, time.Minute, zerolog.New(io.Discard))

	_, found, err := svc.GetDashboard(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, found)
}

func TestGetDashboardIgnoresOtherUsers(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSessionRepository(db)
	svc := NewProgressService(repo, nil, time.Minute, zerolog.New(io.Discard))

	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	seedSession(t, db, 1, models.ModuleStandup, now, map[string]interface{}{"clarity": 80})
	seedSession(t, db, 2, models.ModuleWriting, now, map[string]interface{}{"tone": 60})

	dashboard, found, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, dashboard.TotalSessions)
	require.Equal(t, map[string]int{models.ModuleStandup: 1}, dashboard.ModuleCounts)
}

func TestGetDashboardServesCachedAggregate(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSessionRepository(db)
	cache := setupTestCache(t)
	svc := NewProgressService(repo, cache, time.Minute, zerolog.New(io.Discard))

	first := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	seedSession(t, db, 7, models.ModuleStandup, first, map[string]interface{}{"clarity": 80})

	warm, found, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, warm.TotalSessions)

	// A row written behind the cache's back is invisible until the entry
	// expires or is invalidated.
	seedSession(t, db, 7, models.ModuleWriting, first.Add(time.Hour), map[string]interface{}{"tone": 60})

	cached, found, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, cached.TotalSessions)
	require.Equal(t, warm.HeatmapData, cached.HeatmapData)
	require.Equal(t, warm.ScoreTrends, cached.ScoreTrends)
	require.Equal(t, warm.Analysis, cached.Analysis)
}

func TestGetDashboardIsDeterministic(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSessionRepository(db)
	svc := NewProgressService(repo, nil, time.Minute, zerolog.New(io.Discard))

	now := time.Date(2024, time.July, 4, 16, 0, 0, 0, time.UTC)
	seedSession(t, db, 3, models.ModulePairProgramming, now, map[string]interface{}{"x": 50, "y": 50, "z": 50})

	first, _, err := svc.GetDashboard(context.Background(), 3)
	require.NoError(t, err)
	second, _, err := svc.GetDashboard(context.Background(), 3)
	require.NoError(t, err)

	require.Equal(t, first.Analysis, second.Analysis)
	require.Equal(t, dto.MetricArea{Name: "x", Score: 50}, first.Analysis.StrongestArea)
	require.Equal(t, dto.MetricArea{Name: "x", Score: 50}, first.Analysis.WeakestArea)
}
