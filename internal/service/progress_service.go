package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devspeak/devspeak-api/internal/dto"
	"github.com/devspeak/devspeak-api/internal/models"
	"github.com/devspeak/devspeak-api/internal/repository"
)

// ProgressService produces the aggregated dashboard for a user's sessions.
type ProgressService interface {
	// GetDashboard returns the aggregate and whether the user has any
	// sessions at all. found=false is the distinguished empty state, not an
	// error.
	GetDashboard(ctx context.Context, userID uint) (dto.DashboardResponse, bool, error)
}

type progressService struct {
	sessions repository.SessionRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewProgressService builds the dashboard aggregator.
func NewProgressService(sessions repository.SessionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ProgressService {
	return &progressService{
		sessions: sessions,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "progress_service").Logger(),
	}
}

func (s *progressService) GetDashboard(ctx context.Context, userID uint) (dto.DashboardResponse, bool, error) {
	cacheKey := fmt.Sprintf("dashboard:user:%d", userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", userID).Msg("dashboard cache hit")
				return response, true, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return dto.DashboardResponse{}, false, err
	}

	if len(sessions) == 0 {
		return dto.DashboardResponse{}, false, nil
	}

	response := buildDashboard(sessions)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, true, nil
}

// buildDashboard aggregates the full ordered session set in memory. Sessions
// arrive in ascending creation order, so the first element is the first
// practice and day buckets come out chronological.
func buildDashboard(sessions []models.PracticeSession) dto.DashboardResponse {
	response := dto.DashboardResponse{
		TotalSessions:     len(sessions),
		FirstPracticeDate: sessions[0].CreatedAt,
		ModuleCounts:      make(map[string]int),
	}

	heatmapIndex := make(map[string]int)
	trendIndex := make(map[string]int)
	trendSums := make([]map[string]float64, 0)
	trendCounts := make([]map[string]int, 0)

	metricOrder := make([]string, 0)
	metricSums := make(map[string]float64)
	metricCounts := make(map[string]int)

	for _, session := range sessions {
		day := session.CreatedAt.UTC().Format("2006-01-02")

		if idx, ok := heatmapIndex[day]; ok {
			response.HeatmapData[idx].Value++
		} else {
			heatmapIndex[day] = len(response.HeatmapData)
			response.HeatmapData = append(response.HeatmapData, dto.HeatmapPoint{Day: day, Value: 1})
		}

		response.ModuleCounts[session.ModuleType]++

		if len(session.Scores) == 0 {
			continue
		}

		idx, ok := trendIndex[day]
		if !ok {
			idx = len(trendSums)
			trendIndex[day] = idx
			trendSums = append(trendSums, make(map[string]float64))
			trendCounts = append(trendCounts, make(map[string]int))
			response.ScoreTrends = append(response.ScoreTrends, dto.TrendPoint{
				Date: session.CreatedAt.UTC().Format("Jan 2"),
			})
		}

		for _, metric := range sortedMetricNames(session.Scores) {
			value, ok := scoreValue(session.Scores[metric])
			if !ok {
				continue
			}

			trendSums[idx][metric] += value
			trendCounts[idx][metric]++

			if metric == "overall" {
				continue
			}
			if _, seen := metricSums[metric]; !seen {
				metricOrder = append(metricOrder, metric)
			}
			metricSums[metric] += value
			metricCounts[metric]++
		}
	}

	for i := range response.ScoreTrends {
		averages := make(map[string]int, len(trendSums[i]))
		for metric, sum := range trendSums[i] {
			averages[metric] = int(math.Round(sum / float64(trendCounts[i][metric])))
		}
		response.ScoreTrends[i].Scores = averages
	}

	response.Analysis = analyzeMetrics(metricOrder, metricSums, metricCounts)
	response.RecentActivity = recentActivity(sessions)

	return response
}

// analyzeMetrics picks the strongest and weakest metric by all-time average.
// Strict comparisons keep the first-seen metric on ties.
func analyzeMetrics(order []string, sums map[string]float64, counts map[string]int) dto.ScoreAnalysis {
	analysis := dto.ScoreAnalysis{
		StrongestArea: dto.MetricArea{Name: "N/A", Score: 0},
		WeakestArea:   dto.MetricArea{Name: "N/A", Score: 100},
	}

	strongest := math.Inf(-1)
	weakest := math.Inf(1)

	for _, metric := range order {
		average := sums[metric] / float64(counts[metric])
		if average > strongest {
			strongest = average
			analysis.StrongestArea = dto.MetricArea{Name: metric, Score: int(math.Round(average))}
		}
		if average < weakest {
			weakest = average
			analysis.WeakestArea = dto.MetricArea{Name: metric, Score: int(math.Round(average))}
		}
	}

	return analysis
}

func recentActivity(sessions []models.PracticeSession) []dto.RecentActivity {
	count := len(sessions)
	limit := 5
	if count < limit {
		limit = count
	}

	recent := make([]dto.RecentActivity, 0, limit)
	for i := count - 1; i >= count-limit; i-- {
		recent = append(recent, dto.RecentActivity{
			Module: sessions[i].ModuleType,
			Date:   sessions[i].CreatedAt.UTC().Format("Jan 2, 2006 3:04 PM"),
		})
	}

	return recent
}

// sortedMetricNames fixes an iteration order over a session's score map so
// first-seen tie-breaks are deterministic.
func sortedMetricNames(scores map[string]interface{}) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// scoreValue normalizes the numeric representations a JSON map column can
// hold depending on how the row was written.
func scoreValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
