package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Yanami-qaq/health-assistant/internal/health"
	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/repos"
	"github.com/Yanami-qaq/health-assistant/internal/types"
)

const chartSeriesLimit = 14

// ChartPoint is one day of the dashboard trend series. Metrics the user never
// reported that day stay null in the rendered JSON.
type ChartPoint struct {
	Date         string   `json:"date"`
	Weight       *float64 `json:"weight"`
	BodyFat      *float64 `json:"body_fat"`
	Steps        *int     `json:"steps"`
	Calories     *int     `json:"calories"`
	WaterIntake  *int     `json:"water_intake"`
	BloodGlucose *float64 `json:"blood_glucose"`
	SleepHours   *float64 `json:"sleep_hours"`
	HeartRate    *int     `json:"heart_rate"`
}

type DashboardStats struct {
	Score       int                  `json:"score"`
	Streak      int                  `json:"streak"`
	Heatmap     []health.HeatmapCell `json:"heatmap"`
	ChartSeries []ChartPoint         `json:"chart_series"`
	LatestPlan  *PlanView            `json:"latest_plan"`
}

type StatsService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
}

type statsService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	sampleRepo repos.SampleRepo
	plans      PlanService
	now        func() time.Time
}

func NewStatsService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, sampleRepo repos.SampleRepo, plans PlanService) StatsService {
	return &statsService{
		db:         db,
		log:        baseLog.With("service", "StatsService"),
		userRepo:   userRepo,
		sampleRepo: sampleRepo,
		plans:      plans,
		now:        time.Now,
	}
}

func (s *statsService) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	var (
		user       *types.User
		samples    []*types.HealthSample
		latestPlan *PlanView
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.userRepo.GetByID(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		var err error
		samples, err = s.sampleRepo.ListByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		var err error
		latestPlan, err = s.plans.Latest(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()

	var latest *types.HealthSample
	if len(samples) > 0 {
		latest = samples[0]
	}

	dates := make([]time.Time, 0, len(samples))
	for _, sample := range samples {
		dates = append(dates, sample.Date)
	}

	return &DashboardStats{
		Score:       health.Score(user, latest),
		Streak:      health.Streak(dates, now),
		Heatmap:     health.Heatmap(samples),
		ChartSeries: chartSeries(samples),
		LatestPlan:  latestPlan,
	}, nil
}

// chartSeries projects the most recent samples into an ascending trend
// series. Samples arrive newest first; the slice is walked backwards so the
// chart reads oldest to newest without re-sorting month-day labels.
func chartSeries(samples []*types.HealthSample) []ChartPoint {
	recent := samples
	if len(recent) > chartSeriesLimit {
		recent = recent[:chartSeriesLimit]
	}

	points := make([]ChartPoint, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		sample := recent[i]
		points = append(points, ChartPoint{
			Date:         sample.Date.Format("01-02"),
			Weight:       sample.Weight,
			BodyFat:      sample.BodyFat,
			Steps:        sample.Steps,
			Calories:     sample.Calories,
			WaterIntake:  sample.WaterIntake,
			BloodGlucose: sample.BloodGlucose,
			SleepHours:   sample.SleepHours,
			HeartRate:    sample.HeartRate,
		})
	}
	return points
}
