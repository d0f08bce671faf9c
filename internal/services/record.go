package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Yanami-qaq/health-assistant/internal/apierr"
	"github.com/Yanami-qaq/health-assistant/internal/health"
	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/repos"
	"github.com/Yanami-qaq/health-assistant/internal/types"
)

// SubmitResult carries either the full list of validation failures or the
// stored sample, never both.
type SubmitResult struct {
	Validation health.ValidationResult `json:"validation"`
	Sample     *types.HealthSample     `json:"sample,omitempty"`
}

type RecordService interface {
	Submit(ctx context.Context, userID uuid.UUID, fields map[string]string, mode health.EntryMode) (*SubmitResult, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.HealthSample, error)
	Update(ctx context.Context, userID, sampleID uuid.UUID, fields map[string]string) (*SubmitResult, error)
	Delete(ctx context.Context, userID, sampleID uuid.UUID) error
}

type recordService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	sampleRepo repos.SampleRepo
	now        func() time.Time
}

func NewRecordService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, sampleRepo repos.SampleRepo) RecordService {
	return &recordService{
		db:         db,
		log:        baseLog.With("service", "RecordService"),
		userRepo:   userRepo,
		sampleRepo: sampleRepo,
		now:        time.Now,
	}
}

func (s *recordService) Submit(ctx context.Context, userID uuid.UUID, fields map[string]string, mode health.EntryMode) (*SubmitResult, error) {
	validation := health.Validate(fields, mode)
	if !validation.OK {
		return &SubmitResult{Validation: validation}, nil
	}

	date, err := resolveDate(fields["date"], s.now())
	if err != nil {
		return &SubmitResult{Validation: health.ValidationResult{
			Errors: []string{"date must be formatted as YYYY-MM-DD"},
		}}, nil
	}

	// Device syncs may omit weight; fall back to the settings weight so a
	// synced day still contributes to body scoring.
	if mode == health.DeviceSync && strings.TrimSpace(fields["weight"]) == "" {
		user, err := s.userRepo.GetByID(ctx, nil, userID)
		if err != nil {
			return nil, err
		}
		if user != nil && user.WeightKG != nil {
			fields["weight"] = strconv.FormatFloat(*user.WeightKG, 'f', -1, 64)
		}
	}

	existing, err := s.sampleRepo.GetByUserAndDate(ctx, nil, userID, date)
	if err != nil {
		return nil, err
	}

	// One row per user per day: a resubmission for the same date merges the
	// provided fields onto the stored row instead of duplicating it.
	if existing != nil {
		applyFields(existing, fields)
		if err := s.sampleRepo.Update(ctx, nil, existing); err != nil {
			return nil, err
		}
		return &SubmitResult{Validation: validation, Sample: existing}, nil
	}

	sample := &types.HealthSample{UserID: userID, Date: date}
	applyFields(sample, fields)
	created, err := s.sampleRepo.Create(ctx, nil, sample)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Validation: validation, Sample: created}, nil
}

func (s *recordService) List(ctx context.Context, userID uuid.UUID) ([]*types.HealthSample, error) {
	return s.sampleRepo.ListByUser(ctx, nil, userID)
}

func (s *recordService) Update(ctx context.Context, userID, sampleID uuid.UUID, fields map[string]string) (*SubmitResult, error) {
	sample, err := s.ownedSample(ctx, userID, sampleID)
	if err != nil {
		return nil, err
	}

	// Edits run the same checks as a fresh manual entry, weight included.
	validation := health.Validate(fields, health.ManualEntry)
	if !validation.OK {
		return &SubmitResult{Validation: validation}, nil
	}

	applyFields(sample, fields)
	if err := s.sampleRepo.Update(ctx, nil, sample); err != nil {
		return nil, err
	}
	return &SubmitResult{Validation: validation, Sample: sample}, nil
}

func (s *recordService) Delete(ctx context.Context, userID, sampleID uuid.UUID) error {
	if _, err := s.ownedSample(ctx, userID, sampleID); err != nil {
		return err
	}
	return s.sampleRepo.Delete(ctx, nil, sampleID)
}

func (s *recordService) ownedSample(ctx context.Context, userID, sampleID uuid.UUID) (*types.HealthSample, error) {
	sample, err := s.sampleRepo.GetByID(ctx, nil, sampleID)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, apierr.New(404, apierr.CodeNotFound, nil)
	}
	if sample.UserID != userID {
		return nil, apierr.New(403, apierr.CodeForbidden, nil)
	}
	return sample, nil
}

func resolveDate(raw string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", trimmed)
}

// applyFields copies validated raw fields onto the sample. Absent fields are
// left untouched so merges never erase previously recorded values.
func applyFields(sample *types.HealthSample, fields map[string]string) {
	setFloat := func(name string, dst **float64) {
		raw := strings.TrimSpace(fields[name])
		if raw == "" {
			return
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			*dst = &v
		}
	}
	setInt := func(name string, dst **int) {
		raw := strings.TrimSpace(fields[name])
		if raw == "" {
			return
		}
		if v, err := strconv.Atoi(raw); err == nil {
			*dst = &v
		}
	}

	setFloat("weight", &sample.Weight)
	setFloat("body_fat", &sample.BodyFat)
	setInt("steps", &sample.Steps)
	setInt("calories", &sample.Calories)
	setInt("water_intake", &sample.WaterIntake)
	setFloat("blood_glucose", &sample.BloodGlucose)
	setFloat("sleep_hours", &sample.SleepHours)
	setInt("heart_rate", &sample.HeartRate)
	setInt("systolic", &sample.Systolic)
	setInt("diastolic", &sample.Diastolic)

	if note, ok := fields["note"]; ok {
		sample.Note = strings.TrimSpace(note)
	}
}
