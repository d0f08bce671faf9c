package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/types"
)

type SampleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sample *types.HealthSample) (*types.HealthSample, error)
	Update(ctx context.Context, tx *gorm.DB, sample *types.HealthSample) error
	Delete(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) error
	GetByID(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) (*types.HealthSample, error)
	GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.HealthSample, error)
	LatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.HealthSample, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.HealthSample, error)
}

type sampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSampleRepo(db *gorm.DB, baseLog *logger.Logger) SampleRepo {
	return &sampleRepo{db: db, log: baseLog.With("repo", "SampleRepo")}
}

func (r *sampleRepo) Create(ctx context.Context, tx *gorm.DB, sample *types.HealthSample) (*types.HealthSample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(sample).Error; err != nil {
		return nil, err
	}
	return sample, nil
}

func (r *sampleRepo) Update(ctx context.Context, tx *gorm.DB, sample *types.HealthSample) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(sample).Error
}

func (r *sampleRepo) Delete(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", sampleID).
		Delete(&types.HealthSample{}).Error
}

func (r *sampleRepo) GetByID(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) (*types.HealthSample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.HealthSample
	if err := transaction.WithContext(ctx).
		Where("id = ?", sampleID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *sampleRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.HealthSample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.HealthSample
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *sampleRepo) LatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.HealthSample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.HealthSample
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *sampleRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.HealthSample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.HealthSample
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
