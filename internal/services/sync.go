package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Yanami-qaq/health-assistant/internal/health"
	"github.com/Yanami-qaq/health-assistant/internal/logger"
)

// SyncService simulates a wearable-device import: it fabricates one day of
// plausible readings and pushes them through the same submission path as a
// manual entry, so validation and the one-row-per-day merge still apply.
type SyncService interface {
	SyncDevice(ctx context.Context, userID uuid.UUID) (*SubmitResult, error)
}

type syncService struct {
	log     *logger.Logger
	records RecordService
}

func NewSyncService(baseLog *logger.Logger, records RecordService) SyncService {
	return &syncService{
		log:     baseLog.With("service", "SyncService"),
		records: records,
	}
}

func (s *syncService) SyncDevice(ctx context.Context, userID uuid.UUID) (*SubmitResult, error) {
	systolic := 110 + rand.Intn(31)
	diastolic := 70 + rand.Intn(21)

	fields := map[string]string{
		"weight":      fmt.Sprintf("%.1f", 55+rand.Float64()*30),
		"steps":       fmt.Sprintf("%d", 3000+rand.Intn(12001)),
		"calories":    fmt.Sprintf("%d", 200+rand.Intn(601)),
		"sleep_hours": fmt.Sprintf("%.1f", 5.5+rand.Float64()*3.5),
		"heart_rate":  fmt.Sprintf("%d", 60+rand.Intn(41)),
		"systolic":    fmt.Sprintf("%d", systolic),
		"diastolic":   fmt.Sprintf("%d", diastolic),
		"note":        fmt.Sprintf("Imported from device sync at %s", time.Now().UTC().Format("2006-01-02 15:04")),
	}

	s.log.Debug("Device sync generated sample", "user_id", userID.String())
	return s.records.Submit(ctx, userID, fields, health.DeviceSync)
}
