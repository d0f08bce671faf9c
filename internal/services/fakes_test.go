package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeAdvisorClient struct {
	response     string
	err          error
	calls        int
	lastMessages []ChatMessage
}

func (f *fakeAdvisorClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	f.calls++
	f.lastMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeUserRepo struct {
	user *types.User
	err  error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && f.user.ID == userID {
		return f.user, nil
	}
	return nil, nil
}

type fakeSampleRepo struct {
	samples   []*types.HealthSample
	createErr error
	updateErr error

	created []*types.HealthSample
	updated []*types.HealthSample
	deleted []uuid.UUID
}

func (f *fakeSampleRepo) Create(ctx context.Context, tx *gorm.DB, sample *types.HealthSample) (*types.HealthSample, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if sample.ID == uuid.Nil {
		sample.ID = uuid.New()
	}
	f.created = append(f.created, sample)
	f.samples = append([]*types.HealthSample{sample}, f.samples...)
	return sample, nil
}

func (f *fakeSampleRepo) Update(ctx context.Context, tx *gorm.DB, sample *types.HealthSample) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, sample)
	return nil
}

func (f *fakeSampleRepo) Delete(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) error {
	f.deleted = append(f.deleted, sampleID)
	return nil
}

func (f *fakeSampleRepo) GetByID(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) (*types.HealthSample, error) {
	for _, s := range f.samples {
		if s.ID == sampleID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSampleRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.HealthSample, error) {
	for _, s := range f.samples {
		if s.UserID == userID && s.Date.Equal(date) {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSampleRepo) LatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.HealthSample, error) {
	var latest *types.HealthSample
	for _, s := range f.samples {
		if s.UserID != userID {
			continue
		}
		if latest == nil || s.Date.After(latest.Date) {
			latest = s
		}
	}
	return latest, nil
}

func (f *fakeSampleRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.HealthSample, error) {
	var out []*types.HealthSample
	for _, s := range f.samples {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakePlanRepo struct {
	plans     []*types.Plan
	createErr error
}

func (f *fakePlanRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.Plan) (*types.Plan, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	f.plans = append([]*types.Plan{plan}, f.plans...)
	return plan, nil
}

func (f *fakePlanRepo) GetByID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*types.Plan, error) {
	for _, p := range f.plans {
		if p.ID == planID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanRepo) LatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Plan, error) {
	for _, p := range f.plans {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Plan, error) {
	var out []*types.Plan
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTaskRepo struct {
	tasks    []*types.Task
	batchErr error

	batchCalls int
	updated    []*types.Task
	deleted    []uuid.UUID
}

func (f *fakeTaskRepo) CreateBatch(ctx context.Context, tx *gorm.DB, tasks []*types.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batchCalls++
	for _, task := range tasks {
		if task.ID == uuid.Nil {
			task.ID = uuid.New()
		}
		f.tasks = append(f.tasks, task)
	}
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) (*types.Task, error) {
	for _, task := range f.tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return nil, nil
}

func (f *fakeTaskRepo) ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.Task, error) {
	var out []*types.Task
	for _, task := range f.tasks {
		if task.PlanID == planID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, tx *gorm.DB, task *types.Task) error {
	f.updated = append(f.updated, task)
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) error {
	f.deleted = append(f.deleted, taskID)
	for i, task := range f.tasks {
		if task.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			break
		}
	}
	return nil
}

type fakeAssessmentRepo struct {
	stored    *types.Assessment
	upsertErr error
	upserts   int
}

func (f *fakeAssessmentRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Assessment, error) {
	if f.stored != nil && f.stored.UserID == userID {
		return f.stored, nil
	}
	return nil, nil
}

func (f *fakeAssessmentRepo) Upsert(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.stored = assessment
	return nil
}

func passthroughTransact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
