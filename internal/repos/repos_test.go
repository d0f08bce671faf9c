package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Yanami-qaq/health-assistant/internal/repos/testutil"
	"github.com/Yanami-qaq/health-assistant/internal/types"
)

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSampleRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewSampleRepo(db, testutil.Logger(t))
	userID := uuid.New()

	first, err := repo.Create(ctx, tx, &types.HealthSample{
		UserID: userID,
		Date:   day("2026-03-01"),
		Weight: fptr(70.5),
		Steps:  iptr(8000),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, &types.HealthSample{
		UserID: userID,
		Date:   day("2026-03-03"),
		Steps:  iptr(12000),
	}); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	got, err := repo.GetByUserAndDate(ctx, tx, userID, day("2026-03-01"))
	if err != nil {
		t.Fatalf("GetByUserAndDate: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("GetByUserAndDate: unexpected result: %+v", got)
	}

	missing, err := repo.GetByUserAndDate(ctx, tx, userID, day("2026-03-02"))
	if err != nil {
		t.Fatalf("GetByUserAndDate (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByUserAndDate (missing): expected nil, got %+v", missing)
	}

	latest, err := repo.LatestByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("LatestByUser: %v", err)
	}
	if latest == nil || !latest.Date.Equal(day("2026-03-03")) {
		t.Fatalf("LatestByUser: expected 2026-03-03, got %+v", latest)
	}

	all, err := repo.ListByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 2 || !all[0].Date.After(all[1].Date) {
		t.Fatalf("ListByUser: expected 2 rows newest first, got %+v", all)
	}

	first.Steps = iptr(9500)
	if err := repo.Update(ctx, tx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := repo.GetByID(ctx, tx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Steps == nil || *updated.Steps != 9500 {
		t.Fatalf("Update: steps not persisted: %+v", updated)
	}

	if err := repo.Delete(ctx, tx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := repo.GetByID(ctx, tx, first.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("GetByID after delete: expected nil, got %+v", gone)
	}
}

func TestPlanAndTaskRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	planRepo := NewPlanRepo(db, testutil.Logger(t))
	taskRepo := NewTaskRepo(db, testutil.Logger(t))
	userID := uuid.New()

	older, err := planRepo.Create(ctx, tx, &types.Plan{
		UserID:    userID,
		Goal:      types.GoalWeightLoss,
		Content:   "cut 300 kcal per day",
		CreatedAt: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create older plan: %v", err)
	}
	newer, err := planRepo.Create(ctx, tx, &types.Plan{
		UserID:  userID,
		Goal:    types.GoalWeightLoss,
		Content: "add two strength sessions",
	})
	if err != nil {
		t.Fatalf("Create newer plan: %v", err)
	}

	if err := taskRepo.CreateBatch(ctx, tx, []*types.Task{
		{PlanID: newer.ID, Position: 0, Title: "Walk 8000 steps"},
		{PlanID: newer.ID, Position: 1, Title: "Drink 2L of water"},
	}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	latest, err := planRepo.LatestByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("LatestByUser: %v", err)
	}
	if latest == nil || latest.ID != newer.ID {
		t.Fatalf("LatestByUser: expected newest plan, got %+v", latest)
	}

	history, err := planRepo.ListByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(history) != 2 || history[0].ID != newer.ID || history[1].ID != older.ID {
		t.Fatalf("ListByUser: expected newest first, got %+v", history)
	}

	tasks, err := taskRepo.ListByPlan(ctx, tx, newer.ID)
	if err != nil {
		t.Fatalf("ListByPlan: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Position != 0 || tasks[1].Position != 1 {
		t.Fatalf("ListByPlan: expected 2 tasks in position order, got %+v", tasks)
	}

	tasks[0].Done = true
	if err := taskRepo.Update(ctx, tx, tasks[0]); err != nil {
		t.Fatalf("Update task: %v", err)
	}
	toggled, err := taskRepo.GetByID(ctx, tx, tasks[0].ID)
	if err != nil {
		t.Fatalf("GetByID task: %v", err)
	}
	if !toggled.Done {
		t.Fatalf("Update task: done flag not persisted")
	}

	if err := taskRepo.Delete(ctx, tx, tasks[1].ID); err != nil {
		t.Fatalf("Delete task: %v", err)
	}
	remaining, err := taskRepo.ListByPlan(ctx, tx, newer.ID)
	if err != nil {
		t.Fatalf("ListByPlan after delete: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("ListByPlan after delete: expected 1 task, got %d", len(remaining))
	}
}

func TestPlanCreationRollsBackWithTasks(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	planRepo := NewPlanRepo(db, testutil.Logger(t))
	taskRepo := NewTaskRepo(db, testutil.Logger(t))
	userID := uuid.New()

	boom := errors.New("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := planRepo.Create(ctx, tx, &types.Plan{
			UserID:  userID,
			Content: "doomed plan",
		}); err != nil {
			return err
		}
		// Failure between header and task writes must erase the header too.
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction: want injected failure, got %v", err)
	}

	var count int64
	if err := db.Model(&types.Plan{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("orphan plan rows after rollback: %d", count)
	}

	if err := taskRepo.CreateBatch(ctx, nil, nil); err != nil {
		t.Fatalf("CreateBatch(empty): %v", err)
	}
}

func TestAssessmentRepoUpsertKeepsSingleRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewAssessmentRepo(db, testutil.Logger(t))
	userID := uuid.New()

	none, err := repo.GetByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetByUser (empty): %v", err)
	}
	if none != nil {
		t.Fatalf("GetByUser (empty): expected nil, got %+v", none)
	}

	if err := repo.Upsert(ctx, tx, &types.Assessment{
		UserID:      userID,
		HealthScore: 62,
		Breakdown:   datatypes.JSON([]byte(`{"movement":50}`)),
		Suggestions: datatypes.JSON([]byte(`["sleep earlier"]`)),
		Summary:     "decent baseline",
	}); err != nil {
		t.Fatalf("Upsert (insert): %v", err)
	}

	if err := repo.Upsert(ctx, tx, &types.Assessment{
		UserID:      userID,
		HealthScore: 81,
		Breakdown:   datatypes.JSON([]byte(`{"movement":90}`)),
		Suggestions: datatypes.JSON([]byte(`["keep it up"]`)),
		Summary:     "improving",
	}); err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}

	var count int64
	if err := tx.Model(&types.Assessment{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 assessment row, got %d", count)
	}

	got, err := repo.GetByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if got == nil || got.HealthScore != 81 || got.Summary != "improving" {
		t.Fatalf("GetByUser: expected regenerated snapshot, got %+v", got)
	}
}
