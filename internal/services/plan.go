package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Yanami-qaq/health-assistant/internal/apierr"
	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/repos"
	"github.com/Yanami-qaq/health-assistant/internal/types"
)

// PlanView is a plan header with its ordered tasks attached.
type PlanView struct {
	Plan  *types.Plan   `json:"plan"`
	Tasks []*types.Task `json:"tasks"`
}

type PlanService interface {
	Latest(ctx context.Context, userID uuid.UUID) (*PlanView, error)
	History(ctx context.Context, userID uuid.UUID) ([]*PlanView, error)
	ToggleTask(ctx context.Context, userID, taskID uuid.UUID) (*types.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, title string) (*types.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type planService struct {
	db       *gorm.DB
	log      *logger.Logger
	planRepo repos.PlanRepo
	taskRepo repos.TaskRepo
}

func NewPlanService(db *gorm.DB, baseLog *logger.Logger, planRepo repos.PlanRepo, taskRepo repos.TaskRepo) PlanService {
	return &planService{
		db:       db,
		log:      baseLog.With("service", "PlanService"),
		planRepo: planRepo,
		taskRepo: taskRepo,
	}
}

func (s *planService) Latest(ctx context.Context, userID uuid.UUID) (*PlanView, error) {
	plan, err := s.planRepo.LatestByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}

	tasks, err := s.taskRepo.ListByPlan(ctx, nil, plan.ID)
	if err != nil {
		return nil, err
	}
	return &PlanView{Plan: plan, Tasks: tasks}, nil
}

func (s *planService) History(ctx context.Context, userID uuid.UUID) ([]*PlanView, error) {
	plans, err := s.planRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*PlanView, 0, len(plans))
	for _, plan := range plans {
		tasks, err := s.taskRepo.ListByPlan(ctx, nil, plan.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, &PlanView{Plan: plan, Tasks: tasks})
	}
	return views, nil
}

func (s *planService) ToggleTask(ctx context.Context, userID, taskID uuid.UUID) (*types.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Done = !task.Done
	if err := s.taskRepo.Update(ctx, nil, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *planService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, title string) (*types.Task, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, apierr.New(422, apierr.CodeValidationFailed, nil)
	}

	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = trimmed
	if err := s.taskRepo.Update(ctx, nil, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *planService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, nil, taskID)
}

// ownedTask resolves task ownership through its plan: tasks do not carry a
// user id of their own.
func (s *planService) ownedTask(ctx context.Context, userID, taskID uuid.UUID) (*types.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, nil, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apierr.New(404, apierr.CodeNotFound, nil)
	}

	plan, err := s.planRepo.GetByID(ctx, nil, task.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.UserID != userID {
		return nil, apierr.New(403, apierr.CodeForbidden, nil)
	}
	return task, nil
}
