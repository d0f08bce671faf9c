package services

import (
	"context"
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

const (
	historyWindow = 6

	fallbackReply = "The advisor is temporarily unavailable. Your data is safe; please try again in a moment."

	advisorSystemPrompt = `You are a personal health advisor. You are given the user's health profile below; treat "unknown" fields as data gaps and do not invent values for them.

Respond with a single JSON object and nothing else:
{"reply": "<your conversational answer>", "tasks": [{"title": "<one concrete action>", "done": false}]}

Include tasks only when the user asks for a plan or concrete actions; otherwise return an empty tasks array.

User profile:
`
)

// ChatTurn is one prior turn of the conversation, supplied by the caller.
// The service only ever reads the most recent window.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type ChatResult struct {
	Reply        string `json:"reply"`
	TasksCreated bool   `json:"tasks_created"`
}

type AdvisorService interface {
	Chat(ctx context.Context, userID uuid.UUID, message string, history []ChatTurn, forceSave bool) (*ChatResult, error)
}

type advisorService struct {
	db         *gorm.DB
	log        *logger.Logger
	client     AdvisorClient
	userRepo   repos.UserRepo
	sampleRepo repos.SampleRepo
	planRepo   repos.PlanRepo
	taskRepo   repos.TaskRepo
	transact   func(ctx context.Context, fn func(tx *gorm.DB) error) error
	now        func() time.Time
}

func NewAdvisorService(
	db *gorm.DB,
	baseLog *logger.Logger,
	client AdvisorClient,
	userRepo repos.UserRepo,
	sampleRepo repos.SampleRepo,
	planRepo repos.PlanRepo,
	taskRepo repos.TaskRepo,
) AdvisorService {
	return &advisorService{
		db:         db,
		log:        baseLog.With("service", "AdvisorService"),
		client:     client,
		userRepo:   userRepo,
		sampleRepo: sampleRepo,
		planRepo:   planRepo,
		taskRepo:   taskRepo,
		transact: func(ctx context.Context, fn func(tx *gorm.DB) error) error {
			return db.WithContext(ctx).Transaction(fn)
		},
		now: time.Now,
	}
}

func (s *advisorService) Chat(ctx context.Context, userID uuid.UUID, message string, history []ChatTurn, forceSave bool) (*ChatResult, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.New(404, apierr.CodeNotFound, nil)
	}

	latest, err := s.sampleRepo.LatestByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	profile := health.BuildProfile(user, latest, s.now())
	messages := buildChatMessages(profile, history, message)

	raw, err := s.client.Complete(ctx, messages)
	if err != nil {
		s.log.Warn("Advisor completion failed, serving fallback reply",
			"user_id", userID.String(),
			"error", err.Error(),
		)
		return &ChatResult{Reply: fallbackReply, TasksCreated: false}, nil
	}

	advice := ParseAdvice(raw)

	if len(advice.Tasks) > 0 || forceSave || containsPlanKeyword(message) {
		if err := s.savePlan(ctx, user, advice); err != nil {
			s.log.Error("Plan persistence failed",
				"user_id", userID.String(),
				"error", err.Error(),
			)
			return nil, apierr.New(500, apierr.CodePersistenceFailed, err)
		}
		return &ChatResult{Reply: advice.Reply, TasksCreated: len(advice.Tasks) > 0}, nil
	}

	return &ChatResult{Reply: advice.Reply, TasksCreated: false}, nil
}

// savePlan writes the plan header and its tasks in one transaction: a partial
// plan (header without its tasks, or a truncated task list) must never be
// observable.
func (s *advisorService) savePlan(ctx context.Context, user *types.User, advice ParsedAdvice) error {
	return s.transact(ctx, func(tx *gorm.DB) error {
		plan, err := s.planRepo.Create(ctx, tx, &types.Plan{
			UserID:  user.ID,
			Goal:    user.Goal,
			Content: advice.Reply,
		})
		if err != nil {
			return err
		}

		tasks := make([]*types.Task, 0, len(advice.Tasks))
		for i, title := range advice.Tasks {
			tasks = append(tasks, &types.Task{
				PlanID:   plan.ID,
				Position: i,
				Title:    title,
			})
		}
		return s.taskRepo.CreateBatch(ctx, tx, tasks)
	})
}

func buildChatMessages(profile string, history []ChatTurn, message string) []ChatMessage {
	messages := []ChatMessage{
		{Role: "system", Content: advisorSystemPrompt + profile},
	}

	bounded := boundHistory(history)
	for _, turn := range bounded {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Text})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: message})
	return messages
}

// boundHistory keeps the most recent turns with recognized roles. Unknown
// roles are dropped before windowing so a noisy caller cannot crowd real
// context out of the window.
func boundHistory(history []ChatTurn) []ChatTurn {
	filtered := make([]ChatTurn, 0, len(history))
	for _, turn := range history {
		if turn.Role != "user" && turn.Role != "assistant" {
			continue
		}
		if strings.TrimSpace(turn.Text) == "" {
			continue
		}
		filtered = append(filtered, turn)
	}
	if len(filtered) > historyWindow {
		filtered = filtered[len(filtered)-historyWindow:]
	}
	return filtered
}

func containsPlanKeyword(message string) bool {
	lowered := strings.ToLower(message)
	return strings.Contains(lowered, "plan") || strings.Contains(lowered, "计划")
}
