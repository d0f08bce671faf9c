package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Yanami-qaq/health-assistant/internal/apierr"
	"github.com/Yanami-qaq/health-assistant/internal/health"
	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/repos"
	"github.com/Yanami-qaq/health-assistant/internal/types"
)

const assessmentSystemPrompt = `You are a health evaluator. From the user profile below, produce an overall evaluation.

Respond with a single JSON object and nothing else:
{"health_score": <integer 0-100>, "assessments": {"<metric>": {"value": "<observed value>", "level": "good|fair|poor", "comment": "<one sentence>"}}, "suggestions": ["<short actionable suggestion>"], "summary": "<two or three sentences>"}

Only evaluate metrics that are present in the profile; skip unknown fields.

User profile:
`

const (
	AssessmentStatusOK         = "ok"
	AssessmentStatusIncomplete = "incomplete"
	AssessmentStatusDataError  = "data_error"
)

// AssessmentOutcome is the typed result of an assessment request. Gate
// failures are outcomes, not errors: the caller renders the missing fields or
// violations back to the user.
type AssessmentOutcome struct {
	Status     string            `json:"status"`
	Missing    []string          `json:"missing,omitempty"`
	Violations []string          `json:"violations,omitempty"`
	Assessment *types.Assessment `json:"assessment,omitempty"`
}

type AssessmentService interface {
	GetOrGenerate(ctx context.Context, userID uuid.UUID, forceRegenerate bool) (*AssessmentOutcome, error)
}

type assessmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	client         AdvisorClient
	userRepo       repos.UserRepo
	sampleRepo     repos.SampleRepo
	assessmentRepo repos.AssessmentRepo
	now            func() time.Time
}

func NewAssessmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	client AdvisorClient,
	userRepo repos.UserRepo,
	sampleRepo repos.SampleRepo,
	assessmentRepo repos.AssessmentRepo,
) AssessmentService {
	return &assessmentService{
		db:             db,
		log:            baseLog.With("service", "AssessmentService"),
		client:         client,
		userRepo:       userRepo,
		sampleRepo:     sampleRepo,
		assessmentRepo: assessmentRepo,
		now:            time.Now,
	}
}

func (s *assessmentService) GetOrGenerate(ctx context.Context, userID uuid.UUID, forceRegenerate bool) (*AssessmentOutcome, error) {
	if !forceRegenerate {
		existing, err := s.assessmentRepo.GetByUser(ctx, nil, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &AssessmentOutcome{Status: AssessmentStatusOK, Assessment: existing}, nil
		}
	}

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

	// Both gates run before any model call: generating an evaluation from
	// absent or implausible data would only launder bad inputs into
	// confident-looking output.
	if missing := missingPrerequisites(user, latest); len(missing) > 0 {
		return &AssessmentOutcome{Status: AssessmentStatusIncomplete, Missing: missing}, nil
	}
	if violations := health.CheckSampleQuality(latest); len(violations) > 0 {
		return &AssessmentOutcome{Status: AssessmentStatusDataError, Violations: violations}, nil
	}

	profile := health.BuildProfile(user, latest, s.now())
	raw, err := s.client.Complete(ctx, []ChatMessage{
		{Role: "system", Content: assessmentSystemPrompt + profile},
		{Role: "user", Content: "Generate my health assessment."},
	})
	if err != nil {
		s.log.Warn("Assessment completion failed",
			"user_id", userID.String(),
			"error", err.Error(),
		)
		return nil, apierr.New(502, apierr.CodeAdvisorUnavailable, err)
	}

	payload, err := parseAssessmentPayload(raw)
	if err != nil {
		s.log.Warn("Assessment payload unparseable",
			"user_id", userID.String(),
			"error", err.Error(),
		)
		return nil, apierr.New(502, apierr.CodeAdvisorUnavailable, err)
	}

	assessment, err := s.persist(ctx, userID, payload)
	if err != nil {
		s.log.Error("Assessment persistence failed",
			"user_id", userID.String(),
			"error", err.Error(),
		)
		return nil, apierr.New(500, apierr.CodePersistenceFailed, err)
	}
	return &AssessmentOutcome{Status: AssessmentStatusOK, Assessment: assessment}, nil
}

func (s *assessmentService) persist(ctx context.Context, userID uuid.UUID, payload *assessmentPayload) (*types.Assessment, error) {
	breakdown, err := json.Marshal(payload.Assessments)
	if err != nil {
		return nil, err
	}
	suggestions, err := json.Marshal(payload.Suggestions)
	if err != nil {
		return nil, err
	}

	assessment := &types.Assessment{
		UserID:      userID,
		HealthScore: clampScore(payload.HealthScore),
		Breakdown:   datatypes.JSON(breakdown),
		Suggestions: datatypes.JSON(suggestions),
		Summary:     strings.TrimSpace(payload.Summary),
	}
	if err := s.assessmentRepo.Upsert(ctx, nil, assessment); err != nil {
		return nil, err
	}

	stored, err := s.assessmentRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return assessment, nil
	}
	return stored, nil
}

// missingPrerequisites names what the gate still needs. Height lives on the
// profile; weight must come from the latest sample, the same reading the
// profile and BMI are built from. A settings-only weight is not enough.
func missingPrerequisites(user *types.User, latest *types.HealthSample) []string {
	if latest == nil {
		return []string{"health sample"}
	}
	var missing []string
	if user.HeightCM == nil {
		missing = append(missing, "height")
	}
	if latest.Weight == nil {
		missing = append(missing, "weight")
	}
	return missing
}

type assessmentItem struct {
	Value   string `json:"value"`
	Level   string `json:"level"`
	Comment string `json:"comment"`
}

type assessmentPayload struct {
	HealthScore int                       `json:"health_score"`
	Assessments map[string]assessmentItem `json:"assessments"`
	Suggestions []string                  `json:"suggestions"`
	Summary     string                    `json:"summary"`
}

// parseAssessmentPayload reuses the JSON stages of the advisory cascade.
// There is no plain-text fallback here: an evaluation that cannot be decoded
// into structured form has no usable rendering.
func parseAssessmentPayload(raw string) (*assessmentPayload, error) {
	trimmed := strings.TrimSpace(raw)

	candidates := []string{trimmed, stripCodeFences(trimmed)}
	if inner, ok := extractJSONObject(trimmed); ok {
		candidates = append(candidates, inner)
	}

	for _, candidate := range candidates {
		if candidate == "" || !strings.HasPrefix(candidate, "{") {
			continue
		}
		var payload assessmentPayload
		if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
			continue
		}
		if payload.Summary == "" && len(payload.Assessments) == 0 && len(payload.Suggestions) == 0 {
			continue
		}
		return &payload, nil
	}
	return nil, fmt.Errorf("unparseable assessment output")
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
