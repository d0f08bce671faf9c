package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yanami-qaq/health-assistant/internal/apierr"
	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/requestdata"
	"github.com/Yanami-qaq/health-assistant/internal/services"
)

type AssessmentHandler struct {
	log         *logger.Logger
	assessments services.AssessmentService
}

func NewAssessmentHandler(log *logger.Logger, assessments services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		log:         log.With("Handler", "AssessmentHandler"),
		assessments: assessments,
	}
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	h.respond(c, false)
}

func (h *AssessmentHandler) Regenerate(c *gin.Context) {
	h.respond(c, true)
}

func (h *AssessmentHandler) respond(c *gin.Context, force bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	outcome, err := h.assessments.GetOrGenerate(c.Request.Context(), rd.UserID, force)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	switch outcome.Status {
	case services.AssessmentStatusIncomplete:
		RespondErrorDetails(c, http.StatusUnprocessableEntity, apierr.CodeIncompleteData,
			"profile is missing data required for an assessment", outcome.Missing)
	case services.AssessmentStatusDataError:
		RespondErrorDetails(c, http.StatusUnprocessableEntity, apierr.CodeDataQuality,
			"stored metrics are implausible, correct them before assessing", outcome.Violations)
	default:
		RespondOK(c, outcome.Assessment)
	}
}
