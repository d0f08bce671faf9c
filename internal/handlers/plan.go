package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/requestdata"
	"github.com/Yanami-qaq/health-assistant/internal/services"
)

type PlanHandler struct {
	log   *logger.Logger
	plans services.PlanService
}

func NewPlanHandler(log *logger.Logger, plans services.PlanService) *PlanHandler {
	return &PlanHandler{
		log:   log.With("Handler", "PlanHandler"),
		plans: plans,
	}
}

func (h *PlanHandler) Latest(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	view, err := h.plans.Latest(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if view == nil {
		RespondOK(c, gin.H{"plan": nil, "tasks": []any{}})
		return
	}
	RespondOK(c, view)
}

func (h *PlanHandler) History(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	views, err := h.plans.History(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"plans": views})
}

func (h *PlanHandler) ToggleTask(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid task id"))
		return
	}

	task, err := h.plans.ToggleTask(c.Request.Context(), rd.UserID, taskID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"done": task.Done})
}

type updateTaskRequest struct {
	Title string `json:"title"`
}

func (h *PlanHandler) UpdateTask(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid task id"))
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	task, err := h.plans.UpdateTask(c.Request.Context(), rd.UserID, taskID, req.Title)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, task)
}

func (h *PlanHandler) DeleteTask(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid task id"))
		return
	}

	if err := h.plans.DeleteTask(c.Request.Context(), rd.UserID, taskID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
