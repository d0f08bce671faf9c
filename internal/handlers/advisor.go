package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/requestdata"
	"github.com/Yanami-qaq/health-assistant/internal/services"
)

type AdvisorHandler struct {
	log     *logger.Logger
	advisor services.AdvisorService
}

func NewAdvisorHandler(log *logger.Logger, advisor services.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{
		log:     log.With("Handler", "AdvisorHandler"),
		advisor: advisor,
	}
}

type chatRequest struct {
	Message string              `json:"message"`
	History []services.ChatTurn `json:"history"`
	Save    bool                `json:"save"`
}

func (h *AdvisorHandler) Chat(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("message is required"))
		return
	}

	result, err := h.advisor.Chat(c.Request.Context(), rd.UserID, req.Message, req.History, req.Save)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
