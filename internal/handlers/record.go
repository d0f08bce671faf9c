package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Yanami-qaq/health-assistant/internal/apierr"
	"github.com/Yanami-qaq/health-assistant/internal/health"
	"github.com/Yanami-qaq/health-assistant/internal/logger"
	"github.com/Yanami-qaq/health-assistant/internal/requestdata"
	"github.com/Yanami-qaq/health-assistant/internal/services"
)

type RecordHandler struct {
	log     *logger.Logger
	records services.RecordService
	sync    services.SyncService
}

func NewRecordHandler(log *logger.Logger, records services.RecordService, sync services.SyncService) *RecordHandler {
	return &RecordHandler{
		log:     log.With("Handler", "RecordHandler"),
		records: records,
		sync:    sync,
	}
}

// Submit accepts the day's metrics as raw strings, exactly as the entry form
// produces them; validation happens behind the service boundary.
func (h *RecordHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.records.Submit(c.Request.Context(), rd.UserID, fields, health.ManualEntry)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if !result.Validation.OK {
		RespondErrorDetails(c, http.StatusUnprocessableEntity, apierr.CodeValidationFailed,
			"submitted metrics failed validation", result.Validation.Errors)
		return
	}
	RespondOK(c, result.Sample)
}

func (h *RecordHandler) Sync(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	result, err := h.sync.SyncDevice(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result.Sample)
}

func (h *RecordHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	samples, err := h.records.List(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"records": samples})
}

func (h *RecordHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid record id"))
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.records.Update(c.Request.Context(), rd.UserID, sampleID, fields)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if !result.Validation.OK {
		RespondErrorDetails(c, http.StatusUnprocessableEntity, apierr.CodeValidationFailed,
			"submitted metrics failed validation", result.Validation.Errors)
		return
	}
	RespondOK(c, result.Sample)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
		return
	}

	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid record id"))
		return
	}

	if err := h.records.Delete(c.Request.Context(), rd.UserID, sampleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
