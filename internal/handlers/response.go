package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yanami-qaq/health-assistant/internal/apierr"
)

type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondErrorDetails(c *gin.Context, status int, code string, message string, details []string) {
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: message,
			Code:    code,
			Details: details,
		},
	})
}

// Wire messages per error code. The wrapped cause may carry upstream response
// bodies or database error text and must never reach the client; services log
// it before returning the typed error.
var serviceErrorMessages = map[string]string{
	apierr.CodeValidationFailed:   "validation failed",
	apierr.CodeIncompleteData:     "incomplete data",
	apierr.CodeDataQuality:        "data quality check failed",
	apierr.CodeAdvisorUnavailable: "advisor unavailable, please try again in a moment",
	apierr.CodePersistenceFailed:  "save failed, please try again",
	apierr.CodeNotFound:           "not found",
	apierr.CodeForbidden:          "forbidden",
}

// RespondServiceError maps a typed service error onto the wire. Only the fixed
// per-code message is rendered; the wrapped cause and any untyped error detail
// stay out of the response.
func RespondServiceError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg, ok := serviceErrorMessages[apiErr.Code]
		if !ok {
			msg = "internal error"
		}
		RespondError(c, status, apiErr.Code, errors.New(msg))
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
