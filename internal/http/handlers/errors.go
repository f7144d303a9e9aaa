package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"busops/internal/domain"
	"busops/internal/http/middleware"
	"busops/internal/utils"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Client messages
// are fixed per error kind; the underlying error is only logged.
func RespondDomainError(c *gin.Context, err error) {
	var (
		ve domain.ValidationError
		nf domain.NotFoundError
		ce domain.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, "validation_error", "invalid input", gin.H{"field": ve.Field, "reason": ve.Msg})
	case errors.As(err, &nf):
		respondError(c, http.StatusNotFound, "not_found", "resource not found", gin.H{"resource": nf.Resource, "id": nf.ID})
	case errors.As(err, &ce):
		respondError(c, http.StatusConflict, "conflict", "resource already exists", gin.H{"resource": ce.Resource, "reason": ce.Msg})
	case domain.IsStoreIO(err):
		utils.LogEvent(middleware.GetRequestID(c), "http", "store_io", err.Error())
		respondError(c, http.StatusInternalServerError, "store_unavailable", "storage temporarily unavailable, please retry", nil)
	case domain.IsStoreCorrupt(err):
		utils.LogEvent(middleware.GetRequestID(c), "http", "store_corrupt", err.Error())
		respondError(c, http.StatusInternalServerError, "store_corrupt", "stored data could not be read", nil)
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal", err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
