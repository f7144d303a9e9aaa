package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"busops/internal/http/middleware"
	"busops/internal/services"
)

// RespondError sends a plain error payload with request_id included.
func RespondError(c *gin.Context, status int, message string) {
	respondError(c, status, strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_")), message, nil)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "request body is empty")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "request body is not valid JSON for this resource")
		return false
	}
	return true
}

// readBody returns the raw request body, responding 400 when it is empty.
func readBody(c *gin.Context) ([]byte, bool) {
	raw, err := c.GetRawData()
	if err != nil || len(strings.TrimSpace(string(raw))) == 0 {
		RespondError(c, http.StatusBadRequest, "request body is empty")
		return nil, false
	}
	return raw, true
}

// targetID resolves the record id from the path, the query string or the
// request body, in that order.
func targetID(c *gin.Context, body []byte) string {
	if id := strings.TrimSpace(c.Param("id")); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.Query("id")); id != "" {
		return id
	}
	if body != nil {
		return services.PatchID(body)
	}
	return ""
}

func requestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}
