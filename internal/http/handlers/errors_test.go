package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"busops/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err      error
		status   int
		code     string
		hideText string
	}{
		{domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"}, http.StatusBadRequest, "validation_error", ""},
		{fmt.Errorf("wrapped: %w", domain.NotFoundError{Resource: "trip", ID: "t1"}), http.StatusNotFound, "not_found", ""},
		{domain.ConflictError{Resource: "bus", Msg: "number taken"}, http.StatusConflict, "conflict", ""},
		{domain.StoreIOError{Op: "save", Err: errors.New("disk /var/data full")}, http.StatusInternalServerError, "store_unavailable", "/var/data"},
		{domain.StoreCorruptError{Err: errors.New("unexpected EOF at offset 42")}, http.StatusInternalServerError, "store_corrupt", "offset 42"},
		{errors.New("secret detail"), http.StatusInternalServerError, "internal_error", "secret detail"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("request_id", "rid-1")

		RespondDomainError(c, tc.err)

		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		var body ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != tc.code || body.RequestID != "rid-1" {
			t.Fatalf("%v: unexpected payload %+v", tc.err, body)
		}
		if tc.hideText != "" && strings.Contains(w.Body.String(), tc.hideText) {
			t.Fatalf("%v: internal detail leaked: %s", tc.err, w.Body.String())
		}
	}
}

func TestTargetIDPrecedence(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/x?id=from-query", nil)

	if got := targetID(c, []byte(`{"id":"from-body"}`)); got != "from-query" {
		t.Fatalf("expected query id, got %q", got)
	}
	c.Params = gin.Params{{Key: "id", Value: "from-path"}}
	if got := targetID(c, nil); got != "from-path" {
		t.Fatalf("expected path id, got %q", got)
	}

	c.Params = nil
	c.Request = httptest.NewRequest(http.MethodPut, "/x", nil)
	if got := targetID(c, []byte(`{"id":"from-body"}`)); got != "from-body" {
		t.Fatalf("expected body id, got %q", got)
	}
}
