package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, map[string]string{"name": "test"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message != "ok" {
		t.Errorf("expected message %q, got %q", "ok", resp.Message)
	}
	if resp.Data == nil {
		t.Error("expected data to be set")
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, map[string]int{"id": 7})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Message != "created" {
		t.Errorf("expected message %q, got %q", "created", resp.Message)
	}
}

func TestPage(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Page(c, 42, 2, 10, []string{"a", "b"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Code int      `json:"code"`
		Data PageData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp.Data.Total != 42 {
		t.Errorf("Total = %d, expected 42", resp.Data.Total)
	}
	if resp.Data.Page != 2 {
		t.Errorf("Page = %d, expected 2", resp.Data.Page)
	}
	if resp.Data.PageSize != 10 {
		t.Errorf("PageSize = %d, expected 10", resp.Data.PageSize)
	}
}

func TestError_WithAppError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, NewNotFound("class not found"))
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 404 {
		t.Errorf("expected code 404, got %d", resp.Code)
	}
	if resp.Message != "class not found" {
		t.Errorf("expected message %q, got %q", "class not found", resp.Message)
	}
}

func TestError_WithWrappedAppError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewConflict("already a member"))

	w := performRequest(func(c *gin.Context) {
		Error(c, wrapped)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestError_WithGenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("boom"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 500 {
		t.Errorf("expected code 500, got %d", resp.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewBadRequest("invalid input")
	if err.Error() != "invalid input" {
		t.Errorf("Error() = %q, expected %q", err.Error(), "invalid input")
	}
}

func TestAppError_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected int
	}{
		{"bad request", NewBadRequest("x"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("x"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("x"), http.StatusForbidden},
		{"not found", NewNotFound("x"), http.StatusNotFound},
		{"conflict", NewConflict("x"), http.StatusConflict},
		{"server error", NewServerError("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.HTTPStatus != tt.expected {
				t.Errorf("HTTPStatus = %d, expected %d", tt.err.HTTPStatus, tt.expected)
			}
		})
	}
}
