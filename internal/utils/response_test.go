package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"printer-service/internal/model"
)

func TestValidationErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("request_id", "req-1")

	ValidationErrorResponse(c, map[string]string{"body": "address is required"})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}

	var resp APIResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Fatal("validation failure marked success")
	}
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error block = %+v, want VALIDATION_ERROR", resp.Error)
	}
	if resp.RequestID != "req-1" {
		t.Fatalf("request id = %q", resp.RequestID)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	fields, ok := data["validation_errors"].(map[string]interface{})
	if !ok || fields["body"] != "address is required" {
		t.Fatalf("validation_errors = %v", data["validation_errors"])
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not-found", model.ErrDeviceNotFound, http.StatusNotFound},
		{"invalid-data", model.ErrInvalidData, http.StatusBadRequest},
		{"duplicate-job", model.ErrDuplicateJob, http.StatusConflict},
		{"scan-in-progress", model.ErrScanInProgress, http.StatusConflict},
		{"not-connected", model.ErrNotConnected, http.StatusPreconditionFailed},
		{"timeout", model.ErrTimeout, http.StatusGatewayTimeout},
		{"connection-failed", model.ErrConnectionFailed, http.StatusBadGateway},
		{"unrecognized", http.ErrServerClosed, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorStatus(tc.err); got != tc.want {
				t.Fatalf("ErrorStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
