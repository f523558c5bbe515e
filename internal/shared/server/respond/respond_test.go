package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorWritesFieldDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/recommend", func(c *gin.Context) {
		Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request", []FieldError{{Field: "budget", Reason: "must be an integer"}})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/recommend", nil))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	details, ok := body.Error.Details.([]any)
	if !ok || len(details) != 1 {
		t.Fatalf("unexpected details %v", body.Error.Details)
	}
	if details[0].(map[string]any)["field"] != "budget" {
		t.Fatalf("unexpected field detail %v", details[0])
	}
}

func TestOKLeavesHTMLUnescaped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		OK(c, gin.H{"explanation": "轻 & 快"})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	if !strings.Contains(resp.Body.String(), "轻 & 快") {
		t.Fatalf("expected unescaped body, got %q", resp.Body.String())
	}
}
