package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasktrack/backend/internal/handlers"
	"tasktrack/backend/internal/middleware"
	"tasktrack/backend/internal/suggest"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

func setupLabelRouter(upstream http.HandlerFunc) (*gin.Engine, *httptest.Server) {
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	client := suggest.NewClient(suggest.Config{Endpoint: server.URL, Model: "test-model"})
	handler := handlers.NewLabelHandler(client)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uuid.Must(uuid.NewV4()).String())
		c.Next()
	})
	router.POST("/labels/suggest", handler.SuggestLabels)

	return router, server
}

func TestSuggestLabels_Success(t *testing.T) {
	router, server := setupLabelRouter(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"output": `["Personal", "Finance"]`})
	})
	defer server.Close()

	body, _ := json.Marshal(map[string]string{
		"title":       "Pay rent",
		"description": "Transfer before the 1st",
	})
	req, _ := http.NewRequest("POST", "/labels/suggest", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response struct {
		Labels []string `json:"labels"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Labels) != 2 || response.Labels[0] != "Personal" {
		t.Errorf("Expected [Personal Finance], got %v", response.Labels)
	}
}

func TestSuggestLabels_EmptyTitle(t *testing.T) {
	router, server := setupLabelRouter(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Upstream should not be called")
	})
	defer server.Close()

	body, _ := json.Marshal(map[string]string{"title": ""})
	req, _ := http.NewRequest("POST", "/labels/suggest", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestSuggestLabels_UpstreamFailure(t *testing.T) {
	router, server := setupLabelRouter(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer server.Close()

	body, _ := json.Marshal(map[string]string{"title": "Task"})
	req, _ := http.NewRequest("POST", "/labels/suggest", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
}
