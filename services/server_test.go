package services

import (
	"encoding/json"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins string
		want    []string
	}{
		{
			name:    "single origin",
			origins: "http://localhost:5173",
			want:    []string{"http://localhost:5173"},
		},
		{
			name:    "multiple origins",
			origins: "http://localhost:5173,http://example.com",
			want:    []string{"http://localhost:5173", "http://example.com"},
		},
		{
			name:    "whitespace trimmed",
			origins: "http://localhost:5173, http://example.com",
			want:    []string{"http://localhost:5173", "http://example.com"},
		},
		{
			name:    "empty config",
			origins: "",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitOrigins(tt.origins); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitOrigins(%q) = %v, want %v", tt.origins, got, tt.want)
			}
		})
	}
}

func TestHealthHandlerWithoutDatabase(t *testing.T) {
	server := NewServer(&Config{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	server.healthHandler(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("health response is not JSON: %v", err)
	}
	if body["status"] != "ok" || body["database"] != "not configured" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestSetupRoutesRejectsUnauthenticated(t *testing.T) {
	server := NewServer(&Config{
		JWT: JWTConfig{Secret: "test-secret"},
		AI:  AIConfig{ServiceURL: "http://localhost:9999", Timeout: time.Second},
	})

	// No database: protected route groups are not mounted, auth is absent
	if err := server.InitializeServices(); err != nil {
		t.Fatalf("InitializeServices returned error: %v", err)
	}
	router := server.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/v1/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("API root status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/interview/", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 404 {
		t.Errorf("unmounted interview route status = %d, want 404", rec.Code)
	}
}
