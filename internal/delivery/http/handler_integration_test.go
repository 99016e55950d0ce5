package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pricescope/backend/config"
	"github.com/pricescope/backend/internal/domain"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubUsecase returns a canned report or error for every comparison request
type stubUsecase struct {
	report *domain.ComparisonReport
	err    error
}

func (s *stubUsecase) CompareProducts(ctx context.Context, request *domain.ComparisonRequest) (*domain.ComparisonReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

// setupTestRouter creates a test router with default configuration
func setupTestRouter(usecase ComparisonUsecase) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		RateLimit: config.RateLimitConfig{PerIP: 0},
	}

	handler := NewHandler(usecase)
	router := SetupRouter(cfg, handler)
	if router == nil {
		panic("setupTestRouter: SetupRouter returned nil *gin.Engine")
	}
	return router
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(&stubUsecase{})

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "pricescope-backend" {
			t.Errorf("service = %v, want pricescope-backend", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(&stubUsecase{})

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("%s /health = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestCompareEndpoint(t *testing.T) {
	compareRequest := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		req, _ := http.NewRequest("POST", "/api/v1/compare", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		return httptest.NewRecorder(), req
	}

	t.Run("returns the comparison report", func(t *testing.T) {
		report := &domain.ComparisonReport{
			Query:         "samsung galaxy s24",
			PrimarySource: "Flipkart",
			Source:        "Live",
			Results: []domain.ComparisonEntry{
				{
					Title:  "Samsung Galaxy S24 128GB",
					Winner: "Flipkart",
					Primary: domain.SourceQuote{
						Marketplace: "Flipkart",
						Price:       domain.Price{Amount: 78499, State: domain.PriceAvailable},
					},
					Secondary: domain.SourceQuote{
						Marketplace: "Amazon",
						Price:       domain.Price{Amount: 79999, State: domain.PriceAvailable},
					},
					MatchScore:  1.0,
					MatchMethod: domain.MethodJaccard,
				},
			},
		}
		router := setupTestRouter(&stubUsecase{report: report})

		w, req := compareRequest(`{"productName": "samsung galaxy s24"}`)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var got domain.ComparisonReport
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if got.Query != "samsung galaxy s24" {
			t.Errorf("Query = %q, want samsung galaxy s24", got.Query)
		}
		if len(got.Results) != 1 {
			t.Fatalf("len(Results) = %d, want 1", len(got.Results))
		}
		if got.Results[0].Winner != "Flipkart" {
			t.Errorf("Winner = %q, want Flipkart", got.Results[0].Winner)
		}
		if !got.Results[0].Primary.Price.Valid() || got.Results[0].Primary.Price.Amount != 78499 {
			t.Errorf("primary price = %+v, want available 78499", got.Results[0].Primary.Price)
		}
	})

	t.Run("rejects a body without productName", func(t *testing.T) {
		router := setupTestRouter(&stubUsecase{})

		w, req := compareRequest(`{}`)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := setupTestRouter(&stubUsecase{})

		w, req := compareRequest(`{"productName": `)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("maps domain errors onto status codes", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"invalid request", domain.ErrInvalidRequest, http.StatusBadRequest},
			{"no listings", domain.ErrNoListingsFound, http.StatusNotFound},
			{"marketplaces down", domain.ErrMarketplaceUnavailable, http.StatusBadGateway},
			{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
			{"anything else", context.DeadlineExceeded, http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := setupTestRouter(&stubUsecase{err: tt.err})

				w, req := compareRequest(`{"productName": "anything"}`)
				router.ServeHTTP(w, req)

				if w.Code != tt.want {
					t.Errorf("Status = %d, want %d", w.Code, tt.want)
				}
			})
		}
	})

	t.Run("returns 503 when the service is not wired", func(t *testing.T) {
		router := setupTestRouter(nil)

		w, req := compareRequest(`{"productName": "anything"}`)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})
}
