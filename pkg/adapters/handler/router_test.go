package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wadjakorntonsri/go-link-bio/pkg/config"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
)

type stubProfileService struct{}

func (s *stubProfileService) SignIn(ctx context.Context, email, displayName, image string) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: email}, nil
}

func (s *stubProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return &domain.User{ID: userID}, nil
}

func (s *stubProfileService) Update(ctx context.Context, userID string, name, image *string) (*domain.User, error) {
	return &domain.User{ID: userID}, nil
}

var _ ports.ProfileService = (*stubProfileService)(nil)

func TestRouterMethodHandling(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testservlet"}
	links := &stubLinkService{
		list: func(ctx context.Context, ownerID string) ([]domain.Link, error) {
			return []domain.Link{}, nil
		},
	}
	router := NewRouter(cfg, links, &stubProfileService{})
	token := generateTestToken(t, cfg.JWTSecret, "user-1", 5*time.Minute)

	tests := []struct {
		name           string
		method         string
		path           string
		withCookie     bool
		expectedStatus int
	}{
		{
			name:           "supported method passes through",
			method:         "GET",
			path:           "/links",
			withCookie:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unsupported method on owner resource",
			method:         "PUT",
			path:           "/links",
			withCookie:     true,
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "unsupported method on profile",
			method:         "DELETE",
			path:           "/profile",
			withCookie:     true,
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "unsupported method on public profile",
			method:         "POST",
			path:           "/links/alice",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			// auth rejection wins over method shaping on protected paths
			name:           "unauthenticated unsupported method",
			method:         "PUT",
			path:           "/links",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.withCookie {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status: got %v want %v", rr.Code, tt.expectedStatus)
			}

			if tt.expectedStatus == http.StatusMethodNotAllowed {
				msg, _ := decodeError(t, rr)
				if msg != "Method not allowed" {
					t.Errorf("unexpected error message: %q", msg)
				}
			}
		})
	}
}
