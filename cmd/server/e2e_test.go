package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wadjakorntonsri/go-link-bio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-link-bio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-link-bio/pkg/config"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/services"
)

func TestIntegration(t *testing.T) {
	// 1. Setup DB (shared in-memory sqlite so every connection sees the
	// same data)
	dbURL := "file:memdb1?mode=memory&cache=shared"
	repo, err := sqlite.NewSQLiteRepository(dbURL)
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	defer repo.Close()

	// 2. Setup Services
	linkService := services.NewLinkService(repo)
	profileService := services.NewProfileService(repo)

	// 3. Setup Router
	cfg := &config.Config{JWTSecret: "testservlet"}
	router := handler.NewRouter(cfg, linkService, profileService)

	server := httptest.NewServer(router)
	defer server.Close()

	client := server.Client()

	// 4. Provision a signed-in user the way the OAuth callback would
	user, err := profileService.SignIn(context.Background(), "alice@example.com", "Alice", "")
	if err != nil {
		t.Fatalf("Failed to provision user: %v", err)
	}
	cookie := &http.Cookie{Name: "auth_token", Value: signTestToken(t, cfg.JWTSecret, user.ID)}

	doJSON := func(method, path string, payload interface{}) *http.Response {
		t.Helper()
		var body bytes.Buffer
		if payload != nil {
			if err := json.NewEncoder(&body).Encode(payload); err != nil {
				t.Fatalf("Failed to encode payload: %v", err)
			}
		}
		req, err := http.NewRequest(method, server.URL+path, &body)
		if err != nil {
			t.Fatalf("Failed to build request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		return resp
	}

	// TEST 1: Create two links
	resp := doJSON("POST", "/links", map[string]string{
		"title": "Site", "url": "https://site.example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Create expected 200, got %d", resp.StatusCode)
	}
	var site domain.Link
	json.NewDecoder(resp.Body).Decode(&site)
	resp.Body.Close()
	if site.ID == "" {
		t.Error("Created link has no id")
	}

	resp = doJSON("POST", "/links", map[string]string{
		"title": "Blog", "url": "https://blog.example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Create expected 200, got %d", resp.StatusCode)
	}
	var blog domain.Link
	json.NewDecoder(resp.Body).Decode(&blog)
	resp.Body.Close()

	// TEST 2: List preserves creation order
	resp = doJSON("GET", "/links", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("List expected 200, got %d", resp.StatusCode)
	}
	var listed []domain.Link
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed) != 2 || listed[0].ID != site.ID || listed[1].ID != blog.ID {
		t.Errorf("Unexpected list order: %+v", listed)
	}

	// TEST 3: Reorder and read the new order back
	resp = doJSON("PATCH", "/links", map[string][]string{
		"order": {blog.ID, site.ID},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Reorder expected 200, got %d", resp.StatusCode)
	}
	var reordered []domain.Link
	json.NewDecoder(resp.Body).Decode(&reordered)
	resp.Body.Close()
	if len(reordered) != 2 || reordered[0].ID != blog.ID {
		t.Errorf("Unexpected reordered list: %+v", reordered)
	}

	// TEST 4: A stale order is rejected wholesale
	resp = doJSON("PATCH", "/links", map[string][]string{
		"order": {site.ID},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Stale reorder expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// TEST 5: Claim a username, then fetch the public page
	resp = doJSON("PATCH", "/profile", map[string]string{"name": "alice"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Profile update expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = client.Get(server.URL + "/links/alice")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Public list expected 200, got %d", resp.StatusCode)
	}
	var public []domain.PublicLink
	json.NewDecoder(resp.Body).Decode(&public)
	resp.Body.Close()
	if len(public) != 2 || public[0].Title != "Blog" {
		t.Errorf("Unexpected public list: %+v", public)
	}

	// TEST 6: Reserved usernames can never be claimed
	resp = doJSON("PATCH", "/profile", map[string]string{"name": "dashboard"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Reserved username expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// TEST 7: Delete, then verify the survivor order
	resp = doJSON("DELETE", "/links", map[string]string{"id": blog.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Delete expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON("GET", "/links", nil)
	var remaining []domain.Link
	json.NewDecoder(resp.Body).Decode(&remaining)
	resp.Body.Close()
	if len(remaining) != 1 || remaining[0].ID != site.ID {
		t.Errorf("Unexpected remaining links: %+v", remaining)
	}

	// TEST 8: Unauthenticated requests are rejected with the sign-in hint
	plain, err := client.Get(server.URL + "/links")
	if err != nil {
		t.Fatal(err)
	}
	if plain.StatusCode != http.StatusBadRequest {
		t.Errorf("Unauthenticated request expected 400, got %d", plain.StatusCode)
	}
	plain.Body.Close()

	// TEST 9: Export (Dump)
	collections, err := repo.Dump(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(collections) != 1 {
		t.Errorf("Expected 1 collection in dump, got %d", len(collections))
	}
}

func signTestToken(t *testing.T, secret, userID string) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}
