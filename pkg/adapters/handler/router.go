package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/go-link-bio/pkg/config"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, links ports.LinkService, profiles ports.ProfileService) http.Handler {
	// Initialize Handlers
	lh := NewLinkHandler(links)
	ph := NewProfileHandler(profiles)
	authHandler := NewAuthHandler(cfg, profiles)

	// Initialize Middleware
	mw := NewMiddleware(cfg)

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&res)
	})
	mux.HandleFunc("GET /links/{username}", lh.ListPublic)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes (owner-scoped; operate on the caller's own data)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /links", lh.List)
	protectedMux.HandleFunc("POST /links", lh.Create)
	protectedMux.HandleFunc("DELETE /links", lh.Delete)
	protectedMux.HandleFunc("PATCH /links", lh.Reorder)
	protectedMux.HandleFunc("GET /profile", ph.Get)
	protectedMux.HandleFunc("PATCH /profile", ph.Update)

	// A method-less pattern loses to every method pattern above, so it
	// only catches unsupported methods on these paths.
	protectedMux.HandleFunc("/links", methodNotAllowed)
	protectedMux.HandleFunc("/profile", methodNotAllowed)
	mux.HandleFunc("/links/{username}", methodNotAllowed)

	auth := mw.Auth(protectedMux)
	mux.Handle("/links", auth)
	mux.Handle("/profile", auth)

	return mux
}
