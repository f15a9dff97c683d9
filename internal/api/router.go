package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parlorgames/mysteryparty/internal/api/handler"
	apimiddleware "github.com/parlorgames/mysteryparty/internal/api/middleware"
	"github.com/parlorgames/mysteryparty/internal/events"
	"github.com/parlorgames/mysteryparty/internal/middleware"
	"github.com/parlorgames/mysteryparty/internal/services/admission"
	"github.com/parlorgames/mysteryparty/internal/services/auth"
	"github.com/parlorgames/mysteryparty/internal/services/mystery"
	"github.com/parlorgames/mysteryparty/internal/services/party"
	"github.com/parlorgames/mysteryparty/internal/services/phase"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	AuthService         *auth.Service
	MysteryService      *mystery.Service
	PartyController     *party.Controller
	AdmissionController *admission.Controller
	PhaseAdvancer       *phase.Advancer
	Hub                 *events.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService)
	packageHandler := handler.NewPackageHandler(cfg.MysteryService)
	partyHandler := handler.NewPartyHandler(cfg.PartyController, cfg.PhaseAdvancer, cfg.Hub, cfg.Logger)
	joinHandler := handler.NewJoinHandler(cfg.AdmissionController, cfg.PartyController, cfg.Hub, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.PartyController, cfg.Hub)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes (no auth required for creating users/logging in)
	api.HandleFunc("/users/guest", userHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/users/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", userHandler.Login).Methods(http.MethodPost)

	// Protected user routes
	userProtected := api.PathPrefix("/users").Subrouter()
	userProtected.Use(authMiddleware)
	userProtected.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)

	// Package catalog routes (all require auth)
	packages := api.PathPrefix("/packages").Subrouter()
	packages.Use(authMiddleware)
	packages.HandleFunc("", packageHandler.List).Methods(http.MethodGet)
	packages.HandleFunc("/{id}", packageHandler.Get).Methods(http.MethodGet)

	// Party routes (all require auth)
	parties := api.PathPrefix("/parties").Subrouter()
	parties.Use(authMiddleware)
	parties.HandleFunc("", partyHandler.Create).Methods(http.MethodPost)
	parties.HandleFunc("", partyHandler.List).Methods(http.MethodGet)
	parties.HandleFunc("/{id}", partyHandler.Get).Methods(http.MethodGet)
	parties.HandleFunc("/{id}/publish", partyHandler.Publish).Methods(http.MethodPost)
	parties.HandleFunc("/{id}/start", partyHandler.Start).Methods(http.MethodPost)
	parties.HandleFunc("/{id}/cancel", partyHandler.Cancel).Methods(http.MethodPost)
	parties.HandleFunc("/{id}/advance", partyHandler.Advance).Methods(http.MethodPost)
	parties.HandleFunc("/{id}/accusations", partyHandler.Accuse).Methods(http.MethodPost)
	parties.HandleFunc("/{id}/guests", partyHandler.AddGuest).Methods(http.MethodPost)
	parties.HandleFunc("/{id}/guests/{guestID}/character", partyHandler.AssignCharacter).Methods(http.MethodPost)
	parties.HandleFunc("/{id}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Invite redemption routes (auth required to join, not to decline)
	joinProtected := api.PathPrefix("/join").Subrouter()
	joinProtected.Use(authMiddleware)
	joinProtected.HandleFunc("", joinHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/invites/{code}/decline", joinHandler.Decline).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
