package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/parlorgames/mysteryparty/internal/dependencies/clock"
	"github.com/parlorgames/mysteryparty/internal/dependencies/random"
	"github.com/parlorgames/mysteryparty/internal/events"
	"github.com/parlorgames/mysteryparty/internal/services/admission"
	"github.com/parlorgames/mysteryparty/internal/services/auth"
	"github.com/parlorgames/mysteryparty/internal/services/mystery"
	"github.com/parlorgames/mysteryparty/internal/services/party"
	"github.com/parlorgames/mysteryparty/internal/services/phase"
	"github.com/parlorgames/mysteryparty/internal/storage"
	"github.com/parlorgames/mysteryparty/internal/storage/memory"
	redisstorage "github.com/parlorgames/mysteryparty/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	MysteryService      *mystery.Service
	PartyController     *party.Controller
	AdmissionController *admission.Controller
	PhaseAdvancer       *phase.Advancer
	AuthService         *auth.Service
	Hub                 *events.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// PackagesPath is the path to the mystery package catalog file (optional)
	// If empty, packages must be loaded manually
	PackagesPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, authCfg, logger)

	// Load the package catalog if a path was configured
	if cfg.PackagesPath != "" {
		if err := app.MysteryService.LoadFromFile(context.Background(), cfg.PackagesPath); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	mysteryService := mystery.New(store, logger)
	partyController := party.NewController(store, mysteryService, clk, rnd, logger)
	admissionController := admission.NewController(store, clk, logger)
	phaseAdvancer := phase.NewAdvancer(store, mysteryService, clk, logger)
	authService := auth.New(store, clk, authCfg)
	hub := events.NewHub(logger)

	return &App{
		Storage:             store,
		Clock:               clk,
		Random:              rnd,
		MysteryService:      mysteryService,
		PartyController:     partyController,
		AdmissionController: admissionController,
		PhaseAdvancer:       phaseAdvancer,
		AuthService:         authService,
		Hub:                 hub,
	}
}
