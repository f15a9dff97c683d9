package mystery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/storage"
)

// Service is the mystery package catalog. Packages are read-mostly
// reference data: loaded once at startup and served from storage.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new mystery package Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger,
	}
}

// LoadFromFile loads a JSON package catalog from disk into storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading package catalog %s: %w", path, err)
	}

	var packages []model.MysteryPackage
	if err := json.Unmarshal(data, &packages); err != nil {
		return fmt.Errorf("parsing package catalog %s: %w", path, err)
	}

	if err := s.LoadPackages(ctx, packages); err != nil {
		return err
	}

	s.logger.Info("loaded mystery package catalog",
		slog.String("path", path),
		slog.Int("packages", len(packages)))
	return nil
}

// LoadPackages validates and stores a set of packages
func (s *Service) LoadPackages(ctx context.Context, packages []model.MysteryPackage) error {
	for _, pkg := range packages {
		if err := validatePackage(pkg); err != nil {
			return err
		}
		if err := s.storage.SaveMysteryPackage(ctx, &pkg); err != nil {
			return fmt.Errorf("storing package %s: %w", pkg.ID, err)
		}
	}
	return nil
}

func (s *Service) GetPackage(ctx context.Context, id model.PackageID) (*model.MysteryPackage, error) {
	return s.storage.GetMysteryPackage(ctx, id)
}

func (s *Service) ListPackages(ctx context.Context) ([]*model.MysteryPackage, error) {
	return s.storage.ListMysteryPackages(ctx)
}

func validatePackage(pkg model.MysteryPackage) error {
	if pkg.ID == "" {
		return fmt.Errorf("package is missing an id")
	}
	if pkg.Title == "" {
		return fmt.Errorf("package %s is missing a title", pkg.ID)
	}
	if len(pkg.Phases) == 0 {
		return fmt.Errorf("package %s has no phases", pkg.ID)
	}
	characterIDs := make(map[string]struct{}, len(pkg.Characters))
	for _, c := range pkg.Characters {
		if c.ID == "" {
			return fmt.Errorf("package %s has a character without an id", pkg.ID)
		}
		if _, ok := characterIDs[c.ID]; ok {
			return fmt.Errorf("package %s has duplicate character %s", pkg.ID, c.ID)
		}
		characterIDs[c.ID] = struct{}{}
	}
	for i, phase := range pkg.Phases {
		if phase.Name == "" {
			return fmt.Errorf("package %s phase %d is missing a name", pkg.ID, i)
		}
	}
	return nil
}
