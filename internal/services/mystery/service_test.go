package mystery

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/storage/memory"
	"github.com/parlorgames/mysteryparty/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func validPackage(id string) model.MysteryPackage {
	return model.MysteryPackage{
		ID:    model.PackageID(id),
		Title: "Murder at the Manor",
		Characters: []model.Character{
			{ID: "butler", Name: "The Butler"},
			{ID: "heiress", Name: "The Heiress"},
		},
		Phases: []model.GamePhase{
			{Name: "Arrival"},
			{Name: "Dinner"},
		},
	}
}

func (s *ServiceSuite) TestLoadPackagesSucceeds() {
	err := s.service.LoadPackages(s.ctx, []model.MysteryPackage{validPackage("manor")})
	s.Require().NoError(err)

	pkg, err := s.service.GetPackage(s.ctx, "manor")
	s.Require().NoError(err)
	s.Equal("Murder at the Manor", pkg.Title)
	s.Len(pkg.Phases, 2)
}

func (s *ServiceSuite) TestLoadPackagesRejectsMissingID() {
	pkg := validPackage("")
	err := s.service.LoadPackages(s.ctx, []model.MysteryPackage{pkg})
	s.Error(err)
}

func (s *ServiceSuite) TestLoadPackagesRejectsMissingTitle() {
	pkg := validPackage("manor")
	pkg.Title = ""
	err := s.service.LoadPackages(s.ctx, []model.MysteryPackage{pkg})
	s.Error(err)
}

func (s *ServiceSuite) TestLoadPackagesRejectsEmptyPhases() {
	pkg := validPackage("manor")
	pkg.Phases = nil
	err := s.service.LoadPackages(s.ctx, []model.MysteryPackage{pkg})
	s.Error(err)
}

func (s *ServiceSuite) TestLoadPackagesRejectsDuplicateCharacters() {
	pkg := validPackage("manor")
	pkg.Characters = append(pkg.Characters, model.Character{ID: "butler", Name: "Another Butler"})
	err := s.service.LoadPackages(s.ctx, []model.MysteryPackage{pkg})
	s.Error(err)
}

func (s *ServiceSuite) TestLoadPackagesRejectsUnnamedPhase() {
	pkg := validPackage("manor")
	pkg.Phases[1].Name = ""
	err := s.service.LoadPackages(s.ctx, []model.MysteryPackage{pkg})
	s.Error(err)
}

func (s *ServiceSuite) TestGetPackageNotFound() {
	_, err := s.service.GetPackage(s.ctx, "nope")
	s.ErrorIs(err, model.ErrPackageNotFound)
}

func (s *ServiceSuite) TestListPackages() {
	err := s.service.LoadPackages(s.ctx, []model.MysteryPackage{
		validPackage("manor"),
		validPackage("express"),
	})
	s.Require().NoError(err)

	packages, err := s.service.ListPackages(s.ctx)
	s.Require().NoError(err)
	s.Len(packages, 2)
}

func (s *ServiceSuite) TestLoadFromFile() {
	packages := []model.MysteryPackage{validPackage("manor")}
	data, err := json.Marshal(packages)
	s.Require().NoError(err)

	path := filepath.Join(s.T().TempDir(), "packages.json")
	s.Require().NoError(os.WriteFile(path, data, 0o644))

	s.Require().NoError(s.service.LoadFromFile(s.ctx, path))

	pkg, err := s.service.GetPackage(s.ctx, "manor")
	s.Require().NoError(err)
	s.Equal(model.PackageID("manor"), pkg.ID)
}

func (s *ServiceSuite) TestLoadFromFileMissingFile() {
	err := s.service.LoadFromFile(s.ctx, filepath.Join(s.T().TempDir(), "missing.json"))
	s.Error(err)
}
