package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parlorgames/mysteryparty/internal/api/response"
	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/mystery"
)

// PackageHandler serves the mystery package catalog
type PackageHandler struct {
	mysteryService *mystery.Service
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(mysteryService *mystery.Service) *PackageHandler {
	return &PackageHandler{
		mysteryService: mysteryService,
	}
}

// List handles GET /api/v1/packages
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	packages, err := h.mysteryService.ListPackages(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.PackageSummary, len(packages))
	for i, pkg := range packages {
		out[i] = response.PackageSummaryFromModel(pkg)
	}
	response.JSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/packages/{id}
func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PackageID(mux.Vars(r)["id"])

	pkg, err := h.mysteryService.GetPackage(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PackageFromModel(pkg))
}
