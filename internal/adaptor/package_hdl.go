package adaptor

import (
	"net/http"

	"travel-backoffice/internal/dto/request"
	"travel-backoffice/internal/usecase"
	"travel-backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PackageHandler struct {
	service usecase.PackageService
	log     *zap.Logger
}

func NewPackageHandler(service usecase.PackageService, log *zap.Logger) *PackageHandler {
	return &PackageHandler{
		service: service,
		log:     log.With(zap.String("handler", "package")),
	}
}

// GetPackages handles GET /api/packages
func (h *PackageHandler) GetPackages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	var status *string
	if s := query.Get("status"); s != "" {
		status = &s
	}

	packages, err := h.service.GetPackages(r.Context(), req, status)
	if err != nil {
		handleServiceError(w, h.log, err, "get packages")
		return
	}

	utils.ResponseSuccess(w, "success", packages)
}

// GetPackageByID handles GET /api/packages/{id}
func (h *PackageHandler) GetPackageByID(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.service.GetPackageByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get package by ID")
		return
	}

	utils.ResponseSuccess(w, "success", pkg)
}

// GetAvailability handles GET /api/packages/{id}/availability
func (h *PackageHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.service.GetAvailability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get package availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// CreatePackage handles POST /api/packages
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req request.PackageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pkg, err := h.service.CreatePackage(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create package")
		return
	}

	utils.ResponseCreated(w, "Package created", pkg)
}

// UpdatePackage handles PUT /api/packages/{id}
func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	var req request.PackageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pkg, err := h.service.UpdatePackage(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update package")
		return
	}

	utils.ResponseSuccess(w, "Package updated", pkg)
}

// PublishPackage handles POST /api/packages/{id}/publish
func (h *PackageHandler) PublishPackage(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.service.PublishPackage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "publish package")
		return
	}

	utils.ResponseSuccess(w, "Package published", pkg)
}

// DeletePackage handles DELETE /api/packages/{id}
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePackage(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete package")
		return
	}

	utils.ResponseSuccess(w, "Package deleted", nil)
}
