package wire

import (
	"travel-backoffice/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePackage(r chi.Router, packageHandler *adaptor.PackageHandler) {
	// ==================== PACKAGE ROUTES ====================
	r.Route("/api/packages", func(r chi.Router) {
		// GET /api/packages?page=&per_page=&status= - List packages
		r.Get("/", packageHandler.GetPackages)

		// POST /api/packages - Create a draft package
		r.Post("/", packageHandler.CreatePackage)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", packageHandler.GetPackageByID)
			r.Put("/", packageHandler.UpdatePackage)
			r.Delete("/", packageHandler.DeletePackage)

			// POST /api/packages/{id}/publish - Draft to published
			r.Post("/publish", packageHandler.PublishPackage)

			// GET /api/packages/{id}/availability - Stock and option hold preview
			r.Get("/availability", packageHandler.GetAvailability)
		})
	})
}
