package wire

import (
	"travel-backoffice/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// ==================== BOOKING ROUTES ====================
	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings/quote - Price a draft without saving it
		r.Post("/quote", bookingHandler.Quote)

		// GET /api/bookings?page=&per_page=&package_id= - List bookings
		r.Get("/", bookingHandler.GetBookings)

		// POST /api/bookings - Create booking from a wizard draft
		r.Post("/", bookingHandler.CreateBooking)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", bookingHandler.GetBookingByID)
			r.Put("/", bookingHandler.UpdateBooking)
			r.Delete("/", bookingHandler.DeleteBooking)

			// ==================== PAYMENT & HOLD ROUTES ====================
			// POST /api/bookings/{id}/payments - Record a payment
			r.Post("/payments", bookingHandler.RecordPayment)

			// POST /api/bookings/{id}/confirm - Confirm an option
			r.Post("/confirm", bookingHandler.ConfirmBooking)
		})
	})
}
