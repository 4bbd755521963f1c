package usecase

import (
	"context"
	"errors"
	"fmt"

	"travel-backoffice/internal/data/entity"
	"travel-backoffice/internal/data/repository"
	"travel-backoffice/internal/dto/request"
	"travel-backoffice/internal/dto/response"
	"travel-backoffice/internal/engine"
	"travel-backoffice/pkg/messaging"
	"travel-backoffice/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error)
	CreateBooking(ctx context.Context, draft *request.BookingDraft) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, bookingID string, draft *request.BookingDraft) (*response.BookingResponse, error)
	GetBookings(ctx context.Context, req *request.PaginatedRequest, packageID *string) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, bookingID string) error

	// Payment and hold lifecycle
	RecordPayment(ctx context.Context, bookingID string, req *request.RecordPaymentRequest) (*response.BookingResponse, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	ReleaseExpiredOptions(ctx context.Context) (int, error)
}

type bookingService struct {
	repo      *repository.Repository
	store     *packageStore
	publisher messaging.Publisher
	now       Clock
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	store *packageStore,
	publisher messaging.Publisher,
	clock Clock,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		store:     store,
		publisher: publisher,
		now:       clock,
		log:       log.With(zap.String("service", "booking")),
	}
}

// computation is what the engine derives from a draft against a package.
type computation struct {
	pkg       *entity.TravelPackage
	rooms     []entity.BookingRoom
	totals    engine.Totals
	paxTotal  int
	remaining int
	holdUntil string
	payment   entity.PaymentInfo
}

// compute runs the booking engine over a draft. excludeID keeps an edited
// booking from counting against its own stock.
func (s *bookingService) compute(ctx context.Context, draft *request.BookingDraft, excludeID uuid.UUID) (*computation, error) {
	packageID, err := uuid.Parse(draft.PackageID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid package ID format %s", ErrValidation, draft.PackageID)
	}

	pkg, err := s.store.load(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("find package %s: %w", draft.PackageID, err)
	}
	if pkg == nil {
		return nil, fmt.Errorf("package %s: %w", draft.PackageID, ErrNotFound)
	}

	bookings, err := s.repo.Booking.FindActiveByPackageID(ctx, packageID)
	if err != nil {
		s.log.Error("Failed to load package bookings", zap.Error(err), zap.String("package_id", draft.PackageID))
		return nil, fmt.Errorf("check stock: %w", err)
	}

	c := &computation{
		pkg:       pkg,
		rooms:     draft.ToRooms(),
		remaining: engine.RemainingStock(pkg, bookings, excludeID),
	}
	c.totals = engine.ComputeTotals(pkg, c.rooms)
	c.paxTotal = engine.CountOccupants(c.rooms)
	c.holdUntil = engine.ComputeReservedUntil(pkg, c.remaining, s.now())

	c.payment = entity.PaymentInfo{
		PaymentMethod: draft.Payment.PaymentMethod,
		TotalPrice:    c.totals.Total,
		PaidAmount:    draft.Payment.PaidAmount,
	}
	if draft.Payment.TotalPrice != nil {
		c.payment.TotalPrice = *draft.Payment.TotalPrice
	}
	c.payment.IsFullyPaid = engine.ResolvePaymentStatus(c.payment).Settled()

	return c, nil
}

// checkBookable enforces the caller-side rules before a booking is saved.
func (c *computation) checkBookable() error {
	if !c.pkg.IsPublished() {
		return fmt.Errorf("%w: package %s is not published", ErrInvalidState, c.pkg.ID.String())
	}
	if c.paxTotal < 1 {
		return fmt.Errorf("%w: a booking needs at least one occupant", ErrValidation)
	}
	if c.paxTotal > c.remaining {
		return fmt.Errorf("%w: %d pax requested, %d remaining", ErrInsufficientStock, c.paxTotal, c.remaining)
	}
	return nil
}

func (s *bookingService) Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	excludeID := uuid.Nil
	if req.BookingID != "" {
		id, err := uuid.Parse(req.BookingID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid booking ID format %s", ErrValidation, req.BookingID)
		}
		excludeID = id
	}

	c, err := s.compute(ctx, &req.BookingDraft, excludeID)
	if err != nil {
		return nil, err
	}

	resp := &response.QuoteResponse{
		Totals:          c.totals,
		PaxTotal:        c.paxTotal,
		RemainingStock:  c.remaining,
		StockSufficient: c.paxTotal <= c.remaining,
		Payment:         response.PaymentToResponse(c.payment),
	}
	if entity.BookingType(req.BookingType) == entity.BookingTypeOption {
		resp.ReservedUntil = &c.holdUntil
	}

	return resp, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, draft *request.BookingDraft) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(draft); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	c, err := s.compute(ctx, draft, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if err := c.checkBookable(); err != nil {
		s.log.Warn("Booking rejected",
			zap.Error(err),
			zap.String("package_id", draft.PackageID),
			zap.Int("pax_total", c.paxTotal),
			zap.Int("remaining", c.remaining),
		)
		return nil, err
	}

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:   utils.GenerateBookingReference(now),
		PackageID:   c.pkg.ID,
		BookingType: entity.BookingType(draft.BookingType),
		Status:      entity.BookingStatusActive,
		Rooms:       c.rooms,
		PaxTotal:    c.paxTotal,
		Uploads:     uploadsOf(draft),
		Payment:     c.payment,
	}
	if booking.IsOption() {
		hold := c.holdUntil
		booking.ReservedUntil = &hold
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("package_id", draft.PackageID),
		zap.Int("pax_total", booking.PaxTotal),
		zap.Float64("total_price", booking.Payment.TotalPrice),
		zap.Stringp("reserved_until", booking.ReservedUntil),
	)
	s.publish(ctx, messaging.BookingCreated, booking)

	resp := response.BookingToResponse(booking, c.pkg.General.Name)
	return &resp, nil
}

// UpdateBooking replaces the rooming list, type and payment of an active
// booking. An existing option keeps its hold date unless the package changes.
func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, draft *request.BookingDraft) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(draft); len(errs) > 0 {
		s.log.Warn("Update booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != entity.BookingStatusActive {
		return nil, fmt.Errorf("%w: booking %s is %s and cannot be edited", ErrInvalidState, bookingID, booking.Status)
	}
	if s.holdLapsed(booking) {
		return nil, fmt.Errorf("%w: option %s expired on %s and awaits release", ErrInvalidState, bookingID, *booking.ReservedUntil)
	}

	c, err := s.compute(ctx, draft, booking.ID)
	if err != nil {
		return nil, err
	}
	if err := c.checkBookable(); err != nil {
		s.log.Warn("Booking update rejected",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.Int("pax_total", c.paxTotal),
			zap.Int("remaining", c.remaining),
		)
		return nil, err
	}

	keepHold := booking.IsOption() && booking.PackageID == c.pkg.ID && booking.ReservedUntil != nil

	booking.PackageID = c.pkg.ID
	booking.BookingType = entity.BookingType(draft.BookingType)
	booking.Rooms = c.rooms
	booking.PaxTotal = c.paxTotal
	booking.Uploads = uploadsOf(draft)
	booking.Payment = c.payment
	booking.UpdatedAt = s.now()

	switch {
	case !booking.IsOption():
		booking.ReservedUntil = nil
	case !keepHold:
		hold := c.holdUntil
		booking.ReservedUntil = &hold
	}

	if err := s.save(ctx, booking); err != nil {
		return nil, fmt.Errorf("update booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", bookingID),
		zap.Int("pax_total", booking.PaxTotal),
		zap.Float64("total_price", booking.Payment.TotalPrice),
	)
	s.publish(ctx, messaging.BookingUpdated, booking)

	resp := response.BookingToResponse(booking, c.pkg.General.Name)
	return &resp, nil
}

func (s *bookingService) GetBookings(ctx context.Context, req *request.PaginatedRequest, packageID *string) (*response.PaginatedResponse[response.BookingResponse], error) {
	var filter *uuid.UUID
	if packageID != nil {
		id, err := uuid.Parse(*packageID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid package ID format %s", ErrValidation, *packageID)
		}
		filter = &id
	}

	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset(), filter)
	if err != nil {
		s.log.Error("Failed to get bookings",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingToResponse(b, s.packageName(ctx, b.PackageID))
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking, s.packageName(ctx, booking.PackageID))
	return &resp, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, bookingID string) error {
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.repo.Booking.Delete(ctx, booking.ID); err != nil {
		return fmt.Errorf("delete booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking deleted",
		zap.String("booking_id", bookingID),
		zap.String("reference", booking.Reference),
	)
	s.publish(ctx, messaging.BookingDeleted, booking)
	return nil
}

// ==================== PAYMENT & HOLD METHODS ====================

func (s *bookingService) RecordPayment(ctx context.Context, bookingID string, req *request.RecordPaymentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != entity.BookingStatusActive {
		return nil, fmt.Errorf("%w: booking %s is %s, cannot record payment", ErrInvalidState, bookingID, booking.Status)
	}

	booking.Payment.PaidAmount += req.Amount
	if req.PaymentMethod != "" {
		booking.Payment.PaymentMethod = req.PaymentMethod
	}
	status := engine.ResolvePaymentStatus(booking.Payment)
	booking.Payment.IsFullyPaid = status.Settled()
	booking.UpdatedAt = s.now()

	if err := s.save(ctx, booking); err != nil {
		return nil, fmt.Errorf("record payment for booking %s: %w", bookingID, err)
	}

	s.log.Info("Payment recorded",
		zap.String("booking_id", bookingID),
		zap.Float64("amount", req.Amount),
		zap.Float64("paid_amount", booking.Payment.PaidAmount),
		zap.String("payment_status", string(status)),
	)
	s.publish(ctx, messaging.BookingPaid, booking)

	resp := response.BookingToResponse(booking, s.packageName(ctx, booking.PackageID))
	return &resp, nil
}

// ConfirmBooking turns an active option into a confirmed booking before its
// hold date passes. Its pax already count against stock, so no stock check is
// repeated.
func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != entity.BookingStatusActive {
		return nil, fmt.Errorf("%w: booking %s is %s, cannot confirm", ErrInvalidState, bookingID, booking.Status)
	}
	if !booking.IsOption() {
		return nil, fmt.Errorf("%w: booking %s is already confirmed", ErrInvalidState, bookingID)
	}
	if s.holdLapsed(booking) {
		return nil, fmt.Errorf("%w: option %s expired on %s", ErrInvalidState, bookingID, *booking.ReservedUntil)
	}

	booking.BookingType = entity.BookingTypeConfirmed
	booking.ReservedUntil = nil
	booking.UpdatedAt = s.now()

	if err := s.save(ctx, booking); err != nil {
		return nil, fmt.Errorf("confirm booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking confirmed", zap.String("booking_id", bookingID))
	s.publish(ctx, messaging.BookingConfirmed, booking)

	resp := response.BookingToResponse(booking, s.packageName(ctx, booking.PackageID))
	return &resp, nil
}

// ReleaseExpiredOptions releases every active option whose hold date has
// passed, giving its pax back to the package stock. It returns how many were
// released; a failure on one booking does not stop the others.
func (s *bookingService) ReleaseExpiredOptions(ctx context.Context) (int, error) {
	now := s.now()

	expired, err := s.repo.Booking.FindExpiredOptions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find expired options: %w", err)
	}

	released := 0
	var errs []error
	for _, booking := range expired {
		if booking.ReservedUntil == nil || !engine.IsHoldExpired(*booking.ReservedUntil, now) {
			continue
		}

		ok, err := s.repo.Booking.ReleaseOption(ctx, booking.ID, now)
		if err != nil {
			s.log.Error("Failed to release option", zap.Error(err), zap.String("booking_id", booking.ID.String()))
			errs = append(errs, err)
			continue
		}
		if !ok {
			s.log.Info("Option changed before release, skipped", zap.String("booking_id", booking.ID.String()))
			continue
		}

		booking.Status = entity.BookingStatusReleased
		released++
		s.log.Info("Option released",
			zap.String("booking_id", booking.ID.String()),
			zap.String("reference", booking.Reference),
			zap.Stringp("reserved_until", booking.ReservedUntil),
		)
		s.publish(ctx, messaging.BookingReleased, booking)
	}

	return released, errors.Join(errs...)
}

// ==================== HELPER METHODS ====================

func (s *bookingService) find(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID format %s", ErrValidation, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	return booking, nil
}

// save writes an active booking; losing a race with the sweeper surfaces as
// ErrInvalidState.
func (s *bookingService) save(ctx context.Context, booking *entity.Booking) error {
	err := s.repo.Booking.Update(ctx, booking)
	if errors.Is(err, repository.ErrStale) {
		return fmt.Errorf("%w: booking %s was released or removed meanwhile", ErrInvalidState, booking.ID.String())
	}
	return err
}

func (s *bookingService) holdLapsed(b *entity.Booking) bool {
	return b.IsOption() && b.ReservedUntil != nil && engine.IsHoldExpired(*b.ReservedUntil, s.now())
}

// uploadsOf never returns nil; the column is a NOT NULL JSON array.
func uploadsOf(draft *request.BookingDraft) []string {
	if draft.Uploads == nil {
		return []string{}
	}
	return draft.Uploads
}

func (s *bookingService) packageName(ctx context.Context, id uuid.UUID) string {
	pkg, err := s.store.get(ctx, id)
	if err != nil || pkg == nil {
		return ""
	}
	return pkg.General.Name
}

// publish never fails the caller; the booking is already saved.
func (s *bookingService) publish(ctx context.Context, eventType messaging.EventType, b *entity.Booking) {
	event := messaging.BookingEvent{
		ID:            uuid.New(),
		Type:          eventType,
		BookingID:     b.ID,
		Reference:     b.Reference,
		PackageID:     b.PackageID,
		BookingType:   string(b.BookingType),
		ReservedUntil: b.ReservedUntil,
		PaxTotal:      b.PaxTotal,
		TotalPrice:    b.Payment.TotalPrice,
		PaidAmount:    b.Payment.PaidAmount,
		PaymentStatus: string(engine.ResolvePaymentStatus(b.Payment)),
		Timestamp:     s.now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("routing_key", event.RoutingKey()),
			zap.String("booking_id", b.ID.String()),
		)
	}
}
