package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-backoffice/internal/data/entity"
	"travel-backoffice/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, limit, offset int, packageID *uuid.UUID) ([]*entity.Booking, error)
	CountAll(ctx context.Context, packageID *uuid.UUID) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	FindActiveByPackageID(ctx context.Context, packageID uuid.UUID) ([]*entity.Booking, error)
	FindExpiredOptions(ctx context.Context, before time.Time) ([]*entity.Booking, error)
	ReleaseOption(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, reference, package_id, booking_type, reserved_until, status,
	rooms, pax_total, uploads, payment, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		booking       entity.Booking
		reservedUntil *time.Time
	)
	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.PackageID,
		&booking.BookingType,
		&reservedUntil,
		&booking.Status,
		&booking.Rooms,
		&booking.PaxTotal,
		&booking.Uploads,
		&booking.Payment,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reservedUntil != nil {
		s := reservedUntil.Format(entity.DateLayout)
		booking.ReservedUntil = &s
	}
	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// dateParam converts the YYYY-MM-DD hold date into a DATE parameter.
func dateParam(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(entity.DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid reserved_until %q: %w", *s, err)
	}
	return &d, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	reservedUntil, err := dateParam(booking.ReservedUntil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.PackageID,
		booking.BookingType,
		reservedUntil,
		booking.Status,
		booking.Rooms,
		booking.PaxTotal,
		booking.Uploads,
		booking.Payment,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("package_id", booking.PackageID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int, packageID *uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($3::uuid IS NULL OR package_id = $3)
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset, packageID)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	bookings, err := collectBookings(rows)
	if err != nil {
		r.log.Error("Failed to read booking rows", zap.Error(err))
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) CountAll(ctx context.Context, packageID *uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE ($1::uuid IS NULL OR package_id = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, packageID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

// Update rewrites an active booking. Status is never written here; a booking
// released since it was read fails with ErrStale instead of coming back.
func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	reservedUntil, err := dateParam(booking.ReservedUntil)
	if err != nil {
		return err
	}

	query := `
		UPDATE bookings
		SET package_id = $2, booking_type = $3, reserved_until = $4,
		    rooms = $5, pax_total = $6, uploads = $7, payment = $8, updated_at = $9
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.PackageID,
		booking.BookingType,
		reservedUntil,
		booking.Rooms,
		booking.PaxTotal,
		booking.Uploads,
		booking.Payment,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		r.log.Warn("Booking not updated, no longer active", zap.String("booking_id", booking.ID.String()))
		return fmt.Errorf("booking %s is missing or no longer active: %w", booking.ID.String(), ErrStale)
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

func (r *bookingRepository) FindActiveByPackageID(ctx context.Context, packageID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE package_id = $1 AND status = 'active'
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, packageID)
	if err != nil {
		r.log.Error("Failed to find active bookings by package",
			zap.Error(err),
			zap.String("package_id", packageID.String()),
		)
		return nil, fmt.Errorf("find active bookings by package %s: %w", packageID.String(), err)
	}

	return collectBookings(rows)
}

func (r *bookingRepository) FindExpiredOptions(ctx context.Context, before time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'active' AND booking_type = $1
		  AND reserved_until IS NOT NULL AND reserved_until < $2::date
		ORDER BY reserved_until
	`

	rows, err := r.db.Query(ctx, query, entity.BookingTypeOption, before)
	if err != nil {
		r.log.Error("Failed to find expired option bookings", zap.Error(err))
		return nil, fmt.Errorf("find expired option bookings: %w", err)
	}

	return collectBookings(rows)
}

// ReleaseOption releases the booking only if it is still an active option
// whose hold ended before now. It reports false when the booking was
// confirmed, edited or released in the meantime.
func (r *bookingRepository) ReleaseOption(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'released', updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND booking_type = $2
		  AND reserved_until IS NOT NULL AND reserved_until < $3::date
	`

	result, err := r.db.Exec(ctx, query, id, entity.BookingTypeOption, now)
	if err != nil {
		r.log.Error("Failed to release option booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("release option booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
