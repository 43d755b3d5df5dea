package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"realestate/internal/listings/domain"
)

// ReservationRepository persists Reservation aggregates using PostgreSQL.
//
// The reservations table carries an exclusion constraint over
// (property_id, daterange(check_in, check_out)) for non-cancelled rows, so
// two concurrent overlapping bookings cannot both commit even though each
// passed the HasConflict probe inside its own transaction.
type ReservationRepository struct {
	db Executor
}

// NewReservationRepository binds the repository to a database handle (pool or tx).
func NewReservationRepository(db Executor) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, property_id, guest_name, guest_email, check_in, check_out, guests, total_price, status, created_at`

// Save persists a Reservation as an upsert keyed by ID.
// Errors: returns domain.ErrDateConflict when the exclusion constraint
// rejects an overlapping booking.
func (r *ReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reservations (id, property_id, guest_name, guest_email, check_in, check_out, guests, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status`,
		uuid.UUID(reservation.ID()),
		uuid.UUID(reservation.PropertyID()),
		reservation.GuestName(),
		reservation.GuestEmail(),
		reservation.CheckIn(),
		reservation.CheckOut(),
		reservation.Guests(),
		decimalToNumeric(reservation.TotalPrice()),
		string(reservation.Status()),
		reservation.CreatedAt(),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return domain.ErrDateConflict
	}
	return err
}

// FindByID retrieves a Reservation by ID, cancelled ones included.
// Errors: returns domain.ErrReservationNotFound when missing.
func (r *ReservationRepository) FindByID(ctx context.Context, id domain.ReservationID) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`,
		uuid.UUID(id),
	)
	reservation, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	return reservation, err
}

// FindActiveByProperty retrieves a property's non-cancelled reservations
// ordered by check-in date.
func (r *ReservationRepository) FindActiveByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.Reservation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		WHERE property_id = $1 AND status <> 'cancelled'
		ORDER BY check_in, id`,
		uuid.UUID(propertyID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, rows.Err()
}

// HasConflict reports whether any non-cancelled reservation of the property
// overlaps [checkIn, checkOut) under the half-open rule. Back-to-back stays,
// where one check-out equals the next check-in, do not conflict.
func (r *ReservationRepository) HasConflict(ctx context.Context, propertyID domain.PropertyID, checkIn, checkOut time.Time, excludeID domain.ReservationID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE property_id = $1
			  AND status <> 'cancelled'
			  AND id <> $2
			  AND check_in < $4
			  AND check_out > $3
		)`,
		uuid.UUID(propertyID),
		uuid.UUID(excludeID),
		checkIn,
		checkOut,
	).Scan(&exists)
	return exists, err
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		id, propertyID        uuid.UUID
		guestName, guestEmail string
		checkIn, checkOut     time.Time
		guests                int
		totalPrice            pgtype.Numeric
		status                string
		createdAt             time.Time
	)
	if err := row.Scan(&id, &propertyID, &guestName, &guestEmail, &checkIn, &checkOut, &guests, &totalPrice, &status, &createdAt); err != nil {
		return nil, err
	}
	totalDec, err := numericToDecimal(totalPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid total_price: %v", domain.ErrCorruptData, err)
	}
	return domain.ReconstructReservation(
		domain.ReservationID(id),
		domain.PropertyID(propertyID),
		guestName, guestEmail,
		checkIn, checkOut,
		guests,
		totalDec,
		domain.ReservationStatus(status),
		createdAt,
	), nil
}

// Verify interface implementation.
var _ domain.ReservationRepository = (*ReservationRepository)(nil)
