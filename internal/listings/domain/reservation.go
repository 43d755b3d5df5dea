package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	// ReservationStatusConfirmed is the only initial state.
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	// ReservationStatusCancelled is terminal; there is no way back to confirmed.
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a guest booking of a property over a half-open date
// interval [checkIn, checkOut).
// Invariants:
//   - checkIn is strictly before checkOut
//   - non-cancelled reservations of one property never overlap
type Reservation struct {
	id         ReservationID
	propertyID PropertyID
	guestName  string
	guestEmail string
	checkIn    time.Time
	checkOut   time.Time
	guests     int
	totalPrice decimal.Decimal
	status     ReservationStatus
	createdAt  time.Time
}

// NewReservation creates a confirmed reservation.
// The now parameter makes the function pure and testable.
func NewReservation(
	propertyID PropertyID,
	guestName, guestEmail string,
	checkIn, checkOut time.Time,
	guests int,
	totalPrice decimal.Decimal,
	now time.Time,
) (*Reservation, error) {
	if isBlank(guestName) {
		return nil, NewValidationError("Guest name is required")
	}
	if isBlank(guestEmail) {
		return nil, NewValidationError("Guest email is required")
	}
	if !checkIn.Before(checkOut) {
		return nil, NewValidationError("Check-out must be after check-in")
	}
	if guests < 1 {
		return nil, NewValidationError("At least 1 guest is required")
	}
	return &Reservation{
		id:         NewReservationID(),
		propertyID: propertyID,
		guestName:  guestName,
		guestEmail: guestEmail,
		checkIn:    checkIn,
		checkOut:   checkOut,
		guests:     guests,
		totalPrice: totalPrice,
		status:     ReservationStatusConfirmed,
		createdAt:  now,
	}, nil
}

// ReconstructReservation reconstructs a Reservation from persisted state.
// It bypasses validation since the data is assumed valid from the database.
func ReconstructReservation(
	id ReservationID,
	propertyID PropertyID,
	guestName, guestEmail string,
	checkIn, checkOut time.Time,
	guests int,
	totalPrice decimal.Decimal,
	status ReservationStatus,
	createdAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		propertyID: propertyID,
		guestName:  guestName,
		guestEmail: guestEmail,
		checkIn:    checkIn,
		checkOut:   checkOut,
		guests:     guests,
		totalPrice: totalPrice,
		status:     status,
		createdAt:  createdAt,
	}
}

// Cancel marks the reservation cancelled. Cancellation is a soft delete and
// is terminal; calling Cancel on an already-cancelled reservation is a no-op.
func (r *Reservation) Cancel() {
	r.status = ReservationStatusCancelled
}

// IsActive reports whether the reservation still blocks its dates.
func (r *Reservation) IsActive() bool {
	return r.status != ReservationStatusCancelled
}

// Overlaps reports whether the half-open interval [start, end) intersects the
// reservation's own [checkIn, checkOut). Back-to-back stays, where one
// check-out equals the next check-in, do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return start.Before(r.checkOut) && end.After(r.checkIn)
}

// Getters

func (r *Reservation) ID() ReservationID           { return r.id }
func (r *Reservation) PropertyID() PropertyID      { return r.propertyID }
func (r *Reservation) GuestName() string           { return r.guestName }
func (r *Reservation) GuestEmail() string          { return r.guestEmail }
func (r *Reservation) CheckIn() time.Time          { return r.checkIn }
func (r *Reservation) CheckOut() time.Time         { return r.checkOut }
func (r *Reservation) Guests() int                 { return r.guests }
func (r *Reservation) TotalPrice() decimal.Decimal { return r.totalPrice }
func (r *Reservation) Status() ReservationStatus   { return r.status }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
