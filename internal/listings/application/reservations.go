package application

import (
	"context"
	"errors"
	"time"

	"realestate/internal/common/logging"
	"realestate/internal/common/metrics"
	"realestate/internal/listings/domain"
)

// CreateReservationRequest represents a request to book a property.
type CreateReservationRequest struct {
	PropertyID domain.PropertyID
	GuestName  string
	GuestEmail string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
}

// CreateReservation books a property over [CheckIn, CheckOut).
// This operation:
//   - Validates the payload in a fixed order, stopping at the first violation
//   - Resolves the property (ErrPropertyNotFound)
//   - Probes for overlapping non-cancelled reservations (ErrDateConflict)
//   - Prices the stay as price x nights / 30
//   - All within a single atomic transaction
//
// The conflict probe and the insert share a transaction; the store's
// exclusion constraint settles races between concurrent bookings.
func (s *ListingsService) CreateReservation(ctx context.Context, req CreateReservationRequest) (*ReservationResponse, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := validateReservationInput(req.GuestName, req.GuestEmail, req.CheckIn, req.CheckOut, req.Guests, today); err != nil {
		return nil, err
	}

	var result *ReservationResponse

	err := s.dataStore.Atomic(ctx, func(repos domain.Repositories) error {
		property, err := repos.Properties().FindByID(ctx, req.PropertyID)
		if err != nil {
			return err
		}

		conflict, err := repos.Reservations().HasConflict(ctx, req.PropertyID, req.CheckIn, req.CheckOut, domain.ReservationID{})
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrDateConflict
		}

		totalPrice := property.QuoteStay(req.CheckIn, req.CheckOut)

		reservation, err := domain.NewReservation(req.PropertyID, req.GuestName, req.GuestEmail,
			req.CheckIn, req.CheckOut, req.Guests, totalPrice, now)
		if err != nil {
			return err
		}

		if err := repos.Reservations().Save(ctx, reservation); err != nil {
			return err
		}

		result = reservationResponse(reservation)

		logging.InfoContext(ctx, "Reservation created",
			"reservation_id", reservation.ID().String(),
			"property_id", req.PropertyID.String(),
			"check_in", req.CheckIn.Format(dateLayout),
			"check_out", req.CheckOut.Format(dateLayout),
			"total_price", totalPrice.String(),
		)

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDateConflict) {
			metrics.ReservationDateConflicts.Inc()
		}
		return nil, err
	}

	metrics.ReservationsCreated.Inc()
	return result, nil
}

// ListPropertyReservations returns a property's non-cancelled reservations
// ordered by check-in date.
func (s *ListingsService) ListPropertyReservations(ctx context.Context, propertyID domain.PropertyID) ([]*ReservationResponse, error) {
	exists, err := s.repos.Properties().Exists(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrPropertyNotFound
	}

	reservations, err := s.repos.Reservations().FindActiveByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	result := make([]*ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		result = append(result, reservationResponse(r))
	}
	return result, nil
}

// CancelReservationRequest represents a request to cancel a booking.
type CancelReservationRequest struct {
	PropertyID    domain.PropertyID
	ReservationID domain.ReservationID
}

// CancelReservation soft-deletes a reservation, freeing its dates.
// Cancelling an already-cancelled reservation succeeds and changes nothing.
func (s *ListingsService) CancelReservation(ctx context.Context, req CancelReservationRequest) error {
	err := s.dataStore.Atomic(ctx, func(repos domain.Repositories) error {
		reservation, err := repos.Reservations().FindByID(ctx, req.ReservationID)
		if err != nil {
			return err
		}
		// A reservation is only addressable under its own property.
		if reservation.PropertyID() != req.PropertyID {
			return domain.ErrReservationNotFound
		}

		reservation.Cancel()

		if err := repos.Reservations().Save(ctx, reservation); err != nil {
			return err
		}

		logging.InfoContext(ctx, "Reservation cancelled",
			"reservation_id", req.ReservationID.String(),
			"property_id", req.PropertyID.String(),
		)

		return nil
	})
	if err != nil {
		return err
	}

	metrics.ReservationsCancelled.Inc()
	return nil
}
