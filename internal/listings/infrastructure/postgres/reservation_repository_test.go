package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"realestate/internal/listings/domain"
	"realestate/internal/listings/infrastructure/postgres"
)

// ReservationRepositorySuite tests ReservationRepository behavior against a
// real Postgres instance.
//
// Justification: the gist exclusion constraint over daterange is the
// authoritative overlap guard; only real Postgres can exercise it.
type ReservationRepositorySuite struct {
	suite.Suite
	ctx        context.Context
	repo       *postgres.ReservationRepository
	propertyID domain.PropertyID
}

func TestReservationRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReservationRepositorySuite))
}

func (s *ReservationRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(truncateTables(s.ctx, getTestPool()))
	s.repo = postgres.NewReservationRepository(getTestPool())
	s.propertyID = s.createProperty("AP-PRV-002")
}

func (s *ReservationRepositorySuite) createProperty(code string) domain.PropertyID {
	now := time.Now().UTC()
	owner, err := domain.NewOwner("María López", "", "", time.Time{}, now)
	s.Require().NoError(err)
	s.Require().NoError(postgres.NewOwnerRepository(getTestPool()).Save(s.ctx, owner))

	property, err := domain.NewProperty("Apartamento", "Provenza, Medellín", decimal.NewFromInt(3000), code, 2021, owner.ID(), now)
	s.Require().NoError(err)
	s.Require().NoError(postgres.NewPropertyRepository(getTestPool()).Save(s.ctx, property))
	return property.ID()
}

func day(d int) time.Time {
	return time.Date(2030, 7, d, 0, 0, 0, 0, time.UTC)
}

func (s *ReservationRepositorySuite) newReservation(propertyID domain.PropertyID, checkIn, checkOut time.Time) *domain.Reservation {
	reservation, err := domain.NewReservation(
		propertyID,
		"Laura Cardona", "laura@example.com",
		checkIn, checkOut,
		2,
		decimal.NewFromInt(300),
		time.Now().UTC(),
	)
	s.Require().NoError(err)
	return reservation
}

func (s *ReservationRepositorySuite) TestPersistence() {
	s.Run("Save and FindByID round trip", func() {
		reservation := s.newReservation(s.propertyID, day(10), day(13))

		err := s.repo.Save(s.ctx, reservation)
		s.Require().NoError(err)

		found, err := s.repo.FindByID(s.ctx, reservation.ID())
		s.Require().NoError(err)
		s.Equal(reservation.ID(), found.ID())
		s.Equal("Laura Cardona", found.GuestName())
		s.True(found.CheckIn().Equal(day(10)))
		s.True(found.CheckOut().Equal(day(13)))
		s.Equal(domain.ReservationStatusConfirmed, found.Status())
		s.True(found.TotalPrice().Equal(decimal.NewFromInt(300)))
	})

	s.Run("Save persists a cancellation", func() {
		reservation := s.newReservation(s.propertyID, day(1), day(3))
		s.Require().NoError(s.repo.Save(s.ctx, reservation))

		reservation.Cancel()
		s.Require().NoError(s.repo.Save(s.ctx, reservation))

		found, err := s.repo.FindByID(s.ctx, reservation.ID())
		s.Require().NoError(err)
		s.Equal(domain.ReservationStatusCancelled, found.Status())
	})

	s.Run("FindByID returns ErrReservationNotFound for missing", func() {
		_, err := s.repo.FindByID(s.ctx, domain.NewReservationID())

		s.ErrorIs(err, domain.ErrReservationNotFound)
	})
}

func (s *ReservationRepositorySuite) TestOverlapGuards() {
	s.Run("exclusion constraint rejects an overlapping booking", func() {
		first := s.newReservation(s.propertyID, day(10), day(15))
		s.Require().NoError(s.repo.Save(s.ctx, first))

		overlapping := s.newReservation(s.propertyID, day(14), day(18))

		err := s.repo.Save(s.ctx, overlapping)

		s.ErrorIs(err, domain.ErrDateConflict)
	})

	s.Run("back-to-back bookings do not conflict", func() {
		first := s.newReservation(s.propertyID, day(10), day(15))
		s.Require().NoError(s.repo.Save(s.ctx, first))

		adjacent := s.newReservation(s.propertyID, day(15), day(20))

		s.Require().NoError(s.repo.Save(s.ctx, adjacent))
	})

	s.Run("cancelled reservations free their dates", func() {
		reservation := s.newReservation(s.propertyID, day(10), day(15))
		s.Require().NoError(s.repo.Save(s.ctx, reservation))

		reservation.Cancel()
		s.Require().NoError(s.repo.Save(s.ctx, reservation))

		replacement := s.newReservation(s.propertyID, day(10), day(15))
		s.Require().NoError(s.repo.Save(s.ctx, replacement))
	})

	s.Run("same dates on another property do not conflict", func() {
		first := s.newReservation(s.propertyID, day(10), day(15))
		s.Require().NoError(s.repo.Save(s.ctx, first))

		otherProperty := s.createProperty("CA-ENV-005")
		other := s.newReservation(otherProperty, day(10), day(15))

		s.Require().NoError(s.repo.Save(s.ctx, other))
	})

	s.Run("HasConflict matches the half-open overlap rule", func() {
		reservation := s.newReservation(s.propertyID, day(10), day(15))
		s.Require().NoError(s.repo.Save(s.ctx, reservation))

		conflict, err := s.repo.HasConflict(s.ctx, s.propertyID, day(14), day(16), domain.ReservationID{})
		s.Require().NoError(err)
		s.True(conflict)

		conflict, err = s.repo.HasConflict(s.ctx, s.propertyID, day(15), day(18), domain.ReservationID{})
		s.Require().NoError(err)
		s.False(conflict, "check-in on the existing check-out day is allowed")

		conflict, err = s.repo.HasConflict(s.ctx, s.propertyID, day(12), day(14), reservation.ID())
		s.Require().NoError(err)
		s.False(conflict, "a reservation never conflicts with itself")
	})
}

func (s *ReservationRepositorySuite) TestFindActiveByProperty() {
	s.Run("returns non-cancelled reservations in check-in order", func() {
		late := s.newReservation(s.propertyID, day(20), day(22))
		s.Require().NoError(s.repo.Save(s.ctx, late))

		early := s.newReservation(s.propertyID, day(5), day(8))
		s.Require().NoError(s.repo.Save(s.ctx, early))

		cancelled := s.newReservation(s.propertyID, day(10), day(12))
		s.Require().NoError(s.repo.Save(s.ctx, cancelled))
		cancelled.Cancel()
		s.Require().NoError(s.repo.Save(s.ctx, cancelled))

		reservations, err := s.repo.FindActiveByProperty(s.ctx, s.propertyID)
		s.Require().NoError(err)
		s.Require().Len(reservations, 2)
		s.Equal(early.ID(), reservations[0].ID())
		s.Equal(late.ID(), reservations[1].ID())
	})
}
