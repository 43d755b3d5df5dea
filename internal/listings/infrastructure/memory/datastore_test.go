package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"realestate/internal/listings/domain"
	"realestate/internal/listings/infrastructure/memory"
)

// DataStoreSuite tests the in-memory DataStore's transaction behavior,
// in particular that aggregates read inside a failed Atomic callback do not
// leak their mutations into the committed state.
type DataStoreSuite struct {
	suite.Suite
	ctx       context.Context
	dataStore *memory.DataStore
}

func TestDataStoreSuite(t *testing.T) {
	suite.Run(t, new(DataStoreSuite))
}

func (s *DataStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.dataStore = memory.NewDataStore()
}

func (s *DataStoreSuite) createProperty(code string, price decimal.Decimal) domain.PropertyID {
	now := time.Now().UTC()
	owner, err := domain.NewOwner("María López", "Medellín", "", time.Time{}, now)
	s.Require().NoError(err)
	property, err := domain.NewProperty("Apartamento", "El Poblado", price, code, 2021, owner.ID(), now)
	s.Require().NoError(err)

	err = s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
		if err := repos.Owners().Save(s.ctx, owner); err != nil {
			return err
		}
		return repos.Properties().Save(s.ctx, property)
	})
	s.Require().NoError(err)
	return property.ID()
}

func (s *DataStoreSuite) createReservation(propertyID domain.PropertyID, checkIn, checkOut time.Time) domain.ReservationID {
	reservation, err := domain.NewReservation(
		propertyID,
		"Laura Cardona", "laura@example.com",
		checkIn, checkOut,
		2,
		decimal.NewFromInt(700),
		time.Now().UTC(),
	)
	s.Require().NoError(err)

	err = s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
		return repos.Reservations().Save(s.ctx, reservation)
	})
	s.Require().NoError(err)
	return reservation.ID()
}

func (s *DataStoreSuite) TestTransactionBehavior() {
	s.Run("successful callback commits all changes", func() {
		owner, err := domain.NewOwner("Ana Gómez", "Laureles", "", time.Time{}, time.Now().UTC())
		s.Require().NoError(err)

		err = s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			return repos.Owners().Save(s.ctx, owner)
		})
		s.Require().NoError(err)

		found, err := s.dataStore.Owners().FindByID(s.ctx, owner.ID())
		s.Require().NoError(err)
		s.Equal(owner.ID(), found.ID())
	})

	s.Run("error in callback discards staged writes", func() {
		owner, err := domain.NewOwner("Carlos Restrepo", "Envigado", "", time.Time{}, time.Now().UTC())
		s.Require().NoError(err)
		testErr := errors.New("simulated failure")

		err = s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			if err := repos.Owners().Save(s.ctx, owner); err != nil {
				return err
			}
			return testErr
		})
		s.ErrorIs(err, testErr)

		_, err = s.dataStore.Owners().FindByID(s.ctx, owner.ID())
		s.ErrorIs(err, domain.ErrOwnerNotFound)
	})
}

func (s *DataStoreSuite) TestRollbackIsolation() {
	testErr := errors.New("simulated failure")

	s.Run("price change in a failed callback is rolled back", func() {
		propertyID := s.createProperty("RB-001", decimal.NewFromInt(3000))

		err := s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			property, err := repos.Properties().FindByID(s.ctx, propertyID)
			if err != nil {
				return err
			}
			if _, err := property.ChangePrice(decimal.NewFromInt(9999), time.Now().UTC()); err != nil {
				return err
			}
			return testErr
		})
		s.ErrorIs(err, testErr)

		found, err := s.dataStore.Properties().FindByID(s.ctx, propertyID)
		s.Require().NoError(err)
		s.True(found.Price().Equal(decimal.NewFromInt(3000)), "price should keep its committed value, got %s", found.Price())
	})

	s.Run("attribute update in a failed callback is rolled back", func() {
		propertyID := s.createProperty("RB-002", decimal.NewFromInt(3000))

		err := s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			property, err := repos.Properties().FindByID(s.ctx, propertyID)
			if err != nil {
				return err
			}
			property.ApplyUpdate("Casa Renovada", property.Address(), property.CodeInternal(), property.Year(), property.OwnerID(), time.Now().UTC())
			return testErr
		})
		s.ErrorIs(err, testErr)

		found, err := s.dataStore.Properties().FindByID(s.ctx, propertyID)
		s.Require().NoError(err)
		s.Equal("Apartamento", found.Name())
	})

	s.Run("cancellation in a failed callback keeps the reservation active", func() {
		propertyID := s.createProperty("RB-003", decimal.NewFromInt(3000))
		checkIn := time.Date(2030, 7, 10, 0, 0, 0, 0, time.UTC)
		checkOut := time.Date(2030, 7, 17, 0, 0, 0, 0, time.UTC)
		reservationID := s.createReservation(propertyID, checkIn, checkOut)

		err := s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			reservation, err := repos.Reservations().FindByID(s.ctx, reservationID)
			if err != nil {
				return err
			}
			reservation.Cancel()
			return testErr
		})
		s.ErrorIs(err, testErr)

		found, err := s.dataStore.Reservations().FindByID(s.ctx, reservationID)
		s.Require().NoError(err)
		s.True(found.IsActive(), "the dates should still be blocked")

		conflict, err := s.dataStore.Reservations().HasConflict(s.ctx, propertyID, checkIn, checkOut, domain.ReservationID{})
		s.Require().NoError(err)
		s.True(conflict)
	})

	s.Run("mutation through a listing read in a failed callback is rolled back", func() {
		propertyID := s.createProperty("RB-004", decimal.NewFromInt(3000))

		err := s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			properties, _, err := repos.Properties().List(s.ctx, domain.PropertyFilter{Page: 1, PageSize: 10})
			if err != nil {
				return err
			}
			for _, p := range properties {
				if _, err := p.ChangePrice(decimal.NewFromInt(1), time.Now().UTC()); err != nil {
					return err
				}
			}
			return testErr
		})
		s.ErrorIs(err, testErr)

		found, err := s.dataStore.Properties().FindByID(s.ctx, propertyID)
		s.Require().NoError(err)
		s.True(found.Price().Equal(decimal.NewFromInt(3000)))
	})

	s.Run("mutation saved in a committed callback persists", func() {
		propertyID := s.createProperty("RB-005", decimal.NewFromInt(3000))

		err := s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			property, err := repos.Properties().FindByID(s.ctx, propertyID)
			if err != nil {
				return err
			}
			trace, err := property.ChangePrice(decimal.NewFromInt(4500), time.Now().UTC())
			if err != nil {
				return err
			}
			if err := repos.Properties().Save(s.ctx, property); err != nil {
				return err
			}
			return repos.Traces().Add(s.ctx, trace)
		})
		s.Require().NoError(err)

		found, err := s.dataStore.Properties().FindByID(s.ctx, propertyID)
		s.Require().NoError(err)
		s.True(found.Price().Equal(decimal.NewFromInt(4500)))
	})
}
