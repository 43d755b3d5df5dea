package postgres_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"realestate/internal/listings/domain"
	"realestate/internal/listings/infrastructure/postgres"
)

// DataStoreSuite tests DataStore transaction behavior against a real Postgres
// instance.
//
// Justification: transaction commit/rollback semantics, panic handling, and
// the concurrent double-booking race require real database behavior that
// cannot be mocked accurately.
type DataStoreSuite struct {
	suite.Suite
	ctx       context.Context
	dataStore *postgres.DataStore
}

func TestDataStoreSuite(t *testing.T) {
	suite.Run(t, new(DataStoreSuite))
}

func (s *DataStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(truncateTables(s.ctx, getTestPool()))
	s.dataStore = postgres.NewDataStore(getTestPool())
}

func (s *DataStoreSuite) newOwner(name string) *domain.Owner {
	owner, err := domain.NewOwner(name, "", "", time.Time{}, time.Now().UTC())
	s.Require().NoError(err)
	return owner
}

func (s *DataStoreSuite) createProperty(code string) domain.PropertyID {
	now := time.Now().UTC()
	owner := s.newOwner("María López")
	property, err := domain.NewProperty("Apartamento", "Medellín", decimal.NewFromInt(3000), code, 2021, owner.ID(), now)
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

func (s *DataStoreSuite) TestTransactionBehavior() {
	s.Run("successful callback commits all changes", func() {
		owner := s.newOwner("Ana Gómez")

		err := s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			return repos.Owners().Save(s.ctx, owner)
		})
		s.Require().NoError(err)

		// Verify data persisted
		found, err := s.dataStore.Owners().FindByID(s.ctx, owner.ID())
		s.Require().NoError(err)
		s.Equal(owner.ID(), found.ID())
	})

	s.Run("error in callback rolls back all changes", func() {
		owner := s.newOwner("Carlos Restrepo")
		testErr := errors.New("simulated failure")

		err := s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			if err := repos.Owners().Save(s.ctx, owner); err != nil {
				return err
			}
			return testErr // Return error after save
		})
		s.ErrorIs(err, testErr)

		// Verify data was NOT persisted
		_, err = s.dataStore.Owners().FindByID(s.ctx, owner.ID())
		s.ErrorIs(err, domain.ErrOwnerNotFound)
	})

	s.Run("panic in callback rolls back and re-panics", func() {
		owner := s.newOwner("Juan Mejía")

		s.Panics(func() {
			_ = s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
				if err := repos.Owners().Save(s.ctx, owner); err != nil {
					return err
				}
				panic("simulated panic")
			})
		})

		// Verify data was NOT persisted
		_, err := s.dataStore.Owners().FindByID(s.ctx, owner.ID())
		s.ErrorIs(err, domain.ErrOwnerNotFound)
	})

	s.Run("owner and property writes in one transaction are atomic", func() {
		owner := s.newOwner("Inversiones S.A.S.")
		property, err := domain.NewProperty("Oficina", "Ciudad del Río", decimal.NewFromInt(890000000), "OF-007", 2021, owner.ID(), time.Now().UTC())
		s.Require().NoError(err)

		err = s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			if err := repos.Owners().Save(s.ctx, owner); err != nil {
				return err
			}
			return repos.Properties().Save(s.ctx, property)
		})
		s.Require().NoError(err)

		found, err := s.dataStore.Properties().FindByID(s.ctx, property.ID())
		s.Require().NoError(err)
		s.Equal(owner.ID(), found.OwnerID())
	})
}

func (s *DataStoreSuite) TestConcurrentBooking() {
	s.Run("only one of many overlapping bookings commits", func() {
		propertyID := s.createProperty("PH-001")

		// 10 goroutines race to book the same week. Each passes or fails
		// the conflict probe in its own transaction; the exclusion
		// constraint settles whoever slips through.
		const goroutines = 10

		var wg sync.WaitGroup
		var successCount, conflictCount atomic.Int32

		for range goroutines {
			wg.Go(func() {
				reservation, err := domain.NewReservation(
					propertyID,
					"Laura Cardona", "laura@example.com",
					day(10), day(17),
					2,
					decimal.NewFromInt(700),
					time.Now().UTC(),
				)
				if err != nil {
					return
				}

				err = s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
					conflict, err := repos.Reservations().HasConflict(s.ctx, propertyID, day(10), day(17), domain.ReservationID{})
					if err != nil {
						return err
					}
					if conflict {
						return domain.ErrDateConflict
					}
					return repos.Reservations().Save(s.ctx, reservation)
				})

				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrDateConflict):
					conflictCount.Add(1)
				}
			})
		}

		wg.Wait()

		s.Equal(int32(1), successCount.Load(), "exactly one booking should commit")
		s.Equal(int32(goroutines-1), conflictCount.Load(), "the rest should see a date conflict")

		reservations, err := s.dataStore.Reservations().FindActiveByProperty(s.ctx, propertyID)
		s.Require().NoError(err)
		s.Len(reservations, 1)
	})
}

func (s *DataStoreSuite) TestRepositoryAccess() {
	s.Run("all repositories are accessible within transaction", func() {
		owner := s.newOwner("Marta Zapata")

		err := s.dataStore.Atomic(s.ctx, func(repos domain.Repositories) error {
			// Access all repositories
			s.NotNil(repos.Owners())
			s.NotNil(repos.Properties())
			s.NotNil(repos.Images())
			s.NotNil(repos.Traces())
			s.NotNil(repos.Reservations())

			return repos.Owners().Save(s.ctx, owner)
		})
		s.Require().NoError(err)
	})
}
