package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"realestate/internal/listings/domain"
	"realestate/internal/listings/infrastructure/postgres"
)

// OwnerRepositorySuite tests OwnerRepository behavior against a real Postgres instance.
//
// Justification: the nullable birthday column round trip (zero time <-> NULL)
// depends on pgtype.Date behavior that an in-memory fake cannot exercise.
type OwnerRepositorySuite struct {
	suite.Suite
	ctx  context.Context
	repo *postgres.OwnerRepository
}

func TestOwnerRepositorySuite(t *testing.T) {
	suite.Run(t, new(OwnerRepositorySuite))
}

func (s *OwnerRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(truncateTables(s.ctx, getTestPool()))
	s.repo = postgres.NewOwnerRepository(getTestPool())
}

func (s *OwnerRepositorySuite) newOwner(name string, birthday time.Time) *domain.Owner {
	owner, err := domain.NewOwner(name, "Calle 10 #40-20, Medellín", "photo.jpg", birthday, time.Now().UTC())
	s.Require().NoError(err)
	return owner
}

func (s *OwnerRepositorySuite) TestPersistence() {
	s.Run("Save and FindByID round trip", func() {
		birthday := time.Date(1978, 3, 15, 0, 0, 0, 0, time.UTC)
		owner := s.newOwner("María López", birthday)

		err := s.repo.Save(s.ctx, owner)
		s.Require().NoError(err)

		found, err := s.repo.FindByID(s.ctx, owner.ID())
		s.Require().NoError(err)
		s.Equal(owner.ID(), found.ID())
		s.Equal("María López", found.Name())
		s.Equal(owner.Address(), found.Address())
		s.Equal(owner.Photo(), found.Photo())
		s.True(found.Birthday().Equal(birthday))
	})

	s.Run("zero birthday persists as NULL and reads back as zero", func() {
		owner := s.newOwner("Inversiones S.A.S.", time.Time{})

		err := s.repo.Save(s.ctx, owner)
		s.Require().NoError(err)

		var isNull bool
		err = getTestPool().QueryRow(s.ctx,
			`SELECT birthday IS NULL FROM owners WHERE id = $1`, owner.ID().String(),
		).Scan(&isNull)
		s.Require().NoError(err)
		s.True(isNull, "birthday column should be NULL")

		found, err := s.repo.FindByID(s.ctx, owner.ID())
		s.Require().NoError(err)
		s.True(found.Birthday().IsZero())
	})

	s.Run("Save updates existing record", func() {
		owner := s.newOwner("Carlos Restrepo", time.Time{})
		s.Require().NoError(s.repo.Save(s.ctx, owner))

		updated := domain.ReconstructOwner(
			owner.ID(),
			"Carlos A. Restrepo", "Nueva dirección", owner.Photo(),
			owner.Birthday(),
			owner.CreatedAt(), time.Now().UTC(),
		)
		s.Require().NoError(s.repo.Save(s.ctx, updated))

		found, err := s.repo.FindByID(s.ctx, owner.ID())
		s.Require().NoError(err)
		s.Equal("Carlos A. Restrepo", found.Name())
		s.Equal("Nueva dirección", found.Address())
	})

	s.Run("FindByID returns ErrOwnerNotFound for missing", func() {
		_, err := s.repo.FindByID(s.ctx, domain.NewOwnerID())

		s.ErrorIs(err, domain.ErrOwnerNotFound)
	})

	s.Run("preserves timestamps", func() {
		now := time.Now().UTC().Truncate(time.Microsecond)
		owner, err := domain.NewOwner("Ana Gómez", "", "", time.Time{}, now)
		s.Require().NoError(err)
		s.Require().NoError(s.repo.Save(s.ctx, owner))

		found, err := s.repo.FindByID(s.ctx, owner.ID())
		s.Require().NoError(err)
		s.WithinDuration(now, found.CreatedAt(), time.Millisecond)
		s.WithinDuration(now, found.UpdatedAt(), time.Millisecond)
	})
}

func (s *OwnerRepositorySuite) TestListing() {
	s.Run("FindAll orders by name", func() {
		for _, name := range []string{"Zulma", "Andrés", "Marta"} {
			s.Require().NoError(s.repo.Save(s.ctx, s.newOwner(name, time.Time{})))
		}

		owners, err := s.repo.FindAll(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(owners, 3)
		s.Equal("Andrés", owners[0].Name())
		s.Equal("Marta", owners[1].Name())
		s.Equal("Zulma", owners[2].Name())
	})

	s.Run("Exists reports presence", func() {
		owner := s.newOwner("Juan Mejía", time.Time{})
		s.Require().NoError(s.repo.Save(s.ctx, owner))

		exists, err := s.repo.Exists(s.ctx, owner.ID())
		s.Require().NoError(err)
		s.True(exists)

		exists, err = s.repo.Exists(s.ctx, domain.NewOwnerID())
		s.Require().NoError(err)
		s.False(exists)
	})
}
