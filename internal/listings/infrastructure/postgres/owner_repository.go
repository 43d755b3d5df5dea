package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"realestate/internal/listings/domain"
)

// OwnerRepository persists Owner aggregates using PostgreSQL.
type OwnerRepository struct {
	db Executor
}

// NewOwnerRepository binds the repository to a database handle (pool or tx).
// Callers control transactional scope by passing a pgx.Tx when participating
// in a unit of work.
func NewOwnerRepository(db Executor) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Save persists an Owner aggregate as an upsert keyed by ID.
func (r *OwnerRepository) Save(ctx context.Context, owner *domain.Owner) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO owners (id, name, address, photo, birthday, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			photo = EXCLUDED.photo,
			birthday = EXCLUDED.birthday,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(owner.ID()),
		owner.Name(),
		owner.Address(),
		owner.Photo(),
		dateToParam(owner.Birthday()),
		owner.CreatedAt(),
		owner.UpdatedAt(),
	)
	return err
}

// FindByID retrieves an Owner by ID.
// Errors: returns domain.ErrOwnerNotFound when missing.
func (r *OwnerRepository) FindByID(ctx context.Context, id domain.OwnerID) (*domain.Owner, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, address, photo, birthday, created_at, updated_at
		FROM owners
		WHERE id = $1`,
		uuid.UUID(id),
	)
	owner, err := scanOwner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOwnerNotFound
	}
	return owner, err
}

// FindAll retrieves all owners ordered by name.
func (r *OwnerRepository) FindAll(ctx context.Context) ([]*domain.Owner, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, address, photo, birthday, created_at, updated_at
		FROM owners
		ORDER BY name, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []*domain.Owner
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// Exists reports whether an owner with the given ID exists.
func (r *OwnerRepository) Exists(ctx context.Context, id domain.OwnerID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM owners WHERE id = $1)`,
		uuid.UUID(id),
	).Scan(&exists)
	return exists, err
}

func scanOwner(row pgx.Row) (*domain.Owner, error) {
	var (
		id                   uuid.UUID
		name, address, photo string
		birthday             pgtype.Date
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &address, &photo, &birthday, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: owner %s has an empty name", domain.ErrCorruptData, id)
	}
	return domain.ReconstructOwner(
		domain.OwnerID(id),
		name, address, photo,
		dateFromColumn(birthday),
		createdAt, updatedAt,
	), nil
}

// Verify interface implementation.
var _ domain.OwnerRepository = (*OwnerRepository)(nil)
