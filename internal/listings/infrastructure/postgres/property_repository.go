package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"realestate/internal/listings/domain"
)

// PropertyRepository persists Property aggregates using PostgreSQL.
type PropertyRepository struct {
	db Executor
}

// NewPropertyRepository binds the repository to a database handle (pool or tx).
func NewPropertyRepository(db Executor) *PropertyRepository {
	return &PropertyRepository{db: db}
}

const propertyColumns = `id, name, address, price, code_internal, year, owner_id, created_at, updated_at`

// Save persists a Property aggregate as an upsert keyed by ID.
// Errors: returns domain.ErrDuplicateCode when the internal code collides
// with another stored property (unique constraint).
func (r *PropertyRepository) Save(ctx context.Context, property *domain.Property) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO properties (id, name, address, price, code_internal, year, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			price = EXCLUDED.price,
			code_internal = EXCLUDED.code_internal,
			year = EXCLUDED.year,
			owner_id = EXCLUDED.owner_id,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(property.ID()),
		property.Name(),
		property.Address(),
		decimalToNumeric(property.Price()),
		property.CodeInternal(),
		property.Year(),
		uuid.UUID(property.OwnerID()),
		property.CreatedAt(),
		property.UpdatedAt(),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrDuplicateCode
	}
	return err
}

// FindByID retrieves a Property by ID.
// Errors: returns domain.ErrPropertyNotFound when missing.
func (r *PropertyRepository) FindByID(ctx context.Context, id domain.PropertyID) (*domain.Property, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`,
		uuid.UUID(id),
	)
	property, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPropertyNotFound
	}
	return property, err
}

// List returns one page of properties matching the filter, newest first,
// plus the total match count before pagination. All filters are conjunctive.
func (r *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int, error) {
	var conds []string
	var args []any

	appendCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Name != "" {
		appendCond("name ILIKE $%d", "%"+filter.Name+"%")
	}
	if filter.Address != "" {
		appendCond("address ILIKE $%d", "%"+filter.Address+"%")
	}
	if filter.MinPrice != nil {
		appendCond("price >= $%d", decimalToNumeric(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		appendCond("price <= $%d", decimalToNumeric(*filter.MaxPrice))
	}
	if filter.Year != nil {
		appendCond("year = $%d", *filter.Year)
	}
	if filter.OwnerID != nil {
		appendCond("owner_id = $%d", uuid.UUID(*filter.OwnerID))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM properties`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArgs := append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	rows, err := r.db.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties`+where+
			fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		limitArgs...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	properties := make([]*domain.Property, 0, filter.PageSize)
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		properties = append(properties, property)
	}
	return properties, total, rows.Err()
}

// Exists reports whether a property with the given ID exists.
func (r *PropertyRepository) Exists(ctx context.Context, id domain.PropertyID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1)`,
		uuid.UUID(id),
	).Scan(&exists)
	return exists, err
}

// CodeInternalExists reports whether any property other than excludeID uses
// the given internal code.
func (r *PropertyRepository) CodeInternalExists(ctx context.Context, codeInternal string, excludeID domain.PropertyID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM properties WHERE code_internal = $1 AND id <> $2)`,
		codeInternal,
		uuid.UUID(excludeID),
	).Scan(&exists)
	return exists, err
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var (
		id, ownerID          uuid.UUID
		name, address, code  string
		price                pgtype.Numeric
		year                 int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &address, &price, &code, &year, &ownerID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	priceDec, err := numericToDecimal(price)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price: %v", domain.ErrCorruptData, err)
	}
	return domain.ReconstructProperty(
		domain.PropertyID(id),
		name, address,
		priceDec,
		code, year,
		domain.OwnerID(ownerID),
		createdAt, updatedAt,
	), nil
}

// Verify interface implementation.
var _ domain.PropertyRepository = (*PropertyRepository)(nil)
