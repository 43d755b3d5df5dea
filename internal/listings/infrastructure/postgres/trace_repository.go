package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"realestate/internal/listings/domain"
)

// TraceRepository persists the append-only price audit trail using PostgreSQL.
type TraceRepository struct {
	db Executor
}

// NewTraceRepository binds the repository to a database handle (pool or tx).
func NewTraceRepository(db Executor) *TraceRepository {
	return &TraceRepository{db: db}
}

// Add appends a trace record. There is no update path; the trail is
// append-only.
func (r *TraceRepository) Add(ctx context.Context, trace *domain.PropertyTrace) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO property_traces (id, property_id, date_sale, name, value, tax, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(trace.ID),
		uuid.UUID(trace.PropertyID),
		trace.DateSale,
		trace.Name,
		decimalToNumeric(trace.Value),
		decimalToNumeric(trace.Tax),
		trace.CreatedAt,
	)
	return err
}

// FindByProperty retrieves a property's traces ordered by sale date.
func (r *TraceRepository) FindByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.PropertyTrace, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, property_id, date_sale, name, value, tax, created_at
		FROM property_traces
		WHERE property_id = $1
		ORDER BY date_sale, id`,
		uuid.UUID(propertyID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var traces []*domain.PropertyTrace
	for rows.Next() {
		var trace domain.PropertyTrace
		var id, propID uuid.UUID
		var value, tax pgtype.Numeric
		if err := rows.Scan(&id, &propID, &trace.DateSale, &trace.Name, &value, &tax, &trace.CreatedAt); err != nil {
			return nil, err
		}
		trace.ID = domain.TraceID(id)
		trace.PropertyID = domain.PropertyID(propID)
		if trace.Value, err = numericToDecimal(value); err != nil {
			return nil, fmt.Errorf("%w: invalid value: %v", domain.ErrCorruptData, err)
		}
		if trace.Tax, err = numericToDecimal(tax); err != nil {
			return nil, fmt.Errorf("%w: invalid tax: %v", domain.ErrCorruptData, err)
		}
		traces = append(traces, &trace)
	}
	return traces, rows.Err()
}

// Verify interface implementation.
var _ domain.TraceRepository = (*TraceRepository)(nil)
