package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PropertyFilter narrows and paginates property listings. All supplied
// filters apply conjunctively; nil pointer fields are ignored.
type PropertyFilter struct {
	Name     string // case-insensitive substring
	Address  string // case-insensitive substring
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Year     *int
	OwnerID  *OwnerID
	Page     int // 1-based
	PageSize int
}

// OwnerRepository defines the interface for owner persistence.
type OwnerRepository interface {
	// Save persists an owner aggregate (insert or update).
	Save(ctx context.Context, owner *Owner) error
	// FindByID retrieves an owner by ID.
	// Returns ErrOwnerNotFound when no record exists.
	FindByID(ctx context.Context, id OwnerID) (*Owner, error)
	// FindAll retrieves all owners ordered by name.
	FindAll(ctx context.Context) ([]*Owner, error)
	// Exists reports whether an owner with the given ID exists.
	Exists(ctx context.Context, id OwnerID) (bool, error)
}

// PropertyRepository defines the interface for property persistence.
type PropertyRepository interface {
	// Save persists a property aggregate (insert or update).
	// Implementations may return ErrDuplicateCode when the internal code
	// collides with another stored property.
	Save(ctx context.Context, property *Property) error
	// FindByID retrieves a property by ID.
	// Returns ErrPropertyNotFound when no record exists.
	FindByID(ctx context.Context, id PropertyID) (*Property, error)
	// List returns one page of properties matching the filter, ordered by
	// creation time descending, plus the total match count before pagination.
	List(ctx context.Context, filter PropertyFilter) ([]*Property, int, error)
	// Exists reports whether a property with the given ID exists.
	Exists(ctx context.Context, id PropertyID) (bool, error)
	// CodeInternalExists reports whether any property other than excludeID
	// uses the given internal code. Pass the zero PropertyID to exclude none.
	CodeInternalExists(ctx context.Context, codeInternal string, excludeID PropertyID) (bool, error)
}

// ImageRepository defines the interface for property image persistence.
type ImageRepository interface {
	// Add persists a new image record.
	Add(ctx context.Context, image *PropertyImage) error
	// FindEnabledByProperty retrieves the enabled images of a property,
	// ordered by creation time.
	FindEnabledByProperty(ctx context.Context, propertyID PropertyID) ([]*PropertyImage, error)
}

// TraceRepository defines the interface for the append-only price audit trail.
type TraceRepository interface {
	// Add appends a trace record. Traces are never updated.
	Add(ctx context.Context, trace *PropertyTrace) error
	// FindByProperty retrieves a property's traces ordered by sale date.
	FindByProperty(ctx context.Context, propertyID PropertyID) ([]*PropertyTrace, error)
}

// ReservationRepository defines the interface for reservation persistence.
type ReservationRepository interface {
	// Save persists a reservation (insert or update).
	// Implementations backed by an exclusion constraint may return
	// ErrDateConflict when a concurrent overlapping booking won the race.
	Save(ctx context.Context, reservation *Reservation) error
	// FindByID retrieves a reservation by ID, cancelled ones included.
	// Returns ErrReservationNotFound when no record exists.
	FindByID(ctx context.Context, id ReservationID) (*Reservation, error)
	// FindActiveByProperty retrieves a property's non-cancelled reservations
	// ordered by check-in date.
	FindActiveByProperty(ctx context.Context, propertyID PropertyID) ([]*Reservation, error)
	// HasConflict reports whether any non-cancelled reservation of the
	// property overlaps [checkIn, checkOut) under the half-open rule.
	// excludeID, when non-zero, is left out of the check.
	HasConflict(ctx context.Context, propertyID PropertyID, checkIn, checkOut time.Time, excludeID ReservationID) (bool, error)
}

// Repositories provides access to all repositories within a transaction.
// This is used with the Atomic pattern to ensure all operations share the
// same transaction.
type Repositories interface {
	Owners() OwnerRepository
	Properties() PropertyRepository
	Images() ImageRepository
	Traces() TraceRepository
	Reservations() ReservationRepository
}

// AtomicCallback is the function signature for atomic operations.
// Any error returned will cause the transaction to be rolled back.
type AtomicCallback func(repos Repositories) error

// AtomicExecutor runs a set of repository operations as one unit of work.
// The service requests an atomic operation with the procedures defined in the
// callback; commit and rollback concerns are left to the implementation.
//
// Example usage:
//
//	err := executor.Atomic(ctx, func(repos Repositories) error {
//	    property, err := repos.Properties().FindByID(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    trace, err := property.ChangePrice(newPrice, time.Now().UTC())
//	    if err != nil {
//	        return err
//	    }
//	    if err := repos.Properties().Save(ctx, property); err != nil {
//	        return err
//	    }
//	    return repos.Traces().Add(ctx, trace)
//	})
type AtomicExecutor interface {
	// Atomic executes the callback within a database transaction.
	// If the callback returns nil, the transaction is committed.
	// If the callback returns an error, the transaction is rolled back.
	Atomic(ctx context.Context, fn AtomicCallback) error
}
