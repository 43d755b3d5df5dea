package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"realestate/internal/common/metrics"
	"realestate/internal/listings/domain"
)

type DataStore struct {
	pool            *pgxpool.Pool
	ownerRepo       *OwnerRepository
	propertyRepo    *PropertyRepository
	imageRepo       *ImageRepository
	traceRepo       *TraceRepository
	reservationRepo *ReservationRepository
}

// NewDataStore creates a new DataStore with the given connection pool.
func NewDataStore(pool *pgxpool.Pool) *DataStore {
	return &DataStore{
		pool:            pool,
		ownerRepo:       NewOwnerRepository(pool),
		propertyRepo:    NewPropertyRepository(pool),
		imageRepo:       NewImageRepository(pool),
		traceRepo:       NewTraceRepository(pool),
		reservationRepo: NewReservationRepository(pool),
	}
}

// Owners returns the owner repository.
func (ds *DataStore) Owners() domain.OwnerRepository {
	return ds.ownerRepo
}

// Properties returns the property repository.
func (ds *DataStore) Properties() domain.PropertyRepository {
	return ds.propertyRepo
}

// Images returns the property image repository.
func (ds *DataStore) Images() domain.ImageRepository {
	return ds.imageRepo
}

// Traces returns the price audit repository.
func (ds *DataStore) Traces() domain.TraceRepository {
	return ds.traceRepo
}

// Reservations returns the reservation repository.
func (ds *DataStore) Reservations() domain.ReservationRepository {
	return ds.reservationRepo
}

// withTx creates a new DataStore with transactional repositories.
// This is the key to the Atomic pattern - we create new repository instances
// that share the same transaction.
func (ds *DataStore) withTx(tx pgx.Tx) *DataStore {
	return &DataStore{
		pool:            ds.pool,
		ownerRepo:       NewOwnerRepository(tx),
		propertyRepo:    NewPropertyRepository(tx),
		imageRepo:       NewImageRepository(tx),
		traceRepo:       NewTraceRepository(tx),
		reservationRepo: NewReservationRepository(tx),
	}
}

// Atomic executes the callback within a database transaction.
// If the callback returns nil, the transaction is committed.
// If the callback returns an error or panics, the transaction is rolled back.
//
// - The service is responsible for requesting an atomic operation with procedures defined in the callback
// - All concerns like commits and rollbacks are handled by the repository
func (ds *DataStore) Atomic(ctx context.Context, fn domain.AtomicCallback) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordTransactionDuration("atomic", time.Since(start))
	}()

	tx, err := ds.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Use defer to handle both errors and panics
	defer func() {
		if p := recover(); p != nil {
			// Rollback on panic
			_ = tx.Rollback(ctx)
			panic(p) // Re-throw the panic
		}
		if err != nil {
			// Rollback on error
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = fmt.Errorf("tx error: %v, rollback error: %v", err, rbErr)
			}
		} else {
			// Commit on success
			err = tx.Commit(ctx)
			if err != nil {
				err = fmt.Errorf("commit transaction: %w", err)
			}
		}
	}()

	// Create transactional DataStore and execute callback
	txDataStore := ds.withTx(tx)
	err = fn(txDataStore)
	return
}

// Verify interface implementations.
var (
	_ domain.AtomicExecutor = (*DataStore)(nil)
	_ domain.Repositories   = (*DataStore)(nil)
)
