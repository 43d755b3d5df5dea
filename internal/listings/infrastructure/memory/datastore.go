package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"realestate/internal/listings/domain"
)

// DataStore implements domain.AtomicExecutor and domain.Repositories in
// memory. It backs unit tests, feature tests, and the dev-mode server.
// Concurrency: all access is guarded by a mutex.
type DataStore struct {
	mu           sync.RWMutex
	owners       map[domain.OwnerID]*domain.Owner
	properties   map[domain.PropertyID]*domain.Property
	images       map[domain.ImageID]*domain.PropertyImage
	traces       map[domain.TraceID]*domain.PropertyTrace
	reservations map[domain.ReservationID]*domain.Reservation

	ownerRepo       *OwnerRepository
	propertyRepo    *PropertyRepository
	imageRepo       *ImageRepository
	traceRepo       *TraceRepository
	reservationRepo *ReservationRepository
}

// NewDataStore creates a new in-memory DataStore.
func NewDataStore() *DataStore {
	ds := &DataStore{
		owners:       make(map[domain.OwnerID]*domain.Owner),
		properties:   make(map[domain.PropertyID]*domain.Property),
		images:       make(map[domain.ImageID]*domain.PropertyImage),
		traces:       make(map[domain.TraceID]*domain.PropertyTrace),
		reservations: make(map[domain.ReservationID]*domain.Reservation),
	}

	ds.ownerRepo = &OwnerRepository{store: ds}
	ds.propertyRepo = &PropertyRepository{store: ds}
	ds.imageRepo = &ImageRepository{store: ds}
	ds.traceRepo = &TraceRepository{store: ds}
	ds.reservationRepo = &ReservationRepository{store: ds}

	return ds
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

// Atomic executes the callback atomically.
// It locks the store, runs the callback against a transactional snapshot,
// and commits staged changes only if the callback succeeds. Holding the
// store lock for the whole callback also serializes concurrent bookings,
// which is what the Postgres exclusion constraint does for the real store.
func (ds *DataStore) Atomic(ctx context.Context, fn domain.AtomicCallback) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	tx := &transactionalDataStore{
		parent:             ds,
		stagedOwners:       make(map[domain.OwnerID]*domain.Owner),
		stagedProperties:   make(map[domain.PropertyID]*domain.Property),
		stagedImages:       make(map[domain.ImageID]*domain.PropertyImage),
		stagedTraces:       make(map[domain.TraceID]*domain.PropertyTrace),
		stagedReservations: make(map[domain.ReservationID]*domain.Reservation),
	}

	if err := fn(tx); err != nil {
		return err
	}

	// Commit: apply staged changes
	for k, v := range tx.stagedOwners {
		ds.owners[k] = v
	}
	for k, v := range tx.stagedProperties {
		ds.properties[k] = v
	}
	for k, v := range tx.stagedImages {
		ds.images[k] = v
	}
	for k, v := range tx.stagedTraces {
		ds.traces[k] = v
	}
	for k, v := range tx.stagedReservations {
		ds.reservations[k] = v
	}

	return nil
}

// transactionalDataStore provides transaction isolation for memory operations.
type transactionalDataStore struct {
	parent             *DataStore
	stagedOwners       map[domain.OwnerID]*domain.Owner
	stagedProperties   map[domain.PropertyID]*domain.Property
	stagedImages       map[domain.ImageID]*domain.PropertyImage
	stagedTraces       map[domain.TraceID]*domain.PropertyTrace
	stagedReservations map[domain.ReservationID]*domain.Reservation
}

func (tx *transactionalDataStore) Owners() domain.OwnerRepository {
	return &txOwnerRepository{tx: tx}
}

func (tx *transactionalDataStore) Properties() domain.PropertyRepository {
	return &txPropertyRepository{tx: tx}
}

func (tx *transactionalDataStore) Images() domain.ImageRepository {
	return &txImageRepository{tx: tx}
}

func (tx *transactionalDataStore) Traces() domain.TraceRepository {
	return &txTraceRepository{tx: tx}
}

func (tx *transactionalDataStore) Reservations() domain.ReservationRepository {
	return &txReservationRepository{tx: tx}
}

// Aggregate copies for transactional reads. Handing out the parent's
// pointers would let an in-place mutation (ApplyUpdate, ChangePrice, Cancel)
// survive a rollback; reads inside Atomic therefore get a copy, and only a
// Save stages that copy for commit. Images and traces are append-only and
// need no copying.

func cloneOwner(o *domain.Owner) *domain.Owner {
	return domain.ReconstructOwner(o.ID(), o.Name(), o.Address(), o.Photo(),
		o.Birthday(), o.CreatedAt(), o.UpdatedAt())
}

func cloneProperty(p *domain.Property) *domain.Property {
	return domain.ReconstructProperty(p.ID(), p.Name(), p.Address(), p.Price(),
		p.CodeInternal(), p.Year(), p.OwnerID(), p.CreatedAt(), p.UpdatedAt())
}

func cloneReservation(r *domain.Reservation) *domain.Reservation {
	return domain.ReconstructReservation(r.ID(), r.PropertyID(), r.GuestName(),
		r.GuestEmail(), r.CheckIn(), r.CheckOut(), r.Guests(), r.TotalPrice(),
		r.Status(), r.CreatedAt())
}

// Merged views: parent state overlaid with staged writes.

func (tx *transactionalDataStore) ownerView() map[domain.OwnerID]*domain.Owner {
	view := make(map[domain.OwnerID]*domain.Owner, len(tx.parent.owners)+len(tx.stagedOwners))
	for k, v := range tx.parent.owners {
		view[k] = cloneOwner(v)
	}
	for k, v := range tx.stagedOwners {
		view[k] = v
	}
	return view
}

func (tx *transactionalDataStore) propertyView() map[domain.PropertyID]*domain.Property {
	view := make(map[domain.PropertyID]*domain.Property, len(tx.parent.properties)+len(tx.stagedProperties))
	for k, v := range tx.parent.properties {
		view[k] = cloneProperty(v)
	}
	for k, v := range tx.stagedProperties {
		view[k] = v
	}
	return view
}

func (tx *transactionalDataStore) imageView() map[domain.ImageID]*domain.PropertyImage {
	view := make(map[domain.ImageID]*domain.PropertyImage, len(tx.parent.images)+len(tx.stagedImages))
	for k, v := range tx.parent.images {
		view[k] = v
	}
	for k, v := range tx.stagedImages {
		view[k] = v
	}
	return view
}

func (tx *transactionalDataStore) traceView() map[domain.TraceID]*domain.PropertyTrace {
	view := make(map[domain.TraceID]*domain.PropertyTrace, len(tx.parent.traces)+len(tx.stagedTraces))
	for k, v := range tx.parent.traces {
		view[k] = v
	}
	for k, v := range tx.stagedTraces {
		view[k] = v
	}
	return view
}

func (tx *transactionalDataStore) reservationView() map[domain.ReservationID]*domain.Reservation {
	view := make(map[domain.ReservationID]*domain.Reservation, len(tx.parent.reservations)+len(tx.stagedReservations))
	for k, v := range tx.parent.reservations {
		view[k] = cloneReservation(v)
	}
	for k, v := range tx.stagedReservations {
		view[k] = v
	}
	return view
}

// Shared query logic over a map view. Both the transactional and the direct
// repositories delegate here so filtering and ordering behave identically.

func sortedOwners(view map[domain.OwnerID]*domain.Owner) []*domain.Owner {
	owners := make([]*domain.Owner, 0, len(view))
	for _, o := range view {
		owners = append(owners, o)
	}
	sort.Slice(owners, func(i, j int) bool {
		if owners[i].Name() != owners[j].Name() {
			return owners[i].Name() < owners[j].Name()
		}
		return owners[i].ID().String() < owners[j].ID().String()
	})
	return owners
}

func matchesFilter(p *domain.Property, filter domain.PropertyFilter) bool {
	if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name()), strings.ToLower(filter.Name)) {
		return false
	}
	if filter.Address != "" && !strings.Contains(strings.ToLower(p.Address()), strings.ToLower(filter.Address)) {
		return false
	}
	if filter.MinPrice != nil && p.Price().LessThan(*filter.MinPrice) {
		return false
	}
	if filter.MaxPrice != nil && p.Price().GreaterThan(*filter.MaxPrice) {
		return false
	}
	if filter.Year != nil && p.Year() != *filter.Year {
		return false
	}
	if filter.OwnerID != nil && p.OwnerID() != *filter.OwnerID {
		return false
	}
	return true
}

func listProperties(view map[domain.PropertyID]*domain.Property, filter domain.PropertyFilter) ([]*domain.Property, int) {
	var matches []*domain.Property
	for _, p := range view {
		if matchesFilter(p, filter) {
			matches = append(matches, p)
		}
	}
	// Newest first; ties broken by ID for deterministic pages.
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt().Equal(matches[j].CreatedAt()) {
			return matches[i].CreatedAt().After(matches[j].CreatedAt())
		}
		return matches[i].ID().String() < matches[j].ID().String()
	})

	total := len(matches)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return []*domain.Property{}, total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matches[start:end], total
}

func codeInternalExists(view map[domain.PropertyID]*domain.Property, codeInternal string, excludeID domain.PropertyID) bool {
	for _, p := range view {
		if p.ID() != excludeID && p.CodeInternal() == codeInternal {
			return true
		}
	}
	return false
}

func enabledImages(view map[domain.ImageID]*domain.PropertyImage, propertyID domain.PropertyID) []*domain.PropertyImage {
	var images []*domain.PropertyImage
	for _, img := range view {
		if img.PropertyID == propertyID && img.Enabled {
			images = append(images, img)
		}
	}
	sort.Slice(images, func(i, j int) bool {
		if !images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].CreatedAt.Before(images[j].CreatedAt)
		}
		return images[i].ID.String() < images[j].ID.String()
	})
	return images
}

func propertyTraces(view map[domain.TraceID]*domain.PropertyTrace, propertyID domain.PropertyID) []*domain.PropertyTrace {
	var traces []*domain.PropertyTrace
	for _, tr := range view {
		if tr.PropertyID == propertyID {
			traces = append(traces, tr)
		}
	}
	sort.Slice(traces, func(i, j int) bool {
		if !traces[i].DateSale.Equal(traces[j].DateSale) {
			return traces[i].DateSale.Before(traces[j].DateSale)
		}
		return traces[i].ID.String() < traces[j].ID.String()
	})
	return traces
}

func activeReservations(view map[domain.ReservationID]*domain.Reservation, propertyID domain.PropertyID) []*domain.Reservation {
	var reservations []*domain.Reservation
	for _, r := range view {
		if r.PropertyID() == propertyID && r.IsActive() {
			reservations = append(reservations, r)
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		if !reservations[i].CheckIn().Equal(reservations[j].CheckIn()) {
			return reservations[i].CheckIn().Before(reservations[j].CheckIn())
		}
		return reservations[i].ID().String() < reservations[j].ID().String()
	})
	return reservations
}

func conflictExists(view map[domain.ReservationID]*domain.Reservation, propertyID domain.PropertyID, checkIn, checkOut time.Time, excludeID domain.ReservationID) bool {
	for _, r := range view {
		if r.ID() == excludeID || r.PropertyID() != propertyID || !r.IsActive() {
			continue
		}
		if r.Overlaps(checkIn, checkOut) {
			return true
		}
	}
	return false
}

// Transactional repository implementations

type txOwnerRepository struct {
	tx *transactionalDataStore
}

func (r *txOwnerRepository) Save(ctx context.Context, owner *domain.Owner) error {
	r.tx.stagedOwners[owner.ID()] = owner
	return nil
}

func (r *txOwnerRepository) FindByID(ctx context.Context, id domain.OwnerID) (*domain.Owner, error) {
	if owner, ok := r.tx.stagedOwners[id]; ok {
		return owner, nil
	}
	if owner, ok := r.tx.parent.owners[id]; ok {
		return cloneOwner(owner), nil
	}
	return nil, domain.ErrOwnerNotFound
}

func (r *txOwnerRepository) FindAll(ctx context.Context) ([]*domain.Owner, error) {
	return sortedOwners(r.tx.ownerView()), nil
}

func (r *txOwnerRepository) Exists(ctx context.Context, id domain.OwnerID) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if err == domain.ErrOwnerNotFound {
		return false, nil
	}
	return err == nil, err
}

type txPropertyRepository struct {
	tx *transactionalDataStore
}

func (r *txPropertyRepository) Save(ctx context.Context, property *domain.Property) error {
	r.tx.stagedProperties[property.ID()] = property
	return nil
}

func (r *txPropertyRepository) FindByID(ctx context.Context, id domain.PropertyID) (*domain.Property, error) {
	if property, ok := r.tx.stagedProperties[id]; ok {
		return property, nil
	}
	if property, ok := r.tx.parent.properties[id]; ok {
		return cloneProperty(property), nil
	}
	return nil, domain.ErrPropertyNotFound
}

func (r *txPropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int, error) {
	properties, total := listProperties(r.tx.propertyView(), filter)
	return properties, total, nil
}

func (r *txPropertyRepository) Exists(ctx context.Context, id domain.PropertyID) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if err == domain.ErrPropertyNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *txPropertyRepository) CodeInternalExists(ctx context.Context, codeInternal string, excludeID domain.PropertyID) (bool, error) {
	return codeInternalExists(r.tx.propertyView(), codeInternal, excludeID), nil
}

type txImageRepository struct {
	tx *transactionalDataStore
}

func (r *txImageRepository) Add(ctx context.Context, image *domain.PropertyImage) error {
	r.tx.stagedImages[image.ID] = image
	return nil
}

func (r *txImageRepository) FindEnabledByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.PropertyImage, error) {
	return enabledImages(r.tx.imageView(), propertyID), nil
}

type txTraceRepository struct {
	tx *transactionalDataStore
}

func (r *txTraceRepository) Add(ctx context.Context, trace *domain.PropertyTrace) error {
	r.tx.stagedTraces[trace.ID] = trace
	return nil
}

func (r *txTraceRepository) FindByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.PropertyTrace, error) {
	return propertyTraces(r.tx.traceView(), propertyID), nil
}

type txReservationRepository struct {
	tx *transactionalDataStore
}

func (r *txReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	r.tx.stagedReservations[reservation.ID()] = reservation
	return nil
}

func (r *txReservationRepository) FindByID(ctx context.Context, id domain.ReservationID) (*domain.Reservation, error) {
	if reservation, ok := r.tx.stagedReservations[id]; ok {
		return reservation, nil
	}
	if reservation, ok := r.tx.parent.reservations[id]; ok {
		return cloneReservation(reservation), nil
	}
	return nil, domain.ErrReservationNotFound
}

func (r *txReservationRepository) FindActiveByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.Reservation, error) {
	return activeReservations(r.tx.reservationView(), propertyID), nil
}

func (r *txReservationRepository) HasConflict(ctx context.Context, propertyID domain.PropertyID, checkIn, checkOut time.Time, excludeID domain.ReservationID) (bool, error) {
	return conflictExists(r.tx.reservationView(), propertyID, checkIn, checkOut, excludeID), nil
}

// Non-transactional repository implementations (for direct access)

// OwnerRepository provides non-transactional access to in-memory owners.
type OwnerRepository struct {
	store *DataStore
}

func (r *OwnerRepository) Save(ctx context.Context, owner *domain.Owner) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.owners[owner.ID()] = owner
	return nil
}

func (r *OwnerRepository) FindByID(ctx context.Context, id domain.OwnerID) (*domain.Owner, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if owner, ok := r.store.owners[id]; ok {
		return owner, nil
	}
	return nil, domain.ErrOwnerNotFound
}

func (r *OwnerRepository) FindAll(ctx context.Context) ([]*domain.Owner, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return sortedOwners(r.store.owners), nil
}

func (r *OwnerRepository) Exists(ctx context.Context, id domain.OwnerID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.owners[id]
	return ok, nil
}

// PropertyRepository provides non-transactional access to in-memory properties.
type PropertyRepository struct {
	store *DataStore
}

func (r *PropertyRepository) Save(ctx context.Context, property *domain.Property) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.properties[property.ID()] = property
	return nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id domain.PropertyID) (*domain.Property, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if property, ok := r.store.properties[id]; ok {
		return property, nil
	}
	return nil, domain.ErrPropertyNotFound
}

func (r *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	properties, total := listProperties(r.store.properties, filter)
	return properties, total, nil
}

func (r *PropertyRepository) Exists(ctx context.Context, id domain.PropertyID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.properties[id]
	return ok, nil
}

func (r *PropertyRepository) CodeInternalExists(ctx context.Context, codeInternal string, excludeID domain.PropertyID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return codeInternalExists(r.store.properties, codeInternal, excludeID), nil
}

// ImageRepository provides non-transactional access to in-memory images.
type ImageRepository struct {
	store *DataStore
}

func (r *ImageRepository) Add(ctx context.Context, image *domain.PropertyImage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.images[image.ID] = image
	return nil
}

func (r *ImageRepository) FindEnabledByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.PropertyImage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return enabledImages(r.store.images, propertyID), nil
}

// TraceRepository provides non-transactional access to in-memory traces.
type TraceRepository struct {
	store *DataStore
}

func (r *TraceRepository) Add(ctx context.Context, trace *domain.PropertyTrace) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.traces[trace.ID] = trace
	return nil
}

func (r *TraceRepository) FindByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.PropertyTrace, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return propertyTraces(r.store.traces, propertyID), nil
}

// ReservationRepository provides non-transactional access to in-memory reservations.
type ReservationRepository struct {
	store *DataStore
}

func (r *ReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.reservations[reservation.ID()] = reservation
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id domain.ReservationID) (*domain.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if reservation, ok := r.store.reservations[id]; ok {
		return reservation, nil
	}
	return nil, domain.ErrReservationNotFound
}

func (r *ReservationRepository) FindActiveByProperty(ctx context.Context, propertyID domain.PropertyID) ([]*domain.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return activeReservations(r.store.reservations, propertyID), nil
}

func (r *ReservationRepository) HasConflict(ctx context.Context, propertyID domain.PropertyID, checkIn, checkOut time.Time, excludeID domain.ReservationID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return conflictExists(r.store.reservations, propertyID, checkIn, checkOut, excludeID), nil
}

// Verify interface implementations
var (
	_ domain.AtomicExecutor = (*DataStore)(nil)
	_ domain.Repositories   = (*DataStore)(nil)
)
