package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"realestate/internal/common/logging"
	"realestate/internal/common/metrics"
	"realestate/internal/listings/domain"
)

// ListingsService implements the application layer for the Listings context.
// It uses the Atomic pattern from Qonto for transaction management.
//
// Key design decisions:
//   - All state-changing operations use the Atomic callback pattern
//   - Input shape validation happens before any store access
//   - Store checks (owner existence, code uniqueness, date conflicts) run
//     inside the same transaction as the write they guard
//
// See: https://medium.com/qonto-way/transactions-in-go-hexagonal-architecture-f12c7a817a61
type ListingsService struct {
	dataStore domain.AtomicExecutor
	repos     domain.Repositories
}

// NewListingsService creates a new ListingsService.
// The dataStore must implement both AtomicExecutor and Repositories interfaces.
func NewListingsService(dataStore interface {
	domain.AtomicExecutor
	domain.Repositories
}) *ListingsService {
	return &ListingsService{
		dataStore: dataStore,
		repos:     dataStore,
	}
}

// CreateOwnerRequest represents a request to register an owner.
type CreateOwnerRequest struct {
	Name     string
	Address  string
	Photo    string
	Birthday time.Time
}

// CreateOwner registers a new property owner.
func (s *ListingsService) CreateOwner(ctx context.Context, req CreateOwnerRequest) (*OwnerResponse, error) {
	now := time.Now().UTC()
	if violations := validateOwnerInput(req.Name, req.Address, req.Birthday, now); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	var result *OwnerResponse

	err := s.dataStore.Atomic(ctx, func(repos domain.Repositories) error {
		owner, err := domain.NewOwner(req.Name, req.Address, req.Photo, req.Birthday, now)
		if err != nil {
			return err
		}

		if err := repos.Owners().Save(ctx, owner); err != nil {
			return err
		}

		result = ownerResponse(owner)

		logging.InfoContext(ctx, "Owner created",
			"owner_id", owner.ID().String(),
		)

		return nil
	})

	return result, err
}

// GetOwner retrieves an owner by ID.
// This is a read-only operation and doesn't use the Atomic pattern.
func (s *ListingsService) GetOwner(ctx context.Context, id domain.OwnerID) (*OwnerResponse, error) {
	owner, err := s.repos.Owners().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ownerResponse(owner), nil
}

// ListOwners retrieves all owners ordered by name.
func (s *ListingsService) ListOwners(ctx context.Context) ([]*OwnerResponse, error) {
	owners, err := s.repos.Owners().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*OwnerResponse, 0, len(owners))
	for _, o := range owners {
		result = append(result, ownerResponse(o))
	}
	return result, nil
}

// CreatePropertyRequest represents a request to create a property listing.
type CreatePropertyRequest struct {
	Name         string
	Address      string
	Price        decimal.Decimal
	CodeInternal string
	Year         int
	OwnerID      domain.OwnerID
}

// CreateProperty creates a new property listing.
// This operation:
//   - Validates the payload shape and returns every violation at once
//   - Verifies the owner exists (ErrOwnerNotFound)
//   - Verifies the internal code is unused (ErrDuplicateCode)
//   - All within a single atomic transaction
func (s *ListingsService) CreateProperty(ctx context.Context, req CreatePropertyRequest) (*PropertyResponse, error) {
	now := time.Now().UTC()
	if violations := validatePropertyInput(req.Name, req.Address, req.Price, req.CodeInternal, req.Year, req.OwnerID, now); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	var result *PropertyResponse

	err := s.dataStore.Atomic(ctx, func(repos domain.Repositories) error {
		owner, err := repos.Owners().FindByID(ctx, req.OwnerID)
		if err != nil {
			return err
		}

		taken, err := repos.Properties().CodeInternalExists(ctx, req.CodeInternal, domain.PropertyID{})
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateCode
		}

		property, err := domain.NewProperty(req.Name, req.Address, req.Price, req.CodeInternal, req.Year, req.OwnerID, now)
		if err != nil {
			return err
		}

		if err := repos.Properties().Save(ctx, property); err != nil {
			return err
		}

		result = propertyResponse(property)
		result.OwnerName = owner.Name()

		logging.InfoContext(ctx, "Property created",
			"property_id", property.ID().String(),
			"owner_id", req.OwnerID.String(),
			"code_internal", req.CodeInternal,
		)

		return nil
	})

	return result, err
}

// UpdatePropertyRequest represents a request to update a property listing.
// Price is deliberately absent: price moves only through ChangePropertyPrice
// so the audit trail stays complete.
type UpdatePropertyRequest struct {
	PropertyID   domain.PropertyID
	Name         string
	Address      string
	CodeInternal string
	Year         int
	OwnerID      domain.OwnerID
}

// UpdateProperty replaces the mutable attributes of an existing listing.
// Shape validation happens before any store access, so an invalid payload is
// reported as such even when the target does not exist. Price is not part of
// the payload and no price rule applies; a listing priced at zero stays
// updatable. The code-uniqueness check excludes the property itself.
func (s *ListingsService) UpdateProperty(ctx context.Context, req UpdatePropertyRequest) (*PropertyResponse, error) {
	now := time.Now().UTC()
	if violations := validatePropertyUpdateInput(req.Name, req.Address, req.CodeInternal, req.Year, req.OwnerID, now); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	var result *PropertyResponse

	err := s.dataStore.Atomic(ctx, func(repos domain.Repositories) error {
		property, err := repos.Properties().FindByID(ctx, req.PropertyID)
		if err != nil {
			return err
		}

		owner, err := repos.Owners().FindByID(ctx, req.OwnerID)
		if err != nil {
			return err
		}

		taken, err := repos.Properties().CodeInternalExists(ctx, req.CodeInternal, req.PropertyID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateCode
		}

		property.ApplyUpdate(req.Name, req.Address, req.CodeInternal, req.Year, req.OwnerID, now)

		if err := repos.Properties().Save(ctx, property); err != nil {
			return err
		}

		result = propertyResponse(property)
		result.OwnerName = owner.Name()

		logging.InfoContext(ctx, "Property updated",
			"property_id", property.ID().String(),
		)

		return nil
	})

	return result, err
}

// ChangePropertyPriceRequest represents a request to change a listing price.
type ChangePropertyPriceRequest struct {
	PropertyID domain.PropertyID
	NewPrice   decimal.Decimal
}

// ChangePropertyPrice changes the price of a property and records the audit
// trace, both in one transaction. Exactly one trace is written per successful
// change; a rejected change writes nothing.
func (s *ListingsService) ChangePropertyPrice(ctx context.Context, req ChangePropertyPriceRequest) (*PropertyResponse, error) {
	now := time.Now().UTC()

	var result *PropertyResponse

	err := s.dataStore.Atomic(ctx, func(repos domain.Repositories) error {
		property, err := repos.Properties().FindByID(ctx, req.PropertyID)
		if err != nil {
			return err
		}

		oldPrice := property.Price()
		trace, err := property.ChangePrice(req.NewPrice, now)
		if err != nil {
			return err
		}

		if err := repos.Properties().Save(ctx, property); err != nil {
			return err
		}
		if err := repos.Traces().Add(ctx, trace); err != nil {
			return err
		}

		result, err = s.propertyDetail(ctx, repos, property)
		if err != nil {
			return err
		}

		logging.InfoContext(ctx, "Property price changed",
			"property_id", property.ID().String(),
			"old_price", oldPrice.String(),
			"new_price", req.NewPrice.String(),
		)

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PropertyPriceChanges.Inc()
	return result, nil
}

// GetProperty retrieves a property with its owner name, enabled images, and
// price-change history.
func (s *ListingsService) GetProperty(ctx context.Context, id domain.PropertyID) (*PropertyResponse, error) {
	property, err := s.repos.Properties().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.propertyDetail(ctx, s.repos, property)
}

// propertyDetail builds the full projection of a property.
func (s *ListingsService) propertyDetail(ctx context.Context, repos domain.Repositories, property *domain.Property) (*PropertyResponse, error) {
	owner, err := repos.Owners().FindByID(ctx, property.OwnerID())
	if err != nil {
		return nil, err
	}
	images, err := repos.Images().FindEnabledByProperty(ctx, property.ID())
	if err != nil {
		return nil, err
	}
	traces, err := repos.Traces().FindByProperty(ctx, property.ID())
	if err != nil {
		return nil, err
	}

	resp := propertyResponse(property)
	resp.OwnerName = owner.Name()
	for _, img := range images {
		resp.Images = append(resp.Images, imageResponse(img))
	}
	for _, tr := range traces {
		resp.Traces = append(resp.Traces, traceResponse(tr))
	}
	return resp, nil
}

// Listing page bounds.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListProperties returns one page of properties matching the filter, newest
// first. An empty page is a success, not an error.
func (s *ListingsService) ListProperties(ctx context.Context, filter domain.PropertyFilter) (*Page[*PropertyResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	properties, totalCount, err := s.repos.Properties().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ownerNames := make(map[domain.OwnerID]string)
	items := make([]*PropertyResponse, 0, len(properties))
	for _, p := range properties {
		name, ok := ownerNames[p.OwnerID()]
		if !ok {
			owner, err := s.repos.Owners().FindByID(ctx, p.OwnerID())
			if err != nil {
				return nil, err
			}
			name = owner.Name()
			ownerNames[p.OwnerID()] = name
		}
		resp := propertyResponse(p)
		resp.OwnerName = name
		items = append(items, resp)
	}

	return &Page[*PropertyResponse]{
		Items:      items,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, filter.PageSize),
	}, nil
}

// AddPropertyImageRequest represents a request to attach an image.
type AddPropertyImageRequest struct {
	PropertyID domain.PropertyID
	File       string
	Enabled    bool
}

// AddPropertyImage attaches an image record to an existing property.
func (s *ListingsService) AddPropertyImage(ctx context.Context, req AddPropertyImageRequest) (*ImageResponse, error) {
	now := time.Now().UTC()
	if violations := validateImageInput(req.File); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	var result *ImageResponse

	err := s.dataStore.Atomic(ctx, func(repos domain.Repositories) error {
		exists, err := repos.Properties().Exists(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrPropertyNotFound
		}

		image, err := domain.NewPropertyImage(req.PropertyID, req.File, req.Enabled, now)
		if err != nil {
			return err
		}

		if err := repos.Images().Add(ctx, image); err != nil {
			return err
		}

		imgResp := imageResponse(image)
		result = &imgResp

		logging.InfoContext(ctx, "Property image added",
			"property_id", req.PropertyID.String(),
			"image_id", image.ID.String(),
		)

		return nil
	})

	return result, err
}
