package domain

import (
	"time"
)

// Owner represents a property owner.
type Owner struct {
	id        OwnerID
	name      string
	address   string
	photo     string // optional photo URL
	birthday  time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewOwner creates a new owner.
// The now parameter makes the function pure and testable.
func NewOwner(name, address, photo string, birthday, now time.Time) (*Owner, error) {
	if isBlank(name) {
		return nil, NewValidationError("Name is required")
	}
	return &Owner{
		id:        NewOwnerID(),
		name:      name,
		address:   address,
		photo:     photo,
		birthday:  birthday,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructOwner reconstructs an Owner from persisted state.
// It bypasses validation since the data is assumed valid from the database.
func ReconstructOwner(
	id OwnerID,
	name, address, photo string,
	birthday time.Time,
	createdAt, updatedAt time.Time,
) *Owner {
	return &Owner{
		id:        id,
		name:      name,
		address:   address,
		photo:     photo,
		birthday:  birthday,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Getters

func (o *Owner) ID() OwnerID          { return o.id }
func (o *Owner) Name() string         { return o.name }
func (o *Owner) Address() string      { return o.address }
func (o *Owner) Photo() string        { return o.photo }
func (o *Owner) Birthday() time.Time  { return o.birthday }
func (o *Owner) CreatedAt() time.Time { return o.createdAt }
func (o *Owner) UpdatedAt() time.Time { return o.updatedAt }
