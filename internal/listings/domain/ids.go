package domain

import "github.com/google/uuid"

// OwnerID uniquely identifies an owner.
type OwnerID uuid.UUID

// NewOwnerID generates a new OwnerID.
func NewOwnerID() OwnerID {
	return OwnerID(uuid.New())
}

// ParseOwnerID parses a string into an OwnerID.
func ParseOwnerID(s string) (OwnerID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return OwnerID{}, err
	}
	return OwnerID(id), nil
}

// String returns the string representation.
func (id OwnerID) String() string {
	return uuid.UUID(id).String()
}

// IsZero returns true if the ID is the zero value.
func (id OwnerID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// PropertyID uniquely identifies a property.
type PropertyID uuid.UUID

// NewPropertyID generates a new PropertyID.
func NewPropertyID() PropertyID {
	return PropertyID(uuid.New())
}

// ParsePropertyID parses a string into a PropertyID.
func ParsePropertyID(s string) (PropertyID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return PropertyID{}, err
	}
	return PropertyID(id), nil
}

// String returns the string representation.
func (id PropertyID) String() string {
	return uuid.UUID(id).String()
}

// IsZero returns true if the ID is the zero value.
func (id PropertyID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// ImageID uniquely identifies a property image.
type ImageID uuid.UUID

// NewImageID generates a new ImageID.
func NewImageID() ImageID {
	return ImageID(uuid.New())
}

// ParseImageID parses a string into an ImageID.
func ParseImageID(s string) (ImageID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ImageID{}, err
	}
	return ImageID(id), nil
}

// String returns the string representation.
func (id ImageID) String() string {
	return uuid.UUID(id).String()
}

// TraceID uniquely identifies a property trace.
type TraceID uuid.UUID

// NewTraceID generates a new TraceID.
func NewTraceID() TraceID {
	return TraceID(uuid.New())
}

// ParseTraceID parses a string into a TraceID.
func ParseTraceID(s string) (TraceID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TraceID{}, err
	}
	return TraceID(id), nil
}

// String returns the string representation.
func (id TraceID) String() string {
	return uuid.UUID(id).String()
}

// ReservationID uniquely identifies a reservation.
type ReservationID uuid.UUID

// NewReservationID generates a new ReservationID.
func NewReservationID() ReservationID {
	return ReservationID(uuid.New())
}

// ParseReservationID parses a string into a ReservationID.
func ParseReservationID(s string) (ReservationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ReservationID{}, err
	}
	return ReservationID(id), nil
}

// String returns the string representation.
func (id ReservationID) String() string {
	return uuid.UUID(id).String()
}

// IsZero returns true if the ID is the zero value.
func (id ReservationID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}
