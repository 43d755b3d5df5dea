package types

import "github.com/google/uuid"

// CorrelationID tracks a request across service boundaries.
type CorrelationID string

// NewCorrelationID generates a new unique CorrelationID.
func NewCorrelationID() CorrelationID {
	return CorrelationID(uuid.NewString())
}

// String returns the string representation of CorrelationID.
func (c CorrelationID) String() string {
	return string(c)
}

// IsEmpty checks if the CorrelationID is empty.
func (c CorrelationID) IsEmpty() bool {
	return c == ""
}
