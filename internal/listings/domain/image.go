package domain

import "time"

// PropertyImage is a file reference attached to a property. Only enabled
// images are surfaced on read paths.
type PropertyImage struct {
	ID         ImageID
	PropertyID PropertyID
	File       string
	Enabled    bool
	CreatedAt  time.Time
}

// NewPropertyImage creates an image record bound to a property.
// The now parameter makes the function pure and testable.
func NewPropertyImage(propertyID PropertyID, file string, enabled bool, now time.Time) (*PropertyImage, error) {
	if isBlank(file) {
		return nil, NewValidationError("File path is required")
	}
	return &PropertyImage{
		ID:         NewImageID(),
		PropertyID: propertyID,
		File:       file,
		Enabled:    enabled,
		CreatedAt:  now,
	}, nil
}
