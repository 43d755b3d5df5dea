package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"realestate/internal/listings/domain"
)

// Input length limits, matching the persistence schema column sizes.
const (
	maxNameLength    = 200
	maxAddressLength = 500
	maxCodeLength    = 50
	maxFileLength    = 1000
	minYear          = 1800
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validateOwnerInput collects every violation in the owner payload.
func validateOwnerInput(name, address string, birthday, now time.Time) []string {
	var violations []string
	if isBlank(name) {
		violations = append(violations, "Name is required")
	} else if len(name) > maxNameLength {
		violations = append(violations, fmt.Sprintf("Name must not exceed %d characters", maxNameLength))
	}
	if len(address) > maxAddressLength {
		violations = append(violations, fmt.Sprintf("Address must not exceed %d characters", maxAddressLength))
	}
	if !birthday.IsZero() && birthday.After(now) {
		violations = append(violations, "Birthday must be in the past")
	}
	return violations
}

// validatePropertyInput collects every violation in the property payload.
// Owner existence and code uniqueness are store checks, handled separately.
func validatePropertyInput(name, address string, price decimal.Decimal, codeInternal string, year int, ownerID domain.OwnerID, now time.Time) []string {
	var violations []string
	if isBlank(name) {
		violations = append(violations, "Name is required")
	} else if len(name) > maxNameLength {
		violations = append(violations, fmt.Sprintf("Name must not exceed %d characters", maxNameLength))
	}
	if isBlank(address) {
		violations = append(violations, "Address is required")
	} else if len(address) > maxAddressLength {
		violations = append(violations, fmt.Sprintf("Address must not exceed %d characters", maxAddressLength))
	}
	if !price.IsPositive() {
		violations = append(violations, "Price must be greater than zero")
	}
	if isBlank(codeInternal) {
		violations = append(violations, "Internal code is required")
	} else if len(codeInternal) > maxCodeLength {
		violations = append(violations, fmt.Sprintf("Internal code must not exceed %d characters", maxCodeLength))
	}
	if maxYear := now.Year() + 10; year < minYear || year > maxYear {
		violations = append(violations, fmt.Sprintf("Year must be between %d and %d", minYear, maxYear))
	}
	if ownerID.IsZero() {
		violations = append(violations, "Owner is required")
	}
	return violations
}

// validatePropertyUpdateInput collects every violation in an update payload.
// Price is absent from updates (it moves only through the price-change
// operation), so no price rule applies here.
func validatePropertyUpdateInput(name, address, codeInternal string, year int, ownerID domain.OwnerID, now time.Time) []string {
	var violations []string
	if isBlank(name) {
		violations = append(violations, "Name is required")
	} else if len(name) > maxNameLength {
		violations = append(violations, fmt.Sprintf("Name must not exceed %d characters", maxNameLength))
	}
	if isBlank(address) {
		violations = append(violations, "Address is required")
	} else if len(address) > maxAddressLength {
		violations = append(violations, fmt.Sprintf("Address must not exceed %d characters", maxAddressLength))
	}
	if isBlank(codeInternal) {
		violations = append(violations, "Internal code is required")
	} else if len(codeInternal) > maxCodeLength {
		violations = append(violations, fmt.Sprintf("Internal code must not exceed %d characters", maxCodeLength))
	}
	if maxYear := now.Year() + 10; year < minYear || year > maxYear {
		violations = append(violations, fmt.Sprintf("Year must be between %d and %d", minYear, maxYear))
	}
	if ownerID.IsZero() {
		violations = append(violations, "Owner is required")
	}
	return violations
}

// validateImageInput collects every violation in the image payload.
func validateImageInput(file string) []string {
	var violations []string
	if isBlank(file) {
		violations = append(violations, "File path is required")
	} else if len(file) > maxFileLength {
		violations = append(violations, fmt.Sprintf("File path must not exceed %d characters", maxFileLength))
	}
	return violations
}

// validateReservationInput checks the reservation payload in a fixed order
// and stops at the first violation.
func validateReservationInput(guestName, guestEmail string, checkIn, checkOut time.Time, guests int, today time.Time) error {
	if isBlank(guestName) {
		return domain.NewValidationError("Guest name is required")
	}
	if isBlank(guestEmail) {
		return domain.NewValidationError("Guest email is required")
	}
	if !checkIn.Before(checkOut) {
		return domain.NewValidationError("Check-out must be after check-in")
	}
	if checkIn.Before(today) {
		return domain.NewValidationError("Check-in cannot be in the past")
	}
	if guests < 1 {
		return domain.NewValidationError("At least 1 guest is required")
	}
	return nil
}
