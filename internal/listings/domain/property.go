package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// taxRate is applied to the new price whenever a property price changes.
var taxRate = decimal.RequireFromString("0.05")

// nightsPerMonth is the fixed month length used by the prorated stay rate.
var nightsPerMonth = decimal.NewFromInt(30)

// Property represents a real-estate listing (aggregate root).
// Invariants:
//   - Price is never negative
//   - Every price change produces exactly one PropertyTrace
type Property struct {
	id           PropertyID
	name         string
	address      string
	price        decimal.Decimal
	codeInternal string
	year         int
	ownerID      OwnerID
	createdAt    time.Time
	updatedAt    time.Time
}

// NewProperty creates a new property listing.
// The now parameter makes the function pure and testable.
func NewProperty(
	name, address string,
	price decimal.Decimal,
	codeInternal string,
	year int,
	ownerID OwnerID,
	now time.Time,
) (*Property, error) {
	if price.IsNegative() {
		return nil, NewValidationError("price cannot be negative")
	}
	if ownerID.IsZero() {
		return nil, NewValidationError("Owner is required")
	}
	return &Property{
		id:           NewPropertyID(),
		name:         name,
		address:      address,
		price:        price,
		codeInternal: codeInternal,
		year:         year,
		ownerID:      ownerID,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructProperty reconstructs a Property from persisted state.
// It bypasses validation since the data is assumed valid from the database.
func ReconstructProperty(
	id PropertyID,
	name, address string,
	price decimal.Decimal,
	codeInternal string,
	year int,
	ownerID OwnerID,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:           id,
		name:         name,
		address:      address,
		price:        price,
		codeInternal: codeInternal,
		year:         year,
		ownerID:      ownerID,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ChangePrice updates the property price and returns the audit trace for the
// change. Exactly one trace is produced per successful call; no trace is
// produced on failure. The trace must be persisted alongside the property.
func (p *Property) ChangePrice(newPrice decimal.Decimal, now time.Time) (*PropertyTrace, error) {
	if newPrice.IsNegative() {
		return nil, NewValidationError("newPrice cannot be negative")
	}

	trace := &PropertyTrace{
		ID:         NewTraceID(),
		PropertyID: p.id,
		DateSale:   now,
		Name:       fmt.Sprintf("Price changed from %s to %s", formatPrice(p.price), formatPrice(newPrice)),
		Value:      newPrice,
		Tax:        newPrice.Mul(taxRate),
		CreatedAt:  now,
	}

	p.price = newPrice
	p.updatedAt = now
	return trace, nil
}

// ApplyUpdate replaces the mutable listing attributes. Price is changed only
// through ChangePrice so that the audit trail stays complete.
func (p *Property) ApplyUpdate(name, address, codeInternal string, year int, ownerID OwnerID, now time.Time) {
	p.name = name
	p.address = address
	p.codeInternal = codeInternal
	p.year = year
	p.ownerID = ownerID
	p.updatedAt = now
}

// QuoteStay computes the total price for a stay as a prorated monthly rate:
// price x nights / 30, where nights is the whole-day length of the half-open
// interval [checkIn, checkOut).
func (p *Property) QuoteStay(checkIn, checkOut time.Time) decimal.Decimal {
	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	return p.price.Mul(decimal.NewFromInt(nights)).Div(nightsPerMonth)
}

// Getters

func (p *Property) ID() PropertyID         { return p.id }
func (p *Property) Name() string           { return p.name }
func (p *Property) Address() string        { return p.address }
func (p *Property) Price() decimal.Decimal { return p.price }
func (p *Property) CodeInternal() string   { return p.codeInternal }
func (p *Property) Year() int              { return p.year }
func (p *Property) OwnerID() OwnerID       { return p.ownerID }
func (p *Property) CreatedAt() time.Time   { return p.createdAt }
func (p *Property) UpdatedAt() time.Time   { return p.updatedAt }

// formatPrice renders a price for human-readable trace descriptions,
// e.g. 2850000000 -> "$2,850,000,000.00".
func formatPrice(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
