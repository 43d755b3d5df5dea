package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyTrace is an immutable audit record of a property price or value
// change. Traces are produced by Property.ChangePrice and are append-only:
// once persisted they are never updated or deleted (short of the property
// itself being deleted, which cascades).
type PropertyTrace struct {
	ID         TraceID
	PropertyID PropertyID
	DateSale   time.Time
	Name       string
	Value      decimal.Decimal
	Tax        decimal.Decimal
	CreatedAt  time.Time
}
