package inventory

import (
	"github.com/shopspring/decimal"
)

const ToolStatusAvailable = "Available"

// Tool is a tool type: the catalog entry instances belong to.
type Tool struct {
	ID                    int64
	Name                  string
	SerialNumber          string
	Status                string
	DailyRentalCost       decimal.Decimal
	PurchaseCost          decimal.NullDecimal
	CurrentValue          decimal.NullDecimal
	RequiresCertification bool
}

// ReplacementValue is the current value, falling back to the purchase cost.
func (t *Tool) ReplacementValue() decimal.Decimal {
	if t.CurrentValue.Valid && !t.CurrentValue.Decimal.IsZero() {
		return t.CurrentValue.Decimal
	}
	if t.PurchaseCost.Valid {
		return t.PurchaseCost.Decimal
	}
	return decimal.Zero
}
