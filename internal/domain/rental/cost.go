package rental

import (
	"tool-rental/internal/domain/inventory"

	"github.com/shopspring/decimal"
)

// LossFloorRatio is the minimum share of replacement value charged for a lost item.
var LossFloorRatio = decimal.RequireFromString("0.65")

// Days is the number of billable days of the rental, at least 1.
func (r *Rental) Days() int {
	return inventory.BillableDays(r.StartDate, r.EndDate)
}

// Recalculate derives every line total and the rental total from the daily
// cost snapshot, the billable days and the line quantity.
func (r *Rental) Recalculate() {
	days := decimal.NewFromInt(int64(r.Days()))
	total := decimal.Zero
	for _, item := range r.Items {
		item.TotalCost = item.DailyCost.Mul(days).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.TotalCost)
	}
	r.TotalCost = total
}

// AssessLoss computes the loss of all lines:
// max(0.65 x value, value - income) where value is the tool's replacement value.
func (r *Rental) AssessLoss(tools map[int64]*inventory.Tool) decimal.Decimal {
	days := decimal.NewFromInt(int64(r.Days()))
	total := decimal.Zero
	for _, item := range r.Items {
		value := decimal.Zero
		if tool, ok := tools[item.ToolID]; ok && tool != nil {
			value = tool.ReplacementValue()
		}
		income := item.TotalCost
		if income.IsZero() {
			income = item.DailyCost.Mul(days).Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		loss := decimal.Max(value.Mul(LossFloorRatio), value.Sub(income))
		if loss.IsNegative() {
			loss = decimal.Zero
		}
		total = total.Add(loss)
	}
	return total.Round(2)
}
