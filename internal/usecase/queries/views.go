package queries

import (
	"context"
	"time"

	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

// RentalView is a rental as presented to clients, with names resolved.
type RentalView struct {
	ID                  int64
	Number              string
	EmployeeID          int64
	EmployeeDisplay     string
	Purpose             string
	ProjectCode         *string
	Status              string
	StartDate           time.Time
	EndDate             time.Time
	ActualStart         *time.Time
	ActualEnd           *time.Time
	TotalCost           decimal.Decimal
	ApprovedBy          *int64
	ApprovedByDisplay   string
	ApprovalDate        *time.Time
	CheckoutCondition   *string
	ReturnCondition     *string
	Notes               string
	LossAmount          *decimal.Decimal
	LossReason          *string
	LossCalculatedAt    *time.Time
	HasDeficit          bool
	DeficitQuantity     int
	InvoiceableQuantity int
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Items               []LineItemView
}

type LineItemView struct {
	ID                  int64
	ToolID              int64
	ToolName            string
	InstanceID          *int64
	SerialNumber        string
	LocationCode        string
	PreferredInstanceID *int64
	AssignmentMode      string
	Quantity            int
	DailyCost           decimal.Decimal
	TotalCost           decimal.Decimal
	CheckoutNotes       string
	State               string
	IsAllocated         bool
	IsDeficit           bool
	IsInvoiceable       bool
	History             []rental.Event
}

// catalog holds what a presenter needs besides the rentals themselves.
type catalog struct {
	tools     map[int64]*inventory.Tool
	instances map[int64]*inventory.Instance
	employees map[int64]employee.Employee
}

// loadCatalog fetches the tools and bound instances referenced by rs.
func loadCatalog(ctx context.Context, tx shared.Tx, dir shared.EmployeeDirectory, rs ...*rental.Rental) (catalog, error) {
	toolIDs := map[int64]struct{}{}
	instanceIDs := map[int64]struct{}{}
	for _, r := range rs {
		for _, item := range r.Items {
			toolIDs[item.ToolID] = struct{}{}
			if item.InstanceID != nil {
				instanceIDs[*item.InstanceID] = struct{}{}
			}
		}
	}

	c := catalog{employees: dir.Index(ctx)}
	var err error
	if c.tools, err = tx.Inventory().ToolsByIDs(ctx, keys(toolIDs)); err != nil {
		return c, err
	}
	if c.instances, err = tx.Inventory().InstancesByIDs(ctx, keys(instanceIDs)); err != nil {
		return c, err
	}
	return c, nil
}

func keys(m map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func (c catalog) display(id int64) string {
	if e, ok := c.employees[id]; ok && e.DisplayName != "" {
		return e.DisplayName
	}
	return employee.FallbackDisplay(id)
}

func (c catalog) present(r *rental.Rental) *RentalView {
	v := &RentalView{
		ID:                  r.ID,
		Number:              r.Number,
		EmployeeID:          r.EmployeeID,
		EmployeeDisplay:     c.display(r.EmployeeID),
		Purpose:             r.Purpose,
		ProjectCode:         r.ProjectCode,
		Status:              string(r.Status),
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
		ActualStart:         r.ActualStart,
		ActualEnd:           r.ActualEnd,
		TotalCost:           r.TotalCost,
		ApprovedBy:          r.ApprovedBy,
		ApprovalDate:        r.ApprovalDate,
		CheckoutCondition:   r.CheckoutCondition,
		ReturnCondition:     r.ReturnCondition,
		Notes:               r.Notes,
		HasDeficit:          r.HasDeficit(),
		DeficitQuantity:     r.DeficitQuantity(),
		InvoiceableQuantity: r.InvoiceableQuantity(),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		Items:               make([]LineItemView, 0, len(r.Items)),
	}
	if r.ApprovedBy != nil {
		v.ApprovedByDisplay = c.display(*r.ApprovedBy)
	}
	if r.Loss != nil {
		amount, reason, at := r.Loss.Amount, r.Loss.Reason, r.Loss.CalculatedAt
		v.LossAmount, v.LossReason, v.LossCalculatedAt = &amount, &reason, &at
	}

	for _, item := range r.Items {
		iv := LineItemView{
			ID:                  item.ID,
			ToolID:              item.ToolID,
			InstanceID:          item.InstanceID,
			PreferredInstanceID: item.PreferredInstanceID,
			AssignmentMode:      string(item.AssignmentMode),
			Quantity:            item.Quantity,
			DailyCost:           item.DailyCost,
			TotalCost:           item.TotalCost,
			CheckoutNotes:       item.CheckoutNotes,
			State:               string(item.State()),
			IsAllocated:         item.IsBound(),
			IsDeficit:           item.Deficit,
			IsInvoiceable:       item.IsInvoiceable(),
			History:             item.Lifecycle.History,
		}
		if t, ok := c.tools[item.ToolID]; ok {
			iv.ToolName = t.Name
		}
		if item.InstanceID != nil {
			if inst, ok := c.instances[*item.InstanceID]; ok {
				iv.SerialNumber = inst.SerialNumber
				iv.LocationCode = inst.LocationCode
			}
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

func (c catalog) exportRow(r *rental.Rental) shared.ExportRow {
	row := shared.ExportRow{
		RentalNumber:    r.Number,
		Status:          string(r.Status),
		Employee:        c.display(r.EmployeeID),
		Purpose:         r.Purpose,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		DeficitQuantity: r.DeficitQuantity(),
		TotalCost:       r.TotalCost,
		CreatedAt:       r.CreatedAt,
	}
	if r.ProjectCode != nil {
		row.ProjectCode = *r.ProjectCode
	}
	if r.ApprovedBy != nil {
		row.ApprovedBy = c.display(*r.ApprovedBy)
	}
	for _, item := range r.Items {
		if item.Quantity > 0 {
			row.ItemCount += item.Quantity
		}
	}
	return row
}
