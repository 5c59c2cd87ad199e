//go:build unit || e2e

package builder

import (
	"strconv"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/usecase/queries"

	"github.com/shopspring/decimal"
)

type RentalBuilder struct {
	Number      string
	EmployeeID  int64
	Purpose     string
	ProjectCode *string
	Status      rental.Status
	StartDate   time.Time
	EndDate     time.Time
	Notes       string
	Lines       []rental.LineRequest
	Tools       map[int64]*inventory.Tool
	Actor       *int64
	Now         time.Time
}

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewTool(id int64, dailyCost string) *inventory.Tool {
	return &inventory.Tool{
		ID:              id,
		Name:            "Tool",
		SerialNumber:    "T-" + strconv.FormatInt(id, 10),
		Status:          inventory.ToolStatusAvailable,
		DailyRentalCost: decimal.RequireFromString(dailyCost),
	}
}

func NewRentalBuilder() *RentalBuilder {
	actor := int64(4711)
	return &RentalBuilder{
		Number:     "RNT-001",
		EmployeeID: 4711,
		Purpose:    "Site work",
		Status:     rental.StatusReserved,
		StartDate:  Date(2026, time.March, 2),
		EndDate:    Date(2026, time.March, 5),
		Lines: []rental.LineRequest{
			{ToolID: 1, Quantity: 2},
		},
		Tools: map[int64]*inventory.Tool{
			1: NewTool(1, "12.50"),
			2: NewTool(2, "40"),
		},
		Actor: &actor,
		Now:   time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *RentalBuilder) With(mutate func(*RentalBuilder)) *RentalBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *RentalBuilder) WithStatus(s rental.Status) *RentalBuilder {
	b.Status = s
	return b
}

func (b *RentalBuilder) WithDates(start, end time.Time) *RentalBuilder {
	b.StartDate, b.EndDate = start, end
	return b
}

func (b *RentalBuilder) WithLines(lines ...rental.LineRequest) *RentalBuilder {
	b.Lines = lines
	return b
}

func (b *RentalBuilder) Params() rental.CreateParams {
	return rental.CreateParams{
		Number:      b.Number,
		EmployeeID:  b.EmployeeID,
		Purpose:     b.Purpose,
		ProjectCode: b.ProjectCode,
		Status:      b.Status,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		Notes:       b.Notes,
		Lines:       b.Lines,
	}
}

// Build methods
func (b *RentalBuilder) BuildDomain() (*rental.Rental, error) {
	return rental.New(b.Params(), b.Tools, b.Actor, b.Now)
}

// BuildPersisted builds the rental and assigns ids the way the store would.
func (b *RentalBuilder) BuildPersisted(rentalID int64) (*rental.Rental, error) {
	r, err := b.BuildDomain()
	if err != nil {
		return nil, err
	}
	Persist(r, rentalID)
	return r, nil
}

// Persist assigns the rental id and sequential ids to lines that have none.
func Persist(r *rental.Rental, rentalID int64) {
	r.ID = rentalID
	next := int64(0)
	for _, item := range r.Items {
		if item.ID > next {
			next = item.ID
		}
	}
	for _, item := range r.Items {
		item.RentalID = rentalID
		if item.ID == 0 {
			next++
			item.ID = next
		}
	}
}

// BoundLine returns a reserved line bound to instanceID.
func BoundLine(id, toolID, instanceID int64, dailyCost string) *rental.LineItem {
	inst := instanceID
	item := &rental.LineItem{
		ID:             id,
		ToolID:         toolID,
		InstanceID:     &inst,
		AssignmentMode: rental.AssignAuto,
		Quantity:       1,
		DailyCost:      decimal.RequireFromString(dailyCost),
	}
	item.Mark(rental.LineReserved, time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC), nil, nil)
	return item
}

// UnboundLine returns an unassigned request line.
func UnboundLine(id, toolID int64, qty int, state rental.LineState, dailyCost string) *rental.LineItem {
	item := &rental.LineItem{
		ID:             id,
		ToolID:         toolID,
		AssignmentMode: rental.AssignAuto,
		Quantity:       qty,
		DailyCost:      decimal.RequireFromString(dailyCost),
	}
	item.Mark(state, time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC), nil, nil)
	return item
}

// NewInstance returns an available instance of toolID.
func NewInstance(id, toolID int64, serial string) *inventory.Instance {
	return &inventory.Instance{
		ID:           id,
		ToolID:       toolID,
		SerialNumber: serial,
		Status:       inventory.InstanceAvailable,
		Condition:    "Good",
	}
}

// BuildView returns the read model a handler would receive for this rental,
// with one allocated line per requested line.
func (b *RentalBuilder) BuildView(rentalID int64) *queries.RentalView {
	v := &queries.RentalView{
		ID:              rentalID,
		Number:          b.Number,
		EmployeeID:      b.EmployeeID,
		EmployeeDisplay: "JD - Jane Doe",
		Purpose:         b.Purpose,
		ProjectCode:     b.ProjectCode,
		Status:          string(b.Status),
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		TotalCost:       decimal.Zero,
		Notes:           b.Notes,
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	}
	for i, line := range b.Lines {
		cost := decimal.Zero
		if tool, ok := b.Tools[line.ToolID]; ok {
			cost = tool.DailyRentalCost
		}
		v.Items = append(v.Items, queries.LineItemView{
			ID:             int64(i + 1),
			ToolID:         line.ToolID,
			ToolName:       "Tool",
			AssignmentMode: string(rental.AssignAuto),
			Quantity:       line.Quantity,
			DailyCost:      cost,
			TotalCost:      cost.Mul(decimal.NewFromInt(int64(line.Quantity))),
			State:          string(rental.LineReserved),
			IsAllocated:    true,
		})
		v.TotalCost = v.TotalCost.Add(v.Items[i].TotalCost)
	}
	return v
}

// BuildCreateRequest returns the JSON body of a create request for this rental.
func (b *RentalBuilder) BuildCreateRequest() map[string]any {
	items := make([]map[string]any, 0, len(b.Lines))
	for _, line := range b.Lines {
		items = append(items, map[string]any{"toolID": line.ToolID, "quantity": line.Quantity})
	}
	return map[string]any{
		"purpose":     b.Purpose,
		"startDate":   b.StartDate.Format("2006-01-02"),
		"endDate":     b.EndDate.Format("2006-01-02"),
		"rentalItems": items,
	}
}
