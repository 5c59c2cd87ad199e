package converter

import (
	"time"

	"tool-rental/internal/domain/rental"
	"tool-rental/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// RentalRow mirrors a rentals row.
type RentalRow struct {
	ID                int64
	Number            string
	EmployeeID        int64
	Purpose           string
	ProjectCode       pgtype.Text
	Status            string
	StartDate         pgtype.Date
	EndDate           pgtype.Date
	ActualStart       pgtype.Date
	ActualEnd         pgtype.Date
	TotalCost         pgtype.Numeric
	ApprovedBy        pgtype.Int8
	ApprovalDate      pgtype.Date
	CheckoutCondition pgtype.Text
	ReturnCondition   pgtype.Text
	Notes             string
	LossAmount        pgtype.Numeric
	LossReason        pgtype.Text
	LossCalculatedAt  pgtype.Timestamptz
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Targets returns scan destinations in RentalColumns order.
func (r *RentalRow) Targets() []any {
	return []any{
		&r.ID, &r.Number, &r.EmployeeID, &r.Purpose, &r.ProjectCode, &r.Status,
		&r.StartDate, &r.EndDate, &r.ActualStart, &r.ActualEnd, &r.TotalCost,
		&r.ApprovedBy, &r.ApprovalDate, &r.CheckoutCondition, &r.ReturnCondition,
		&r.Notes, &r.LossAmount, &r.LossReason, &r.LossCalculatedAt,
		&r.CreatedAt, &r.UpdatedAt,
	}
}

const RentalColumns = `r.id, r.rental_number, r.employee_id, r.purpose, r.project_code, r.status,
	r.start_date, r.end_date, r.actual_start, r.actual_end, r.total_cost,
	r.approved_by, r.approval_date, r.checkout_condition, r.return_condition,
	r.notes, r.loss_amount, r.loss_reason, r.loss_calculated_at,
	r.created_at, r.updated_at`

func RentalToDomain(row RentalRow) (*rental.Rental, error) {
	total, err := pgconv.DecimalFromNumeric(row.TotalCost)
	if err != nil {
		return nil, err
	}
	out := &rental.Rental{
		ID:                row.ID,
		Number:            row.Number,
		EmployeeID:        row.EmployeeID,
		Purpose:           row.Purpose,
		ProjectCode:       pgconv.StringPtrFromPgtype(row.ProjectCode),
		Status:            rental.NormalizeStatus(row.Status),
		StartDate:         pgconv.DateFromPgtype(row.StartDate),
		EndDate:           pgconv.DateFromPgtype(row.EndDate),
		ActualStart:       pgconv.DatePtrFromPgtype(row.ActualStart),
		ActualEnd:         pgconv.DatePtrFromPgtype(row.ActualEnd),
		TotalCost:         total,
		ApprovedBy:        pgconv.Int64PtrFromPgtype(row.ApprovedBy),
		ApprovalDate:      pgconv.DatePtrFromPgtype(row.ApprovalDate),
		CheckoutCondition: pgconv.StringPtrFromPgtype(row.CheckoutCondition),
		ReturnCondition:   pgconv.StringPtrFromPgtype(row.ReturnCondition),
		Notes:             row.Notes,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.LossAmount.Valid {
		amount, err := pgconv.DecimalFromNumeric(row.LossAmount)
		if err != nil {
			return nil, err
		}
		out.Loss = &rental.Loss{
			Amount:       amount,
			Reason:       pgconv.StringFromPgtype(row.LossReason),
			CalculatedAt: row.LossCalculatedAt.Time,
		}
	}
	return out, nil
}

// RentalArgs returns the mutable header columns in RentalWriteColumns order.
func RentalArgs(r *rental.Rental) []any {
	var (
		lossAmount pgtype.Numeric
		lossReason pgtype.Text
		lossAt     pgtype.Timestamptz
	)
	if r.Loss != nil {
		lossAmount = pgconv.NumericFromDecimal(r.Loss.Amount)
		lossReason = pgtype.Text{String: r.Loss.Reason, Valid: true}
		lossAt = pgtype.Timestamptz{Time: r.Loss.CalculatedAt, Valid: true}
	}
	return []any{
		r.Number,
		r.EmployeeID,
		r.Purpose,
		pgconv.StringPtrToPgtype(r.ProjectCode),
		string(r.Status),
		pgconv.DateToPgtype(r.StartDate),
		pgconv.DateToPgtype(r.EndDate),
		pgconv.DatePtrToPgtype(r.ActualStart),
		pgconv.DatePtrToPgtype(r.ActualEnd),
		pgconv.NumericFromDecimal(r.TotalCost),
		pgconv.Int64PtrToPgtype(r.ApprovedBy),
		pgconv.DatePtrToPgtype(r.ApprovalDate),
		pgconv.StringPtrToPgtype(r.CheckoutCondition),
		pgconv.StringPtrToPgtype(r.ReturnCondition),
		r.Notes,
		lossAmount,
		lossReason,
		lossAt,
		r.UpdatedAt,
	}
}

// ItemRow mirrors a rental_items row.
type ItemRow struct {
	ID                  int64
	RentalID            int64
	ToolID              int64
	InstanceID          pgtype.Int8
	PreferredInstanceID pgtype.Int8
	AssignmentMode      string
	Quantity            int32
	DailyCost           pgtype.Numeric
	TotalCost           pgtype.Numeric
	CheckoutNotes       string
	Deficit             bool
	Lifecycle           []byte
}

func (r *ItemRow) Targets() []any {
	return []any{
		&r.ID, &r.RentalID, &r.ToolID, &r.InstanceID, &r.PreferredInstanceID,
		&r.AssignmentMode, &r.Quantity, &r.DailyCost, &r.TotalCost,
		&r.CheckoutNotes, &r.Deficit, &r.Lifecycle,
	}
}

const ItemColumns = `ri.id, ri.rental_id, ri.tool_id, ri.tool_instance_id, ri.preferred_instance_id,
	ri.assignment_mode, ri.quantity, ri.daily_cost, ri.total_cost,
	ri.checkout_notes, ri.is_deficit, ri.lifecycle`

func ItemToDomain(row ItemRow) (*rental.LineItem, error) {
	daily, err := pgconv.DecimalFromNumeric(row.DailyCost)
	if err != nil {
		return nil, err
	}
	total, err := pgconv.DecimalFromNumeric(row.TotalCost)
	if err != nil {
		return nil, err
	}
	mode := rental.AssignmentMode(row.AssignmentMode)
	if !mode.IsValid() {
		mode = rental.AssignAuto
	}
	return &rental.LineItem{
		ID:                  row.ID,
		RentalID:            row.RentalID,
		ToolID:              row.ToolID,
		InstanceID:          pgconv.Int64PtrFromPgtype(row.InstanceID),
		PreferredInstanceID: pgconv.Int64PtrFromPgtype(row.PreferredInstanceID),
		AssignmentMode:      mode,
		Quantity:            int(row.Quantity),
		DailyCost:           daily,
		TotalCost:           total,
		CheckoutNotes:       row.CheckoutNotes,
		Deficit:             row.Deficit,
		Lifecycle:           rental.ParseLifecycle(row.Lifecycle),
	}, nil
}

// ItemArgs returns the item columns in ItemWriteColumns order.
func ItemArgs(rentalID int64, item *rental.LineItem) ([]any, error) {
	lifecycle, err := item.Lifecycle.Marshal()
	if err != nil {
		return nil, err
	}
	return []any{
		rentalID,
		item.ToolID,
		pgconv.Int64PtrToPgtype(item.InstanceID),
		pgconv.Int64PtrToPgtype(item.PreferredInstanceID),
		string(item.AssignmentMode),
		int32(item.Quantity),
		pgconv.NumericFromDecimal(item.DailyCost),
		pgconv.NumericFromDecimal(item.TotalCost),
		item.CheckoutNotes,
		item.Deficit,
		lifecycle,
	}, nil
}
