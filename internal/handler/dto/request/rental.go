package request

import (
	"strings"
	"time"

	"tool-rental/internal/domain/rental"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/ptr"
	"tool-rental/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

var ErrInvalidDate = errs.Mark(errs.New("dates must use the YYYY-MM-DD format"), errs.ErrValidation)

type RentalItemRequest struct {
	ToolID         int64            `json:"toolID" binding:"required,gt=0"`
	ToolInstanceID *int64           `json:"toolInstanceID,omitempty" binding:"omitempty,gt=0"`
	Quantity       int              `json:"quantity" binding:"min=0"`
	DailyCost      *decimal.Decimal `json:"dailyCost,omitempty"`
	AssignmentMode string           `json:"assignmentMode,omitempty" binding:"omitempty,oneof=auto manual"`
}

type CreateRentalRequest struct {
	EmployeeID  *int64              `json:"employeeID,omitempty" binding:"omitempty,gt=0"`
	Purpose     string              `json:"purpose" binding:"required,max=500"`
	ProjectCode *string             `json:"projectCode,omitempty" binding:"omitempty,max=50"`
	StartDate   string              `json:"startDate" binding:"required"`
	EndDate     string              `json:"endDate" binding:"required"`
	Notes       string              `json:"notes,omitempty" binding:"max=2000"`
	Status      string              `json:"status,omitempty"`
	RentalItems []RentalItemRequest `json:"rentalItems" binding:"required,min=1,dive"`
}

func (r CreateRentalRequest) ToInput() (commands.CreateRentalInput, error) {
	start, end, err := parsePeriod(r.StartDate, r.EndDate)
	if err != nil {
		return commands.CreateRentalInput{}, err
	}
	return commands.CreateRentalInput{
		EmployeeID:  r.EmployeeID,
		Purpose:     strings.TrimSpace(r.Purpose),
		ProjectCode: trimmed(r.ProjectCode),
		Status:      r.Status,
		StartDate:   start,
		EndDate:     end,
		Notes:       strings.TrimSpace(r.Notes),
		Lines:       toLines(r.RentalItems),
	}, nil
}

type ShortageActionRequest struct {
	RentalItemID int64   `json:"rentalItemID" binding:"required,gt=0"`
	Action       string  `json:"action" binding:"required"`
	Owner        string  `json:"owner,omitempty"`
	DueDate      *string `json:"dueDate,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

type DecisionRequest struct {
	Decision        string                  `json:"decision" binding:"required"`
	Reason          string                  `json:"reason,omitempty" binding:"max=1000"`
	ShortageActions []ShortageActionRequest `json:"shortageActions,omitempty" binding:"dive"`
}

func (r DecisionRequest) ToInput() (commands.DecisionInput, error) {
	actions := make([]rental.ShortageAction, 0, len(r.ShortageActions))
	for _, a := range r.ShortageActions {
		action := rental.ShortageAction{
			LineID: a.RentalItemID,
			Action: rental.ShortageActionKind(strings.ToLower(strings.TrimSpace(a.Action))),
			Owner:  strings.TrimSpace(a.Owner),
			Notes:  strings.TrimSpace(a.Notes),
		}
		if a.DueDate != nil && *a.DueDate != "" {
			due, err := parseDate(*a.DueDate)
			if err != nil {
				return commands.DecisionInput{}, err
			}
			action.DueDate = clock.FormatDate(due)
		}
		actions = append(actions, action)
	}
	return commands.DecisionInput{
		Decision:        r.Decision,
		Reason:          r.Reason,
		ShortageActions: actions,
	}, nil
}

type CheckoutOfferRequest struct {
	Purpose     *string `json:"purpose,omitempty" binding:"omitempty,max=500"`
	ProjectCode *string `json:"projectCode,omitempty" binding:"omitempty,max=50"`
	StartDate   string  `json:"startDate" binding:"required"`
	EndDate     string  `json:"endDate" binding:"required"`
	Notes       *string `json:"notes,omitempty"`
}

func (r CheckoutOfferRequest) ToInput() (commands.CheckoutOfferInput, error) {
	start, end, err := parsePeriod(r.StartDate, r.EndDate)
	if err != nil {
		return commands.CheckoutOfferInput{}, err
	}
	return commands.CheckoutOfferInput{
		Purpose:     trimmed(r.Purpose),
		ProjectCode: trimmed(r.ProjectCode),
		StartDate:   start,
		EndDate:     end,
		Notes:       trimmed(r.Notes),
	}, nil
}

type MarkItemRequest struct {
	RentalItemID    int64   `json:"rentalItemID" binding:"required,gt=0"`
	PickedQuantity  *int    `json:"pickedQuantity,omitempty"`
	ToolInstanceIDs []int64 `json:"toolInstanceIDs,omitempty" binding:"dive,gt=0"`
	SerialInput     string  `json:"serialInput,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

type MarkItemsRequest struct {
	Items []MarkItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r MarkItemsRequest) ToMarks() []rental.PickMark {
	marks := make([]rental.PickMark, 0, len(r.Items))
	for _, item := range r.Items {
		marks = append(marks, rental.PickMark{
			LineID:         item.RentalItemID,
			PickedQuantity: ptr.Or(item.PickedQuantity, 1),
			InstanceIDs:    item.ToolInstanceIDs,
			Notes:          strings.TrimSpace(item.Notes),
			SerialInput:    strings.TrimSpace(item.SerialInput),
		})
	}
	return marks
}

type ReceiveItemRequest struct {
	RentalItemID        int64  `json:"rentalItemID" binding:"required,gt=0"`
	ReturnedQuantity    int    `json:"returnedQuantity" binding:"min=0"`
	NotReturnedQuantity int    `json:"notReturnedQuantity" binding:"min=0"`
	Condition           string `json:"condition,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

type ReceiveItemsRequest struct {
	Items []ReceiveItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r ReceiveItemsRequest) ToMarks() []rental.ReceiveMark {
	marks := make([]rental.ReceiveMark, 0, len(r.Items))
	for _, item := range r.Items {
		marks = append(marks, rental.ReceiveMark{
			LineID:      item.RentalItemID,
			Returned:    item.ReturnedQuantity,
			NotReturned: item.NotReturnedQuantity,
			Condition:   strings.TrimSpace(item.Condition),
			Notes:       strings.TrimSpace(item.Notes),
		})
	}
	return marks
}

type ExtendRequest struct {
	NewEndDate string `json:"newEndDate" binding:"required"`
}

func (r ExtendRequest) ToDate() (time.Time, error) {
	return parseDate(r.NewEndDate)
}

type ReturnRequest struct {
	Condition string `json:"condition" binding:"required,max=200"`
	Notes     string `json:"notes,omitempty" binding:"max=2000"`
}

func (r ReturnRequest) ToInput() commands.ReturnInput {
	return commands.ReturnInput{
		Condition: strings.TrimSpace(r.Condition),
		Notes:     strings.TrimSpace(r.Notes),
	}
}

type KioskLendRequest struct {
	EmployeeID  int64               `json:"employeeID" binding:"required,gt=0"`
	PinCode     string              `json:"pinCode" binding:"required"`
	Purpose     string              `json:"purpose" binding:"required,max=500"`
	ProjectCode *string             `json:"projectCode,omitempty" binding:"omitempty,max=50"`
	StartDate   string              `json:"startDate" binding:"required"`
	EndDate     string              `json:"endDate" binding:"required"`
	RentalItems []RentalItemRequest `json:"rentalItems" binding:"required,min=1,dive"`
}

func (r KioskLendRequest) ToInput() (commands.KioskLendInput, error) {
	start, end, err := parsePeriod(r.StartDate, r.EndDate)
	if err != nil {
		return commands.KioskLendInput{}, err
	}
	return commands.KioskLendInput{
		EmployeeID:  r.EmployeeID,
		PIN:         r.PinCode,
		Purpose:     strings.TrimSpace(r.Purpose),
		ProjectCode: trimmed(r.ProjectCode),
		StartDate:   start,
		EndDate:     end,
		Lines:       toLines(r.RentalItems),
	}, nil
}

func toLines(items []RentalItemRequest) []rental.LineRequest {
	lines := make([]rental.LineRequest, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		lines = append(lines, rental.LineRequest{
			ToolID:         item.ToolID,
			Quantity:       qty,
			InstanceID:     item.ToolInstanceID,
			AssignmentMode: item.AssignmentMode,
			DailyCost:      item.DailyCost,
		})
	}
	return lines
}

func parseDate(s string) (time.Time, error) {
	d, err := clock.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errs.Wrapf(ErrInvalidDate, "%q", s)
	}
	return d, nil
}

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	s, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
