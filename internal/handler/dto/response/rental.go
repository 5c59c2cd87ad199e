package response

import (
	"time"

	"tool-rental/internal/domain/rental"
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/queries"
)

type LineItemResponse struct {
	RentalItemID        int64          `json:"rentalItemID" copier:"ID"`
	ToolID              int64          `json:"toolID"`
	ToolName            string         `json:"toolName"`
	ToolInstanceID      *int64         `json:"toolInstanceID" copier:"InstanceID"`
	SerialNumber        string         `json:"serialNumber,omitempty"`
	LocationCode        string         `json:"locationCode,omitempty"`
	PreferredInstanceID *int64         `json:"preferredInstanceID,omitempty"`
	AssignmentMode      string         `json:"assignmentMode"`
	Quantity            int            `json:"quantity"`
	DailyCost           string         `json:"dailyCost"`
	TotalCost           string         `json:"totalCost"`
	CheckoutNotes       string         `json:"checkoutNotes,omitempty"`
	State               string         `json:"state"`
	IsAllocated         bool           `json:"isAllocated"`
	IsDeficit           bool           `json:"isDeficit"`
	IsInvoiceable       bool           `json:"isInvoiceable"`
	Lifecycle           []rental.Event `json:"lifecycle" copier:"History"`
}

type RentalResponse struct {
	RentalID            int64              `json:"rentalID" copier:"ID"`
	RentalNumber        string             `json:"rentalNumber" copier:"Number"`
	EmployeeID          int64              `json:"employeeID"`
	EmployeeDisplay     string             `json:"employeeDisplay"`
	Purpose             string             `json:"purpose"`
	ProjectCode         *string            `json:"projectCode"`
	Status              string             `json:"status"`
	StartDate           string             `json:"startDate"`
	EndDate             string             `json:"endDate"`
	ActualStart         *string            `json:"actualStart" copier:"-"`
	ActualEnd           *string            `json:"actualEnd" copier:"-"`
	TotalCost           string             `json:"totalCost"`
	ApprovedBy          *int64             `json:"approvedBy"`
	ApprovedByDisplay   string             `json:"approvedByDisplay,omitempty"`
	ApprovalDate        *time.Time         `json:"approvalDate"`
	CheckoutCondition   *string            `json:"checkoutCondition"`
	ReturnCondition     *string            `json:"returnCondition"`
	Notes               string             `json:"notes"`
	LossAmount          *string            `json:"lossAmount,omitempty" copier:"-"`
	LossReason          *string            `json:"lossReason,omitempty"`
	LossCalculatedAt    *time.Time         `json:"lossCalculatedAt,omitempty"`
	HasDeficit          bool               `json:"hasDeficit"`
	DeficitQuantity     int                `json:"deficitQuantity"`
	InvoiceableQuantity int                `json:"invoiceableQuantity"`
	CreatedDate         time.Time          `json:"createdDate" copier:"CreatedAt"`
	UpdatedDate         time.Time          `json:"updatedDate" copier:"UpdatedAt"`
	RentalItems         []LineItemResponse `json:"rentalItems" copier:"-"`
}

func FromRentalView(v *queries.RentalView) (*RentalResponse, error) {
	resp := &RentalResponse{}
	if err := copyInto(resp, v); err != nil {
		return nil, err
	}
	resp.ActualStart = datePtr(v.ActualStart)
	resp.ActualEnd = datePtr(v.ActualEnd)
	resp.LossAmount = moneyPtr(v.LossAmount)

	resp.RentalItems = make([]LineItemResponse, len(v.Items))
	for i := range v.Items {
		if err := copyInto(&resp.RentalItems[i], &v.Items[i]); err != nil {
			return nil, err
		}
		if resp.RentalItems[i].Lifecycle == nil {
			resp.RentalItems[i].Lifecycle = []rental.Event{}
		}
	}
	return resp, nil
}

type RentalListResponse struct {
	Rentals    []*RentalResponse `json:"rentals"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

func FromRentalViews(views []*queries.RentalView, next *queries.Cursor) (*RentalListResponse, error) {
	resp := &RentalListResponse{Rentals: make([]*RentalResponse, 0, len(views))}
	for _, v := range views {
		r, err := FromRentalView(v)
		if err != nil {
			return nil, err
		}
		resp.Rentals = append(resp.Rentals, r)
	}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp, nil
}

type DecisionResponse struct {
	*RentalResponse
	Decision      string `json:"decision"`
	ReservedCount int    `json:"reservedCount"`
	ShortageCount int    `json:"shortageCount"`
}

func NewDecisionResponse(v *queries.RentalView, res *commands.DecisionResult) (*DecisionResponse, error) {
	r, err := FromRentalView(v)
	if err != nil {
		return nil, err
	}
	return &DecisionResponse{
		RentalResponse: r,
		Decision:       res.Decision,
		ReservedCount:  res.ReservedCount,
		ShortageCount:  res.ShortageCount,
	}, nil
}

type ReceiveResponse struct {
	*RentalResponse
	Completed bool `json:"completed"`
}

type PickupItemResponse struct {
	RentalItemID   int64 `json:"rentalItemID" copier:"LineID"`
	ToolID         int64 `json:"toolID"`
	ToolInstanceID int64 `json:"toolInstanceID" copier:"InstanceID"`
	Quantity       int   `json:"quantity"`
}

type KioskLendResponse struct {
	*RentalResponse
	PickupItems      []PickupItemResponse `json:"pickupItems"`
	ShortageQuantity int                  `json:"shortageQuantity"`
}

func NewKioskLendResponse(v *queries.RentalView, res *commands.KioskLendResult) (*KioskLendResponse, error) {
	r, err := FromRentalView(v)
	if err != nil {
		return nil, err
	}
	items := make([]PickupItemResponse, 0, len(res.PickupItems))
	if err := copyInto(&items, res.PickupItems); err != nil {
		return nil, err
	}
	return &KioskLendResponse{
		RentalResponse:   r,
		PickupItems:      items,
		ShortageQuantity: res.ShortageQty,
	}, nil
}

type AvailabilityResponse struct {
	ToolID               int64   `json:"toolID"`
	StartDate            string  `json:"startDate"`
	EndDate              string  `json:"endDate"`
	RequestedQuantity    int     `json:"requestedQuantity"`
	AvailableCount       int     `json:"availableCount"`
	Deficit              int     `json:"deficit"`
	AvailableInstanceIDs []int64 `json:"availableInstanceIDs"`
}

func FromAvailabilityView(v *queries.AvailabilityView) (*AvailabilityResponse, error) {
	resp := &AvailabilityResponse{}
	if err := copyInto(resp, v); err != nil {
		return nil, err
	}
	return resp, nil
}

type ProjectResponse struct {
	ProjectCode string `json:"projectCode"`
	Display     string `json:"display"`
}

func FromProjectViews(views []queries.ProjectView) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ProjectResponse{ProjectCode: v.ProjectCode, Display: v.Display})
	}
	return out
}
