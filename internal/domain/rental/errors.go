package rental

import "tool-rental/internal/pkg/errs"

var (
	ErrRentalNotFound = errs.Mark(errs.New("rental not found"), errs.ErrNotFound)
	ErrOfferNotFound  = errs.Mark(errs.New("offer not found"), errs.ErrNotFound)
	ErrLineNotFound   = errs.Mark(errs.New("rental line item not found"), errs.ErrNotFound)

	ErrInvalidCreateStatus   = errs.Mark(errs.New("status must be Offer or Reserved"), errs.ErrValidation)
	ErrToolNotFound          = errs.Mark(errs.New("tool not found"), errs.ErrValidation)
	ErrInvalidAssignmentMode = errs.Mark(errs.New("assignment mode must be auto or manual"), errs.ErrValidation)
	ErrMissingReason         = errs.Mark(errs.New("a reason is required to reject a rental"), errs.ErrValidation)
	ErrInvalidDecision       = errs.Mark(errs.New("decision must be approve or reject"), errs.ErrValidation)
	ErrInvalidShortageAction = errs.Mark(errs.New("shortage action must be replacement, procure or exclude"), errs.ErrValidation)
	ErrNoItems               = errs.Mark(errs.New("at least one item is required"), errs.ErrValidation)
	ErrInvalidPickedQuantity = errs.Mark(errs.New("picked quantity must be greater than zero"), errs.ErrValidation)
	ErrBoundLineQuantity     = errs.Mark(errs.New("an assigned line item is picked exactly one unit at a time"), errs.ErrValidation)
	ErrTooManyInstanceIDs    = errs.Mark(errs.New("more instance ids than picked quantity"), errs.ErrValidation)
	ErrInvalidReceiveQty     = errs.Mark(errs.New("returned plus not returned quantity must be greater than zero"), errs.ErrValidation)
	ErrInvalidInstance       = errs.Mark(errs.New("invalid tool instance selected"), errs.ErrValidation)

	ErrNoRemainingQuantity      = errs.Mark(errs.New("line item has no remaining quantity"), errs.ErrInvalidState)
	ErrQuantityExceedsRemaining = errs.Mark(errs.New("quantity exceeds remaining quantity"), errs.ErrInvalidState)
	ErrDuplicateInstance        = errs.Mark(errs.New("instance selected more than once"), errs.ErrInvalidState)
	ErrInstanceUnavailable      = errs.Mark(errs.New("tool instance is not available"), errs.ErrInvalidState)

	ErrNotPendingDecision = errs.Mark(errs.New("only reserved rentals can be approved or rejected"), errs.ErrInvalidState)
	ErrNotPickable        = errs.Mark(errs.New("items can only be marked on reserved, active or overdue rentals"), errs.ErrInvalidState)
	ErrNotReceivable      = errs.Mark(errs.New("items can only be received on active or overdue rentals"), errs.ErrInvalidState)
	ErrNotExtendable      = errs.Mark(errs.New("only active rentals can be extended"), errs.ErrInvalidState)
	ErrNotCancellable     = errs.Mark(errs.New("only offer or reserved rentals can be cancelled"), errs.ErrInvalidState)
	ErrNotReturnable      = errs.Mark(errs.New("only active or overdue rentals can be returned"), errs.ErrInvalidState)
	ErrNotActivatable     = errs.Mark(errs.New("only reserved rentals can be activated"), errs.ErrInvalidState)
	ErrTerminal           = errs.Mark(errs.New("rental is already closed"), errs.ErrInvalidState)

	ErrScheduleConflict     = errs.Mark(errs.New("instance is booked by an overlapping rental"), errs.ErrScheduleConflict)
	ErrCertificationExpired = errs.Mark(errs.New("instance certification expires before the end date"), errs.ErrCertificationExpired)
)
