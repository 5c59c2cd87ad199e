package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/metrics"
	"tool-rental/internal/pkg/password"
	"tool-rental/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

var (
	ErrEmployeeNotFound = errs.Mark(errs.New("employee not found in directory"), errs.ErrValidation)
	ErrForeignEmployee  = errs.Mark(errs.New("only rental managers can create rentals for other employees"), errs.ErrForbidden)
	ErrInvalidPIN       = errs.Mark(errs.New("invalid credentials"), errs.ErrUnauthorized)
	ErrPINTooShort      = errs.Mark(password.ErrTooShort, errs.ErrValidation)
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type CreateRentalInput struct {
	// EmployeeID defaults to the actor.
	EmployeeID  *int64
	Purpose     string
	ProjectCode *string
	Status      string
	StartDate   time.Time
	EndDate     time.Time
	Notes       string
	Lines       []rental.LineRequest
}

type DecisionInput struct {
	Decision        string
	Reason          string
	ShortageActions []rental.ShortageAction
}

type CheckoutOfferInput struct {
	Purpose     *string
	ProjectCode *string
	StartDate   time.Time
	EndDate     time.Time
	Notes       *string
}

type ReturnInput struct {
	Condition string
	Notes     string
}

type KioskLendInput struct {
	EmployeeID  int64
	PIN         string
	Purpose     string
	ProjectCode *string
	StartDate   time.Time
	EndDate     time.Time
	Lines       []rental.LineRequest
}

type RentalResult struct {
	RentalID int64
	Number   string
	Status   rental.Status
}

type DecisionResult struct {
	RentalResult
	Decision      string
	ReservedCount int
	ShortageCount int
}

type ReceiveResult struct {
	RentalResult
	Completed bool
}

type LossResult struct {
	RentalResult
	Amount decimal.Decimal
}

type PickupItem struct {
	LineID     int64
	ToolID     int64
	InstanceID int64
	Quantity   int
}

type KioskLendResult struct {
	RentalResult
	EmployeeID  int64
	PickupItems []PickupItem
	ShortageQty int
}

type RentalCommands interface {
	Create(ctx context.Context, in CreateRentalInput, actor auth.Principal) (*RentalResult, error)
	Decide(ctx context.Context, rentalID int64, in DecisionInput, actor auth.Principal) (*DecisionResult, error)
	CheckoutOffer(ctx context.Context, offerNumber string, in CheckoutOfferInput, actor auth.Principal) (*RentalResult, error)
	MarkItems(ctx context.Context, rentalID int64, marks []rental.PickMark, actor auth.Principal) (*RentalResult, error)
	ReceiveItems(ctx context.Context, rentalID int64, marks []rental.ReceiveMark, actor auth.Principal) (*ReceiveResult, error)
	Extend(ctx context.Context, rentalID int64, newEnd time.Time, actor auth.Principal) (*RentalResult, error)
	ForceExtend(ctx context.Context, rentalID int64, newEnd time.Time, actor auth.Principal) (*RentalResult, error)
	Cancel(ctx context.Context, rentalID int64, actor auth.Principal) (*RentalResult, error)
	Return(ctx context.Context, rentalID int64, in ReturnInput, actor auth.Principal) (*RentalResult, error)
	ForceReturn(ctx context.Context, rentalID int64, in ReturnInput, actor auth.Principal) (*RentalResult, error)
	MarkLost(ctx context.Context, rentalID int64, actor auth.Principal) (*LossResult, error)
	KioskLend(ctx context.Context, in KioskLendInput) (*KioskLendResult, error)
	// PromoteOverdue moves every active rental past its end date to Overdue.
	PromoteOverdue(ctx context.Context) (int64, error)
}

type rentalCommandsImpl struct {
	uow        shared.UnitOfWork
	directory  shared.EmployeeDirectory
	clock      clock.Clock
	logger     *slog.Logger
	cfg        config.RentalConfig
	defaultPIN string
}

func NewRentalCommands(
	uow shared.UnitOfWork,
	directory shared.EmployeeDirectory,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.RentalConfig,
	authCfg config.AuthConfig,
) RentalCommands {
	return &rentalCommandsImpl{
		uow:        uow,
		directory:  directory,
		clock:      clk,
		logger:     logger,
		cfg:        cfg,
		defaultPIN: authCfg.DefaultPIN,
	}
}

func resultOf(r *rental.Rental) RentalResult {
	return RentalResult{RentalID: r.ID, Number: r.Number, Status: r.Status}
}

func (uc *rentalCommandsImpl) Create(ctx context.Context, in CreateRentalInput, actor auth.Principal) (*RentalResult, error) {
	employeeID := actor.EmployeeID
	if in.EmployeeID != nil && *in.EmployeeID != actor.EmployeeID {
		if !actor.Can(user.RightManageRentals) {
			return nil, ErrForeignEmployee
		}
		employeeID = *in.EmployeeID
	}
	if !(actor.IsLocalAdmin && employeeID == actor.EmployeeID) {
		if _, err := requireEmployee(ctx, uc.directory, employeeID); err != nil {
			return nil, err
		}
	}
	if len(in.Lines) == 0 {
		return nil, rental.ErrNoItems
	}
	status, err := rental.ResolveCreateStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var created *rental.Rental
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		r, err := uc.create(ctx, tx, rental.CreateParams{
			EmployeeID:  employeeID,
			Purpose:     in.Purpose,
			ProjectCode: in.ProjectCode,
			Status:      status,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Notes:       in.Notes,
			Lines:       in.Lines,
		}, actorID(actor), now)
		if err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncRentalCreated(string(created.Status))
	uc.logger.Info("rental created", "rental_id", created.ID, "number", created.Number, "status", created.Status)
	res := resultOf(created)
	return &res, nil
}

// create numbers, builds and inserts a new rental and audits it.
func (uc *rentalCommandsImpl) create(ctx context.Context, tx shared.Tx, p rental.CreateParams, actor *int64, now time.Time) (*rental.Rental, error) {
	tools, err := tx.Inventory().ToolsByIDs(ctx, toolIDsOf(p.Lines))
	if err != nil {
		return nil, err
	}
	p.Number, err = uc.nextNumber(ctx, tx, rental.NormalizeStatus(string(p.Status)), now)
	if err != nil {
		return nil, err
	}
	r, err := rental.New(p, tools, actor, now)
	if err != nil {
		return nil, err
	}
	id, err := tx.Rentals().Create(ctx, r)
	if err != nil {
		return nil, err
	}
	r.ID = id
	for _, item := range r.Items {
		item.RentalID = id
	}
	if err := audit(ctx, tx, id, "CreateRental", fmt.Sprintf("Created with status %s", r.Status), actor, now); err != nil {
		return nil, err
	}
	return r, nil
}

// Decide approves or rejects a reserved rental. Approval allocates what is
// available and records the rest as shortage lines.
func (uc *rentalCommandsImpl) Decide(ctx context.Context, rentalID int64, in DecisionInput, actor auth.Principal) (*DecisionResult, error) {
	decision := strings.ToLower(strings.TrimSpace(in.Decision))
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, rental.ErrInvalidDecision
	}
	operator := actorID(actor)
	result := &DecisionResult{Decision: decision}

	r, err := uc.withRental(ctx, rentalID, func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error {
		if decision == DecisionReject {
			reason := strings.TrimSpace(in.Reason)
			fx, err := r.Reject(reason, operator, now)
			if err != nil {
				return err
			}
			if err := applyEffects(ctx, tx, fx); err != nil {
				return err
			}
			if err := tx.Notifications().Enqueue(ctx, shared.Notification{
				RentalID:  r.ID,
				Type:      shared.NotificationReservationRejected,
				Payload:   fmt.Sprintf("Reservation %s rejected: %s", r.Number, reason),
				CreatedAt: now,
			}); err != nil {
				return err
			}
			return audit(ctx, tx, r.ID, "Reject", fmt.Sprintf("Rejected by %s: %s", actorLabel(operator), reason), operator, now)
		}

		if err := r.ApplyShortageActions(in.ShortageActions, operator, now); err != nil {
			return err
		}
		if err := r.Approve(operator, now); err != nil {
			return err
		}
		cands, err := candidates(ctx, tx, r)
		if err != nil {
			return err
		}
		alloc, fx := r.Allocate(cands, operator, now)
		if err := applyEffects(ctx, tx, fx); err != nil {
			return err
		}
		result.ReservedCount = alloc.ReservedCount
		result.ShortageCount = alloc.ShortageCount

		if err := tx.Notifications().Enqueue(ctx, shared.Notification{
			RentalID:  r.ID,
			Type:      shared.NotificationReservationApproved,
			Payload:   fmt.Sprintf("Reservation %s approved. Reserved=%d shortage=%d", r.Number, alloc.ReservedCount, alloc.ShortageCount),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return audit(ctx, tx, r.ID, "ApproveReservation",
			fmt.Sprintf("Approved by %s; reserved=%d shortage=%d", actorLabel(operator), alloc.ReservedCount, alloc.ShortageCount),
			operator, now)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncRentalDecision(decision)
	metrics.AddNotificationsEnqueued(decisionNotification(decision), 1)
	uc.logger.Info("rental decided", "rental_id", r.ID, "decision", decision,
		"reserved", result.ReservedCount, "shortage", result.ShortageCount)
	result.RentalResult = resultOf(r)
	return result, nil
}

func decisionNotification(decision string) string {
	if decision == DecisionReject {
		return shared.NotificationReservationRejected
	}
	return shared.NotificationReservationApproved
}

// CheckoutOffer converts an offer into a new reservation and closes the offer,
// both in one transaction.
func (uc *rentalCommandsImpl) CheckoutOffer(ctx context.Context, offerNumber string, in CheckoutOfferInput, actor auth.Principal) (*RentalResult, error) {
	number := strings.ToUpper(strings.TrimSpace(offerNumber))
	operator := actorID(actor)

	var created *rental.Rental
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		offer, err := tx.Rentals().FindByNumber(ctx, number)
		if err != nil {
			return notFound(err, rental.ErrOfferNotFound)
		}
		if rental.NormalizeStatus(string(offer.Status)) != rental.StatusOffer {
			return errs.Wrapf(rental.ErrOfferNotFound, "rental %s is %s", number, offer.Status)
		}

		lines := make([]rental.LineRequest, 0, len(offer.Items))
		for _, item := range offer.Items {
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			daily := item.DailyCost
			lines = append(lines, rental.LineRequest{
				ToolID:         item.ToolID,
				Quantity:       qty,
				AssignmentMode: string(rental.AssignAuto),
				DailyCost:      &daily,
			})
		}
		if len(lines) == 0 {
			return rental.ErrNoItems
		}

		employeeID := actor.EmployeeID
		if employeeID <= 0 {
			employeeID = offer.EmployeeID
		}
		projectCode := offer.ProjectCode
		if in.ProjectCode != nil && strings.TrimSpace(*in.ProjectCode) != "" {
			projectCode = in.ProjectCode
		}
		purpose := offer.Purpose
		if in.Purpose != nil && strings.TrimSpace(*in.Purpose) != "" {
			purpose = *in.Purpose
		}
		notes := fmt.Sprintf("Checked out from offer %s", offer.Number)
		if in.Notes != nil && strings.TrimSpace(*in.Notes) != "" {
			notes = *in.Notes
		}

		now := uc.clock.Now()
		r, err := uc.create(ctx, tx, rental.CreateParams{
			EmployeeID:  employeeID,
			Purpose:     purpose,
			ProjectCode: projectCode,
			Status:      rental.StatusReserved,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Notes:       notes,
			Lines:       lines,
		}, operator, now)
		if err != nil {
			return err
		}

		if err := offer.TransitionTo(rental.StatusClosed); err != nil {
			return err
		}
		offer.UpdatedAt = now
		if err := tx.Rentals().Save(ctx, offer); err != nil {
			return err
		}
		if err := audit(ctx, tx, offer.ID, "OfferCheckout", fmt.Sprintf("Offer converted to reservation %s", r.Number), operator, now); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncRentalCreated(string(created.Status))
	metrics.IncRentalAction("offer_checkout")
	uc.logger.Info("offer checked out", "offer", number, "rental_id", created.ID, "number", created.Number)
	res := resultOf(created)
	return &res, nil
}

// KioskLend creates, allocates and activates a rental for an employee who
// authenticates with their PIN at the kiosk.
func (uc *rentalCommandsImpl) KioskLend(ctx context.Context, in KioskLendInput) (*KioskLendResult, error) {
	if _, err := requireEmployee(ctx, uc.directory, in.EmployeeID); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(in.PIN)) < password.MinLength {
		return nil, ErrPINTooShort
	}
	if len(in.Lines) == 0 {
		return nil, rental.ErrNoItems
	}
	if _, err := inventory.NewPeriod(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	employeeID := in.EmployeeID
	result := &KioskLendResult{EmployeeID: employeeID}

	var lent *rental.Rental
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		account, err := tx.Users().FindByEmployeeID(ctx, employeeID)
		if err != nil && !errs.Is(err, errs.ErrNotFound) {
			return err
		}
		if account != nil && !account.IsActive() {
			account = nil
		}
		if !verifyPIN(account, in.PIN, uc.defaultPIN) {
			return ErrInvalidPIN
		}

		purpose := strings.TrimSpace(in.Purpose)
		if purpose == "" {
			purpose = "Kiosk lend"
		}
		now := uc.clock.Now()
		r, err := uc.create(ctx, tx, rental.CreateParams{
			EmployeeID:  employeeID,
			Purpose:     purpose,
			ProjectCode: in.ProjectCode,
			Status:      rental.StatusReserved,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Notes:       fmt.Sprintf("Kiosk lend by employee %d", employeeID),
			Lines:       in.Lines,
		}, &employeeID, now)
		if err != nil {
			return err
		}

		cands, err := candidates(ctx, tx, r)
		if err != nil {
			return err
		}
		alloc, fx := r.Allocate(cands, &employeeID, now)
		activated, picked, err := r.Activate(&employeeID, &employeeID, now)
		if err != nil {
			return err
		}
		fx.Instances = append(fx.Instances, activated.Instances...)
		if err := tx.Rentals().Save(ctx, r); err != nil {
			return err
		}
		if err := applyEffects(ctx, tx, fx); err != nil {
			return err
		}
		if err := audit(ctx, tx, r.ID, "KioskLend", fmt.Sprintf("Employee %d", employeeID), &employeeID, now); err != nil {
			return err
		}

		for _, item := range picked {
			result.PickupItems = append(result.PickupItems, PickupItem{
				LineID:     item.ID,
				ToolID:     item.ToolID,
				InstanceID: *item.InstanceID,
				Quantity:   item.Quantity,
			})
		}
		result.ShortageQty = alloc.ShortageCount
		lent = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncRentalCreated(string(rental.StatusReserved))
	metrics.IncRentalAction("kiosk_lend")
	uc.logger.Info("kiosk lend", "rental_id", lent.ID, "employee_id", employeeID, "picked", len(result.PickupItems))
	result.RentalResult = resultOf(lent)
	return result, nil
}
