package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/usecase/shared"
)

const (
	exportLimit        = 5000
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

var (
	ErrToolNotFound    = errs.Mark(errs.New("tool not found"), errs.ErrNotFound)
	ErrInvalidQuantity = errs.Mark(errs.New("quantity must be at least 1"), errs.ErrValidation)
)

type ListFilter struct {
	Status     string
	EmployeeID *int64
	Query      string
}

type AvailabilityInput struct {
	ToolID    int64
	StartDate time.Time
	EndDate   time.Time
	Quantity  int
}

type AvailabilityView struct {
	ToolID               int64
	StartDate            time.Time
	EndDate              time.Time
	RequestedQuantity    int
	AvailableCount       int
	Deficit              int
	AvailableInstanceIDs []int64
}

type ProjectView struct {
	ProjectCode string
	Display     string
}

// ExportFile is a rendered rental export ready to be downloaded.
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

type RentalQueries interface {
	Get(ctx context.Context, id int64) (*RentalView, error)
	GetOffer(ctx context.Context, number string) (*RentalView, error)
	List(ctx context.Context, filter ListFilter, cursor *Cursor, limit int) ([]*RentalView, *Cursor, error)
	Availability(ctx context.Context, in AvailabilityInput) (*AvailabilityView, error)
	SearchProjects(ctx context.Context, query string, limit int) ([]ProjectView, error)
	Export(ctx context.Context, filter ListFilter) (*ExportFile, error)
}

type rentalQueriesImpl struct {
	uow       shared.UnitOfWork
	directory shared.EmployeeDirectory
	exporter  shared.RentalExporter
	clock     clock.Clock
	logger    *slog.Logger
}

func NewRentalQueries(
	uow shared.UnitOfWork,
	directory shared.EmployeeDirectory,
	exporter shared.RentalExporter,
	clk clock.Clock,
	logger *slog.Logger,
) RentalQueries {
	return &rentalQueriesImpl{
		uow:       uow,
		directory: directory,
		exporter:  exporter,
		clock:     clk,
		logger:    logger,
	}
}

// Get runs in a write transaction: reading an active rental past its end date
// persists the promotion to Overdue.
func (q *rentalQueriesImpl) Get(ctx context.Context, id int64) (*RentalView, error) {
	return q.getOne(ctx, func(ctx context.Context, tx shared.Tx) (*rental.Rental, error) {
		r, err := tx.Rentals().FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, rental.ErrRentalNotFound)
		}
		return r, nil
	})
}

func (q *rentalQueriesImpl) GetOffer(ctx context.Context, number string) (*RentalView, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	return q.getOne(ctx, func(ctx context.Context, tx shared.Tx) (*rental.Rental, error) {
		r, err := tx.Rentals().FindByNumber(ctx, number)
		if err != nil {
			return nil, notFound(err, rental.ErrOfferNotFound)
		}
		if r.Status != rental.StatusOffer {
			return nil, errs.Wrapf(rental.ErrOfferNotFound, "rental %s is %s", number, r.Status)
		}
		return r, nil
	})
}

func (q *rentalQueriesImpl) getOne(ctx context.Context, load func(ctx context.Context, tx shared.Tx) (*rental.Rental, error)) (*RentalView, error) {
	var view *RentalView
	err := q.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := load(ctx, tx)
		if err != nil {
			return err
		}
		if r.Refresh(clock.Today(q.clock)) {
			if err := tx.Rentals().Save(ctx, r); err != nil {
				return err
			}
			if err := tx.Audit().Append(ctx, shared.AuditEntry{
				EntityType: shared.AuditEntityRental,
				EntityID:   r.ID,
				Action:     "MarkOverdue",
				Details:    fmt.Sprintf("Rental %s overdue since %s", r.Number, clock.FormatDate(r.EndDate)),
				CreatedAt:  q.clock.Now(),
			}); err != nil {
				return err
			}
			q.logger.Info("rental promoted to overdue on read", "rental_id", r.ID)
		}
		c, err := loadCatalog(ctx, tx, q.directory, r)
		if err != nil {
			return err
		}
		view = c.present(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *rentalQueriesImpl) List(ctx context.Context, filter ListFilter, cursor *Cursor, limit int) ([]*RentalView, *Cursor, error) {
	limit = ValidateLimit(limit)
	f := shared.RentalFilter{
		Status:     filter.Status,
		EmployeeID: filter.EmployeeID,
		Query:      filter.Query,
		Limit:      limit + 1,
	}
	if cursor != nil && cursor.After != "" {
		afterID, err := DecodeAfterCursor(cursor.After)
		if err != nil {
			return nil, nil, err
		}
		f.AfterID = afterID
	}

	var views []*RentalView
	err := q.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Rentals().PromoteOverdue(ctx, clock.Today(q.clock)); err != nil {
			return err
		}
		rs, err := tx.Rentals().List(ctx, f)
		if err != nil {
			return err
		}
		c, err := loadCatalog(ctx, tx, q.directory, rs...)
		if err != nil {
			return err
		}
		views = make([]*RentalView, 0, len(rs))
		for _, r := range rs {
			views = append(views, c.present(r))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(views) > limit {
		next = &Cursor{After: EncodeAfterCursor(views[limit-1].ID)}
		views = views[:limit]
	}
	return views, next, nil
}

func (q *rentalQueriesImpl) Availability(ctx context.Context, in AvailabilityInput) (*AvailabilityView, error) {
	period, err := inventory.NewPeriod(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	view := &AvailabilityView{
		ToolID:               in.ToolID,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		RequestedQuantity:    in.Quantity,
		AvailableInstanceIDs: []int64{},
	}
	err = q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		tools, err := tx.Inventory().ToolsByIDs(ctx, []int64{in.ToolID})
		if err != nil {
			return err
		}
		if _, ok := tools[in.ToolID]; !ok {
			return errs.Wrapf(ErrToolNotFound, "tool %d", in.ToolID)
		}
		instances, err := tx.Inventory().InstancesByTool(ctx, in.ToolID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(instances))
		for _, inst := range instances {
			ids = append(ids, inst.ID)
		}
		bookings, err := tx.Rentals().Bookings(ctx, ids)
		if err != nil {
			return err
		}
		free := rental.AvailableInstances(instances, period, bookings, nil)
		freeIDs := make([]int64, 0, len(free))
		for _, inst := range free {
			freeIDs = append(freeIDs, inst.ID)
		}
		usage, err := tx.Rentals().Usage(ctx, freeIDs)
		if err != nil {
			return err
		}
		view.AvailableInstanceIDs = inventory.Rank(freeIDs, inventory.UsageDays(usage))
		return nil
	})
	if err != nil {
		return nil, err
	}

	view.AvailableCount = len(view.AvailableInstanceIDs)
	if deficit := in.Quantity - view.AvailableCount; deficit > 0 {
		view.Deficit = deficit
	}
	return view, nil
}

func (q *rentalQueriesImpl) SearchProjects(ctx context.Context, query string, limit int) ([]ProjectView, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	var codes []string
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		codes, err = tx.Rentals().SearchProjectCodes(ctx, query, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]ProjectView, 0, len(codes))
	for _, code := range codes {
		out = append(out, ProjectView{ProjectCode: code, Display: code})
	}
	return out, nil
}

func (q *rentalQueriesImpl) Export(ctx context.Context, filter ListFilter) (*ExportFile, error) {
	var rows []shared.ExportRow
	err := q.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Rentals().PromoteOverdue(ctx, clock.Today(q.clock)); err != nil {
			return err
		}
		rs, err := tx.Rentals().List(ctx, shared.RentalFilter{
			Status:     filter.Status,
			EmployeeID: filter.EmployeeID,
			Query:      filter.Query,
			Limit:      exportLimit,
		})
		if err != nil {
			return err
		}
		c := catalog{employees: q.directory.Index(ctx)}
		rows = make([]shared.ExportRow, 0, len(rs))
		for _, r := range rs {
			rows = append(rows, c.exportRow(r))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	content, err := q.exporter.Render(rows)
	if err != nil {
		return nil, errs.Wrap(err, "failed to render rental export")
	}
	q.logger.Info("rentals exported", "rows", len(rows))
	return &ExportFile{
		Name:        fmt.Sprintf("rentals-%s.%s", clock.FormatDate(q.clock.Now()), q.exporter.FileExtension()),
		ContentType: q.exporter.ContentType(),
		Content:     content,
	}, nil
}

func notFound(err, sentinel error) error {
	if errs.Is(err, errs.ErrNotFound) {
		return sentinel
	}
	return err
}
