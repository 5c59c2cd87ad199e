package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/infra"
	"tool-rental/internal/infra/db"
	"tool-rental/internal/infra/repository/converter"
	"tool-rental/internal/pkg/pgconv"
	"tool-rental/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	rentalWriteColumns = `rental_number, employee_id, purpose, project_code, status,
	start_date, end_date, actual_start, actual_end, total_cost,
	approved_by, approval_date, checkout_condition, return_condition,
	notes, loss_amount, loss_reason, loss_calculated_at, updated_at`

	itemWriteColumns = `rental_id, tool_id, tool_instance_id, preferred_instance_id,
	assignment_mode, quantity, daily_cost, total_cost,
	checkout_notes, is_deficit, lifecycle`
)

const (
	insertRentalSQL = `INSERT INTO rentals (` + rentalWriteColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	RETURNING id, created_at`

	updateRentalSQL = `UPDATE rentals SET
	rental_number = $1, employee_id = $2, purpose = $3, project_code = $4, status = $5,
	start_date = $6, end_date = $7, actual_start = $8, actual_end = $9, total_cost = $10,
	approved_by = $11, approval_date = $12, checkout_condition = $13, return_condition = $14,
	notes = $15, loss_amount = $16, loss_reason = $17, loss_calculated_at = $18, updated_at = $19
	WHERE id = $20`

	insertItemSQL = `INSERT INTO rental_items (` + itemWriteColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id`

	updateItemSQL = `UPDATE rental_items SET
	rental_id = $1, tool_id = $2, tool_instance_id = $3, preferred_instance_id = $4,
	assignment_mode = $5, quantity = $6, daily_cost = $7, total_cost = $8,
	checkout_notes = $9, is_deficit = $10, lifecycle = $11
	WHERE id = $12`
)

type RentalRepository struct {
	db db.DBTX
}

func NewRentalRepository(dbtx db.DBTX) *RentalRepository {
	return &RentalRepository{db: dbtx}
}

func (r *RentalRepository) FindByID(ctx context.Context, id int64) (*rental.Rental, error) {
	query := `SELECT ` + converter.RentalColumns + ` FROM rentals r WHERE r.id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *RentalRepository) FindByNumber(ctx context.Context, number string) (*rental.Rental, error) {
	query := `SELECT ` + converter.RentalColumns + ` FROM rentals r WHERE r.rental_number = $1 FOR UPDATE`
	return r.findOne(ctx, query, strings.TrimSpace(number))
}

func (r *RentalRepository) findOne(ctx context.Context, query string, arg any) (*rental.Rental, error) {
	var row converter.RentalRow
	if err := r.db.QueryRow(ctx, query, arg).Scan(row.Targets()...); err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("rental not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rental", err)
	}
	out, err := converter.RentalToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert rental", err)
	}
	if err := r.attachItems(ctx, []*rental.Rental{out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RentalRepository) List(ctx context.Context, filter shared.RentalFilter) ([]*rental.Rental, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "r.status = "+arg(string(rental.NormalizeStatus(filter.Status))))
	}
	if filter.EmployeeID != nil {
		where = append(where, "r.employee_id = "+arg(*filter.EmployeeID))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg("%" + q + "%")
		where = append(where, fmt.Sprintf("(r.rental_number ILIKE %s OR r.purpose ILIKE %s OR r.project_code ILIKE %s)", p, p, p))
	}
	if filter.AfterID > 0 {
		where = append(where, "r.id < "+arg(filter.AfterID))
	}

	query := `SELECT ` + converter.RentalColumns + ` FROM rentals r`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY r.id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	return r.queryRentals(ctx, query, args...)
}

func (r *RentalRepository) DueBy(ctx context.Context, until time.Time) ([]*rental.Rental, error) {
	query := `SELECT ` + converter.RentalColumns + ` FROM rentals r
	WHERE r.status IN ('Active', 'Overdue') AND r.end_date <= $1
	ORDER BY r.end_date, r.id`
	return r.queryRentals(ctx, query, pgconv.DateToPgtype(until))
}

func (r *RentalRepository) queryRentals(ctx context.Context, query string, args ...any) ([]*rental.Rental, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rentals", err)
	}
	defer rows.Close()

	var out []*rental.Rental
	for rows.Next() {
		var row converter.RentalRow
		if err := rows.Scan(row.Targets()...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan rental", err)
		}
		item, err := converter.RentalToDomain(row)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert rental", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate rentals", err)
	}

	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RentalRepository) attachItems(ctx context.Context, rentals []*rental.Rental) error {
	if len(rentals) == 0 {
		return nil
	}
	ids := make([]int64, len(rentals))
	byID := make(map[int64]*rental.Rental, len(rentals))
	for i, rt := range rentals {
		ids[i] = rt.ID
		byID[rt.ID] = rt
		rt.Items = nil
	}

	query := `SELECT ` + converter.ItemColumns + ` FROM rental_items ri
	WHERE ri.rental_id = ANY($1) ORDER BY ri.rental_id, ri.id`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to load rental items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row converter.ItemRow
		if err := rows.Scan(row.Targets()...); err != nil {
			return infra.WrapRepoErr("failed to scan rental item", err)
		}
		item, err := converter.ItemToDomain(row)
		if err != nil {
			return infra.WrapRepoErr("failed to convert rental item", err)
		}
		if owner := byID[item.RentalID]; owner != nil {
			owner.Items = append(owner.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to iterate rental items", err)
	}
	return nil
}

func (r *RentalRepository) Create(ctx context.Context, rt *rental.Rental) (int64, error) {
	if err := r.db.QueryRow(ctx, insertRentalSQL, converter.RentalArgs(rt)...).Scan(&rt.ID, &rt.CreatedAt); err != nil {
		return 0, infra.WrapRepoErr("failed to create rental", err)
	}
	if err := r.saveItems(ctx, rt); err != nil {
		return 0, err
	}
	return rt.ID, nil
}

func (r *RentalRepository) Save(ctx context.Context, rt *rental.Rental) error {
	args := append(converter.RentalArgs(rt), rt.ID)
	tag, err := r.db.Exec(ctx, updateRentalSQL, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update rental", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("rental not found", nil, infra.KindNotFound)
	}
	return r.saveItems(ctx, rt)
}

// saveItems writes all items in one batch. New items get their ids assigned.
func (r *RentalRepository) saveItems(ctx context.Context, rt *rental.Rental) error {
	if len(rt.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range rt.Items {
		args, err := converter.ItemArgs(rt.ID, item)
		if err != nil {
			return infra.WrapRepoErr("failed to encode rental item", err)
		}
		if item.ID == 0 {
			batch.Queue(insertItemSQL, args...)
		} else {
			batch.Queue(updateItemSQL, append(args, item.ID)...)
		}
	}

	results := r.db.SendBatch(ctx, batch)
	for _, item := range rt.Items {
		if item.ID == 0 {
			if err := results.QueryRow().Scan(&item.ID); err != nil {
				_ = results.Close()
				return infra.WrapRepoErr("failed to insert rental item", err)
			}
			item.RentalID = rt.ID
			continue
		}
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return infra.WrapRepoErr("failed to update rental item", err)
		}
	}
	if err := results.Close(); err != nil {
		return infra.WrapRepoErr("failed to write rental items", err)
	}
	return nil
}

func (r *RentalRepository) LastReservationNumber(ctx context.Context, prefix string) (string, error) {
	var number string
	err := r.db.QueryRow(ctx, `SELECT rental_number FROM rentals
	WHERE starts_with(rental_number, $1)
	ORDER BY created_at DESC, id DESC LIMIT 1`, prefix).Scan(&number)
	if err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", infra.WrapRepoErr("failed to read last reservation number", err)
	}
	return number, nil
}

func (r *RentalRepository) OfferNumbers(ctx context.Context, yearPrefix string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT rental_number FROM rentals
	WHERE starts_with(rental_number, $1) AND rental_number ~ '^[0-9]{6}$'`, yearPrefix)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read offer numbers", err)
	}
	numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan offer numbers", err)
	}
	return numbers, nil
}

func (r *RentalRepository) Bookings(ctx context.Context, instanceIDs []int64) ([]rental.Booking, error) {
	if len(instanceIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT ri.rental_id, ri.tool_instance_id, r.status, r.start_date, r.end_date
	FROM rental_items ri JOIN rentals r ON r.id = ri.rental_id
	WHERE ri.tool_instance_id = ANY($1)`, instanceIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load bookings", err)
	}
	defer rows.Close()

	var out []rental.Booking
	for rows.Next() {
		var (
			b          rental.Booking
			status     string
			start, end pgtype.Date
		)
		if err := rows.Scan(&b.RentalID, &b.InstanceID, &status, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		b.Status = rental.NormalizeStatus(status)
		b.Start = pgconv.DateFromPgtype(start)
		b.End = pgconv.DateFromPgtype(end)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}

func (r *RentalRepository) Usage(ctx context.Context, instanceIDs []int64) ([]inventory.Usage, error) {
	if len(instanceIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT ri.tool_instance_id, r.start_date, r.end_date
	FROM rental_items ri JOIN rentals r ON r.id = ri.rental_id
	WHERE ri.tool_instance_id = ANY($1) AND r.status <> 'Offer'`, instanceIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load instance usage", err)
	}
	defer rows.Close()

	var out []inventory.Usage
	for rows.Next() {
		var (
			u          inventory.Usage
			start, end pgtype.Date
		)
		if err := rows.Scan(&u.InstanceID, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan instance usage", err)
		}
		u.Start = pgconv.DateFromPgtype(start)
		u.End = pgconv.DateFromPgtype(end)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate instance usage", err)
	}
	return out, nil
}

func (r *RentalRepository) PromoteOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE rentals SET status = 'Overdue', updated_at = NOW()
	WHERE status = 'Active' AND end_date < $1`, pgconv.DateToPgtype(today))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to promote overdue rentals", err)
	}
	return tag.RowsAffected(), nil
}

// SearchProjectCodes returns distinct project codes, case-insensitively, newest
// code first.
func (r *RentalRepository) SearchProjectCodes(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT project_code FROM rentals
	WHERE project_code IS NOT NULL AND btrim(project_code) <> '' AND project_code ILIKE $1
	ORDER BY project_code DESC LIMIT $2`, "%"+strings.TrimSpace(query)+"%", limit*3)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to search project codes", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan project codes", err)
	}

	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, limit)
	for _, code := range codes {
		code = strings.TrimSpace(code)
		key := strings.ToLower(code)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, code)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
