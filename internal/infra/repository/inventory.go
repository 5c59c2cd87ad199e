package repository

import (
	"context"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/infra"
	"tool-rental/internal/infra/db"
	"tool-rental/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	toolColumns = `t.id, t.name, t.serial_number, t.status, t.daily_rental_cost,
	t.purchase_cost, t.current_value, t.requires_certification`

	instanceColumns = `i.id, i.tool_id, i.serial_number, i.instance_number, i.status, i.condition,
	i.warehouse_id, i.location_code, i.requires_certification, i.last_calibration, i.next_calibration`
)

type InventoryRepository struct {
	db db.DBTX
}

func NewInventoryRepository(dbtx db.DBTX) *InventoryRepository {
	return &InventoryRepository{db: dbtx}
}

func (r *InventoryRepository) ToolsByIDs(ctx context.Context, ids []int64) (map[int64]*inventory.Tool, error) {
	out := make(map[int64]*inventory.Tool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+toolColumns+` FROM tools t WHERE t.id = ANY($1)`, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load tools", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t                  inventory.Tool
			daily, cost, value pgtype.Numeric
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.SerialNumber, &t.Status, &daily, &cost, &value, &t.RequiresCertification); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tool", err)
		}
		if t.DailyRentalCost, err = pgconv.DecimalFromNumeric(daily); err != nil {
			return nil, infra.WrapRepoErr("failed to convert tool rate", err)
		}
		if t.PurchaseCost, err = nullDecimal(cost); err != nil {
			return nil, infra.WrapRepoErr("failed to convert purchase cost", err)
		}
		if t.CurrentValue, err = nullDecimal(value); err != nil {
			return nil, infra.WrapRepoErr("failed to convert current value", err)
		}
		out[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tools", err)
	}
	return out, nil
}

func (r *InventoryRepository) InstancesByTool(ctx context.Context, toolID int64) ([]*inventory.Instance, error) {
	return r.queryInstances(ctx, `SELECT `+instanceColumns+` FROM tool_instances i
	WHERE i.tool_id = $1 ORDER BY i.serial_number, i.id`, toolID)
}

func (r *InventoryRepository) InstancesByIDs(ctx context.Context, ids []int64) (map[int64]*inventory.Instance, error) {
	out := make(map[int64]*inventory.Instance, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.queryInstances(ctx, `SELECT `+instanceColumns+` FROM tool_instances i WHERE i.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, inst := range list {
		out[inst.ID] = inst
	}
	return out, nil
}

func (r *InventoryRepository) queryInstances(ctx context.Context, query string, args ...any) ([]*inventory.Instance, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load tool instances", err)
	}
	defer rows.Close()

	var out []*inventory.Instance
	for rows.Next() {
		var (
			inst            inventory.Instance
			status          string
			number          int32
			warehouseID     pgtype.Int8
			lastCal, nextCal pgtype.Date
		)
		if err := rows.Scan(
			&inst.ID, &inst.ToolID, &inst.SerialNumber, &number, &status, &inst.Condition,
			&warehouseID, &inst.LocationCode, &inst.RequiresCertification, &lastCal, &nextCal,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tool instance", err)
		}
		inst.InstanceNumber = int(number)
		inst.Status = inventory.InstanceStatus(status)
		inst.WarehouseID = pgconv.Int64PtrFromPgtype(warehouseID)
		inst.LastCalibration = pgconv.DatePtrFromPgtype(lastCal)
		inst.NextCalibration = pgconv.DatePtrFromPgtype(nextCal)
		out = append(out, &inst)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tool instances", err)
	}
	return out, nil
}

func (r *InventoryRepository) SetInstanceStatus(ctx context.Context, id int64, status inventory.InstanceStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE tool_instances SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to update instance status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("tool instance not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *InventoryRepository) ReleaseIfHeld(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `UPDATE tool_instances SET status = $2, updated_at = NOW()
	WHERE id = ANY($1) AND status = ANY($3)`,
		ids,
		string(inventory.InstanceAvailable),
		[]string{string(inventory.InstanceReserved), string(inventory.InstanceRented), string(inventory.InstanceInRental)},
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release instances", err)
	}
	return nil
}

func (r *InventoryRepository) SetToolsAvailable(ctx context.Context, toolIDs []int64) error {
	if len(toolIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `UPDATE tools SET status = $2, updated_at = NOW() WHERE id = ANY($1)`,
		toolIDs, inventory.ToolStatusAvailable)
	if err != nil {
		return infra.WrapRepoErr("failed to update tool status", err)
	}
	return nil
}

func nullDecimal(pn pgtype.Numeric) (decimal.NullDecimal, error) {
	d, err := pgconv.DecimalPtrFromNumeric(pn)
	if err != nil || d == nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}, nil
}
