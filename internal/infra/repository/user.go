package repository

import (
	"context"
	"encoding/json"
	"time"

	"tool-rental/internal/domain/user"
	"tool-rental/internal/infra"
	"tool-rental/internal/infra/db"
	"tool-rental/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const accountColumns = `employee_id, role, rights, pin_hash, pin_updated_at, is_active, created_at, updated_at`

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) FindByEmployeeID(ctx context.Context, employeeID int64) (*user.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM user_accounts WHERE employee_id = $1`, employeeID)
	account, err := scanAccount(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user account", err)
	}
	return account, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM user_accounts ORDER BY employee_id`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user accounts", err)
	}
	defer rows.Close()

	var out []*user.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan user account", err)
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate user accounts", err)
	}
	return out, nil
}

func (r *UserRepository) Save(ctx context.Context, a *user.Account) error {
	rights, err := json.Marshal(a.Rights())
	if err != nil {
		return infra.WrapRepoErr("failed to encode rights", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO user_accounts (`+accountColumns+`)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (employee_id) DO UPDATE SET
		role = EXCLUDED.role,
		rights = EXCLUDED.rights,
		pin_hash = EXCLUDED.pin_hash,
		pin_updated_at = EXCLUDED.pin_updated_at,
		is_active = EXCLUDED.is_active,
		updated_at = EXCLUDED.updated_at`,
		a.EmployeeID(),
		string(a.Role()),
		rights,
		pgconv.StringPtrToPgtype(a.PINHash()),
		pgconv.TimePtrToPgtype(a.PINUpdatedAt()),
		a.IsActive(),
		a.CreatedAt(),
		a.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save user account", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, employeeID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_accounts WHERE employee_id = $1`, employeeID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete user account", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user account not found", nil, infra.KindNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*user.Account, error) {
	var (
		employeeID   int64
		role         string
		rights       []byte
		pinHash      pgtype.Text
		pinUpdatedAt pgtype.Timestamptz
		isActive     bool
		createdAt    time.Time
		updatedAt    time.Time
	)
	if err := row.Scan(&employeeID, &role, &rights, &pinHash, &pinUpdatedAt, &isActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	normalized := user.NormalizeRole(role)
	return user.ReconstructAccount(
		employeeID,
		normalized,
		user.ParseRights(rights, normalized),
		pgconv.StringPtrFromPgtype(pinHash),
		pgconv.TimePtrFromPgtype(pinUpdatedAt),
		isActive,
		createdAt,
		updatedAt,
	), nil
}
