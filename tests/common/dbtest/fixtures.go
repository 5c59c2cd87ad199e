//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by both a pool and a transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateTestTool inserts a tool with count available instances and returns
// the tool id and instance ids in instance-number order.
func CreateTestTool(t *testing.T, db DBLike, name, dailyCost string, count int) (int64, []int64) {
	t.Helper()

	ctx := context.Background()
	var toolID int64
	err := db.QueryRow(ctx,
		"INSERT INTO tools (name, serial_number, status, daily_rental_cost) VALUES ($1, $2, 'Available', $3) RETURNING id",
		name, strings.ToUpper(strings.ReplaceAll(name, " ", "-")), dailyCost).Scan(&toolID)
	require.NoError(t, err)

	instanceIDs := make([]int64, 0, count)
	for i := 1; i <= count; i++ {
		var id int64
		err := db.QueryRow(ctx,
			`INSERT INTO tool_instances (tool_id, serial_number, instance_number, status, location_code)
			 VALUES ($1, $2, $3, 'Available', $4) RETURNING id`,
			toolID, fmt.Sprintf("SN-%d-%03d", toolID, i), i, fmt.Sprintf("A-%02d", i)).Scan(&id)
		require.NoError(t, err)
		instanceIDs = append(instanceIDs, id)
	}

	return toolID, instanceIDs
}

// CreateTestAccount provisions an active account without a custom PIN, so the
// configured default PIN applies.
func CreateTestAccount(t *testing.T, db DBLike, employeeID int64, role string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO user_accounts (employee_id, role, is_active) VALUES ($1, $2, true)
		 ON CONFLICT (employee_id) DO UPDATE SET role = EXCLUDED.role, is_active = true`,
		employeeID, role)
	require.NoError(t, err)
}

// DeactivateAccount marks an account inactive.
func DeactivateAccount(t *testing.T, db DBLike, employeeID int64) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE user_accounts SET is_active = false WHERE employee_id = $1", employeeID)
	require.NoError(t, err)
}

// SetInstanceStatus overrides the status of a tool instance.
func SetInstanceStatus(t *testing.T, db DBLike, instanceID int64, status string) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE tool_instances SET status = $2 WHERE id = $1", instanceID, status)
	require.NoError(t, err)
}

// InstanceStatus reads the current status of a tool instance.
func InstanceStatus(t *testing.T, db DBLike, instanceID int64) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM tool_instances WHERE id = $1", instanceID).Scan(&status)
	require.NoError(t, err)
	return status
}

// AuditActions lists the audit actions recorded for a rental, oldest first.
func AuditActions(t *testing.T, db DBLike, rentalID int64) []string {
	t.Helper()

	rows, err := db.Query(context.Background(),
		"SELECT action FROM audit_logs WHERE entity_type = 'Rental' AND entity_id = $1 ORDER BY id", rentalID)
	require.NoError(t, err)
	defer rows.Close()

	var actions []string
	for rows.Next() {
		var a string
		require.NoError(t, rows.Scan(&a))
		actions = append(actions, a)
	}
	require.NoError(t, rows.Err())
	return actions
}

// SeedReferenceData inserts the data every e2e test may rely on.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO user_accounts (employee_id, role, is_active) VALUES
		    (1001, 'Admin', true),
		    (1002, 'User', true)
		ON CONFLICT (employee_id) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all tables and reseeds reference data.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
