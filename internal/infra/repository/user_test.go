//go:build unit

package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tool-rental/internal/domain/user"
	"tool-rental/internal/infra"
	"tool-rental/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockDBTX) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Rows), mockArgs.Error(1)
}

func (m *MockDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

func (m *MockDBTX) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	mockArgs := m.Called(ctx, b)
	return mockArgs.Get(0).(pgx.BatchResults)
}

// accountRow scans a fixed user_accounts row, or fails with err.
type accountRow struct {
	employeeID int64
	role       string
	rights     []byte
	pinHash    *string
	isActive   bool
	at         time.Time
	err        error
}

func (r accountRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.employeeID
	*dest[1].(*string) = r.role
	*dest[2].(*[]byte) = r.rights
	if r.pinHash != nil {
		*dest[3].(*pgtype.Text) = pgtype.Text{String: *r.pinHash, Valid: true}
		*dest[4].(*pgtype.Timestamptz) = pgtype.Timestamptz{Time: r.at, Valid: true}
	}
	*dest[5].(*bool) = r.isActive
	*dest[6].(*time.Time) = r.at
	*dest[7].(*time.Time) = r.at
	return nil
}

func TestFindByEmployeeID(t *testing.T) {
	at := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	hash := "$2a$10$hash"

	tests := []struct {
		name      string
		row       accountRow
		wantErr   error
		wantKind  infra.RepositoryErrorKind
		checkFunc func(t *testing.T, a *user.Account)
	}{
		{
			name: "rights overrides applied on top of the role baseline",
			row:  accountRow{employeeID: 4711, role: "User", rights: []byte(`{"manageWarehouse":true}`), isActive: true, at: at},
			checkFunc: func(t *testing.T, a *user.Account) {
				assert.Equal(t, int64(4711), a.EmployeeID())
				assert.Equal(t, user.RoleUser, a.Role())
				assert.True(t, a.Rights().ManageWarehouse)
				assert.True(t, a.Rights().Checkout)
				assert.False(t, a.Rights().ManageUsers)
				assert.False(t, a.HasCustomPIN())
				assert.Nil(t, a.PINUpdatedAt())
			},
		},
		{
			name: "unknown role falls back to User",
			row:  accountRow{employeeID: 4711, role: "Supervisor", pinHash: &hash, isActive: false, at: at},
			checkFunc: func(t *testing.T, a *user.Account) {
				assert.Equal(t, user.RoleUser, a.Role())
				assert.True(t, a.HasCustomPIN())
				assert.False(t, a.IsActive())
				require.NotNil(t, a.PINUpdatedAt())
				assert.Equal(t, at, *a.PINUpdatedAt())
			},
		},
		{
			name:     "missing row",
			row:      accountRow{err: pgx.ErrNoRows},
			wantErr:  errs.ErrNotFound,
			wantKind: infra.KindNotFound,
		},
		{
			name:     "database error",
			row:      accountRow{err: assert.AnError},
			wantKind: infra.KindDBFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockDBTX)
			db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(4711)}).Return(tt.row)

			account, err := NewUserRepository(db).FindByEmployeeID(context.Background(), 4711)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind), err.Error())
				if tt.wantErr != nil {
					assert.True(t, errs.Is(err, tt.wantErr))
				}
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, account)
			db.AssertExpectations(t)
		})
	}
}

func TestSaveAccount(t *testing.T) {
	at := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	account := user.ReconstructAccount(4711, user.RoleAdmin, user.AllRights(), nil, nil, true, at, at)

	t.Run("writes the resolved rights as JSON", func(t *testing.T) {
		db := new(MockDBTX)
		db.On("Exec", mock.Anything, mock.Anything, mock.MatchedBy(func(args []any) bool {
			if len(args) != 8 || args[0] != int64(4711) || args[1] != "Admin" {
				return false
			}
			var rights user.Rights
			if err := json.Unmarshal(args[2].([]byte), &rights); err != nil {
				return false
			}
			return rights == user.AllRights() && args[3] == pgtype.Text{} && args[5] == true
		})).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

		require.NoError(t, NewUserRepository(db).Save(context.Background(), account))
		db.AssertExpectations(t)
	})

	t.Run("duplicate key is classified", func(t *testing.T) {
		db := new(MockDBTX)
		db.On("Exec", mock.Anything, mock.Anything, mock.Anything).
			Return(pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"})

		err := NewUserRepository(db).Save(context.Background(), account)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})
}

func TestDeleteAccount(t *testing.T) {
	tests := []struct {
		name     string
		tag      pgconn.CommandTag
		execErr  error
		wantKind infra.RepositoryErrorKind
	}{
		{name: "deleted", tag: pgconn.NewCommandTag("DELETE 1")},
		{name: "no such account", tag: pgconn.NewCommandTag("DELETE 0"), wantKind: infra.KindNotFound},
		{name: "database error", execErr: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockDBTX)
			db.On("Exec", mock.Anything, mock.Anything, []any{int64(4711)}).Return(tt.tag, tt.execErr)

			err := NewUserRepository(db).Delete(context.Background(), 4711)

			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tt.wantKind))
			if tt.wantKind == infra.KindNotFound {
				assert.True(t, errs.Is(err, errs.ErrNotFound))
			}
		})
	}
}
