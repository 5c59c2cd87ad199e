package repository

import (
	"context"

	"tool-rental/internal/infra"
	"tool-rental/internal/infra/db"
	"tool-rental/internal/pkg/pgconv"
	"tool-rental/internal/usecase/shared"
)

const maxAuditDetails = 2000

// AuditRepository appends to audit_logs. Rows are never updated.
type AuditRepository struct {
	db db.DBTX
}

func NewAuditRepository(dbtx db.DBTX) *AuditRepository {
	return &AuditRepository{db: dbtx}
}

func (r *AuditRepository) Append(ctx context.Context, e shared.AuditEntry) error {
	details := e.Details
	if len(details) > maxAuditDetails {
		details = details[:maxAuditDetails]
	}
	_, err := r.db.Exec(ctx, `INSERT INTO audit_logs (entity_type, entity_id, action, details, user_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`,
		e.EntityType, e.EntityID, e.Action, details, pgconv.Int64PtrToPgtype(e.UserID), e.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to append audit entry", err)
	}
	return nil
}
