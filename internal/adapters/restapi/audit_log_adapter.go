package restapi

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
)

// AuditLogAdapter implements AuditLogRepository over the REST backend
type AuditLogAdapter struct {
	client *clinicapi.Client
}

// NewAuditLogAdapter creates a new audit log adapter
func NewAuditLogAdapter(client *clinicapi.Client) repositories.AuditLogRepository {
	return &AuditLogAdapter{client: client}
}

// List retrieves a page of audit entries
func (a *AuditLogAdapter) List(ctx context.Context, filter entities.AuditLogFilter) (*entities.AuditLogPage, error) {
	query, err := clinicapi.Query(filter)
	if err != nil {
		return nil, err
	}
	var out entities.AuditLogPage
	if err := a.client.Get(ctx, pathAuditLogs, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves one audit entry
func (a *AuditLogAdapter) GetByID(ctx context.Context, id int64) (*entities.AuditLog, error) {
	var out entities.AuditLog
	if err := a.client.Get(ctx, auditLogPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DistinctActions lists the action names present in the log
func (a *AuditLogAdapter) DistinctActions(ctx context.Context) ([]string, error) {
	var out []string
	if err := a.client.Get(ctx, pathAuditActions, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DistinctEntityTypes lists the entity types present in the log
func (a *AuditLogAdapter) DistinctEntityTypes(ctx context.Context) ([]string, error) {
	var out []string
	if err := a.client.Get(ctx, pathAuditEntities, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
