package query

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
)

const opDistinct = "distinct"

// AuditLogQueries caches the read-only audit log
type AuditLogQueries struct {
	c    *Client
	repo repositories.AuditLogRepository
}

// NewAuditLogQueries creates audit log queries
func NewAuditLogQueries(c *Client, repo repositories.AuditLogRepository) *AuditLogQueries {
	return &AuditLogQueries{c: c, repo: repo}
}

func (q *AuditLogQueries) List(ctx context.Context, filter entities.AuditLogFilter) (*entities.AuditLogPage, error) {
	return Fetch(ctx, q.c, ListKey(ResourceAuditLogs, filter), func(ctx context.Context) (*entities.AuditLogPage, error) {
		return q.repo.List(ctx, filter)
	})
}

func (q *AuditLogQueries) Get(ctx context.Context, id int64) (*entities.AuditLog, error) {
	return Fetch(ctx, q.c, DetailKey(ResourceAuditLogs, id), func(ctx context.Context) (*entities.AuditLog, error) {
		return q.repo.GetByID(ctx, id)
	})
}

func (q *AuditLogQueries) DistinctActions(ctx context.Context) ([]string, error) {
	key := Key{Resource: ResourceAuditLogs, Operation: opDistinct, Params: "actions"}
	return Fetch(ctx, q.c, key, q.repo.DistinctActions)
}

func (q *AuditLogQueries) DistinctEntityTypes(ctx context.Context) ([]string, error) {
	key := Key{Resource: ResourceAuditLogs, Operation: opDistinct, Params: "entity_types"}
	return Fetch(ctx, q.c, key, q.repo.DistinctEntityTypes)
}
