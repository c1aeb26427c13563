package services

import (
	"context"
	"log/slog"

	"github.com/homigo-app/homigo-backend/internal/metrics"
	"github.com/homigo-app/homigo-backend/internal/models"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
	"github.com/homigo-app/homigo-backend/internal/worker"
)

// Auditor writes audit log rows off the request path through the worker
// pool. Failures are logged, never surfaced to the caller.
type Auditor struct {
	logs repo.AuditLogs
	wp   *worker.Pool
}

func NewAuditor(logs repo.AuditLogs, wp *worker.Pool) *Auditor {
	return &Auditor{logs: logs, wp: wp}
}

func (a *Auditor) record(entityType string, entityID int64, action string, details map[string]any) {
	if a == nil || a.logs == nil {
		return
	}
	submit := func(f func()) { f() }
	if a.wp != nil {
		submit = a.wp.Submit
		metrics.WorkerQueueDepth.Set(float64(a.wp.QueueDepth()))
	}
	id := entityID
	submit(func() {
		err := a.logs.Create(context.Background(), models.AuditLog{
			EntityType: entityType,
			EntityID:   &id,
			Action:     action,
			Details:    details,
		})
		if err != nil {
			slog.Error("audit write failed", "entity", entityType, "action", action, "err", err)
		}
	})
}
