package ports

import (
	"context"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

// AuditLog records review actions so that alias changes can be traced back
// to the queue group that caused them.
type AuditLog interface {
	// LogAction appends an entry to the audit log.
	LogAction(ctx context.Context, action, subject string, details map[string]any) error

	// FindAuditLogByAction finds audit log entries by action type, newest first.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
