package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

// AuditLog is a mock implementation of ports.AuditLog that keeps entries in
// memory.
type AuditLog struct {
	mu      sync.Mutex
	Entries []entities.AuditEntry
	Err     error
}

// NewAuditLog creates a new mock AuditLog.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// LogAction records an entry unless Err is set.
func (m *AuditLog) LogAction(_ context.Context, action, subject string, details map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, entities.AuditEntry{
		ID:        int64(len(m.Entries) + 1),
		Action:    action,
		Subject:   subject,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

// FindAuditLogByAction returns the most recent entries for action, newest
// first.
func (m *AuditLog) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.AuditEntry
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if m.Entries[i].Action != action {
			continue
		}
		out = append(out, m.Entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Actions returns the recorded action names in order.
func (m *AuditLog) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Action
	}
	return out
}
