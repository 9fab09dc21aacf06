package entities

import "time"

// Audit actions written by review tooling.
const (
	AuditMapToExisting   = "queue.map"
	AuditCreateCanonical = "queue.create"
	AuditIgnore          = "queue.ignore"
	AuditEntityAdded     = "refdata.add"
	AuditEntityDisabled  = "refdata.disable"
	AuditEntityEnabled   = "refdata.enable"
	AuditEntityRemoved   = "refdata.remove"
)

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	Subject   string         `json:"subject,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
