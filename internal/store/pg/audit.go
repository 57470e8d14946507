package pg

import (
	"context"
	"database/sql"

	"taskhub.org/internal/audit"
	"taskhub.org/internal/auth"
)

// AuditLog implements audit.Store. Inserts only; nothing in this package
// updates or deletes audit rows.
type AuditLog struct {
	db *sql.DB
}

var _ audit.Store = (*AuditLog)(nil)

// AuditLog returns the append-only audit store backed by this handle.
func (s *Store) AuditLog() *AuditLog {
	return &AuditLog{db: s.db}
}

func (a *AuditLog) Append(ctx context.Context, event *auth.Event) error {
	_, err := a.db.ExecContext(ctx, `
		insert into audit_log (id, identity_id, identity_email, action, resource_type, resource_id, occurred_at)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, event.ID, event.IdentityID, event.IdentityEmail, event.Action,
		event.ResourceType, event.ResourceID, event.OccurredAt)
	return err
}
