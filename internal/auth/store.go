package auth

import (
	"context"
	"time"
)

// Directory is the identity persistence port. The auth core never issues raw
// storage queries; everything goes through this interface. Implementations
// must enforce email uniqueness atomically at the storage layer (a unique
// constraint, not check-then-act) and return ErrDuplicateIdentity on
// violation.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	Create(ctx context.Context, identity *Identity) error
	Save(ctx context.Context, identity *Identity) error
	ListByOrganization(ctx context.Context, orgID string) ([]*Identity, error)
}

// OrganizationStore manages tenant records.
type OrganizationStore interface {
	Create(ctx context.Context, org *Organization) error
	Find(ctx context.Context, id string) (*Organization, error)
}

// Event is a security-relevant action recorded for compliance. Entries are
// append-only: never mutated, never deleted.
type Event struct {
	ID            string    `json:"id"`
	IdentityID    string    `json:"identity_id"`
	IdentityEmail string    `json:"identity_email"`
	Action        string    `json:"action"`
	ResourceType  string    `json:"resource_type"`
	ResourceID    string    `json:"resource_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Recorder is the audit sink port. Record is fire-and-forget: a sink failure
// must never fail the auth operation that produced the event.
type Recorder interface {
	Record(ctx context.Context, event Event)
}
