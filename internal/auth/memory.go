package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryDirectory is an in-memory Directory used in tests and when the
// service runs without a database DSN. The mutex makes the uniqueness check
// and the insert a single atomic unit, mirroring the storage constraint the
// Postgres implementation relies on.
type MemoryDirectory struct {
	mu      sync.RWMutex
	byID    map[string]*Identity
	byEmail map[string]*Identity
}

var _ Directory = (*MemoryDirectory)(nil)

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byID:    make(map[string]*Identity),
		byEmail: make(map[string]*Identity),
	}
}

func (d *MemoryDirectory) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	identity, ok := d.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *identity
	return &clone, nil
}

func (d *MemoryDirectory) FindByID(ctx context.Context, id string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	identity, ok := d.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *identity
	return &clone, nil
}

func (d *MemoryDirectory) Create(ctx context.Context, identity *Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[identity.Email]; exists {
		return ErrDuplicateIdentity
	}
	now := time.Now().UTC()
	identity.CreatedAt = now
	identity.UpdatedAt = now
	clone := *identity
	d.byID[identity.ID] = &clone
	d.byEmail[identity.Email] = &clone
	return nil
}

func (d *MemoryDirectory) Save(ctx context.Context, identity *Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	stored, ok := d.byID[identity.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Email != identity.Email {
		delete(d.byEmail, stored.Email)
	}
	identity.UpdatedAt = time.Now().UTC()
	clone := *identity
	clone.CreatedAt = stored.CreatedAt
	d.byID[identity.ID] = &clone
	d.byEmail[identity.Email] = &clone
	return nil
}

func (d *MemoryDirectory) ListByOrganization(ctx context.Context, orgID string) ([]*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Identity
	for _, identity := range d.byID {
		if identity.OrganizationID == orgID {
			clone := *identity
			out = append(out, &clone)
		}
	}
	return out, nil
}

// Count returns the number of stored identities.
func (d *MemoryDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}

// MemoryOrganizations is the in-memory OrganizationStore counterpart.
type MemoryOrganizations struct {
	mu   sync.RWMutex
	orgs map[string]*Organization
}

var _ OrganizationStore = (*MemoryOrganizations)(nil)

// NewMemoryOrganizations returns an empty store.
func NewMemoryOrganizations() *MemoryOrganizations {
	return &MemoryOrganizations{orgs: make(map[string]*Organization)}
}

func (s *MemoryOrganizations) Create(ctx context.Context, org *Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	clone := *org
	s.orgs[org.ID] = &clone
	return nil
}

func (s *MemoryOrganizations) Find(ctx context.Context, id string) (*Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *org
	return &clone, nil
}
